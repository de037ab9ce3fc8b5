package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	recipedto "trefila/internal/modules/recipe/dto"
	"trefila/internal/ui/components"
	"trefila/internal/ui/theme"
	recipesview "trefila/internal/ui/views/recipes"
	schedulerview "trefila/internal/ui/views/scheduler"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type recipePort interface {
	Save(ctx context.Context, input recipedto.SaveRecipeInput) (recipedto.RecipeOutput, error)
	List(ctx context.Context) ([]recipedto.RecipeOutput, error)
	Get(ctx context.Context, id string) (recipedto.RecipeDetailOutput, error)
	Delete(ctx context.Context, id string) error
	Reindex(ctx context.Context) error
}

// Defaults seeds the scheduler form before any draft is restored.
type Defaults struct {
	Mode   string
	Passes int
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabScheduler tabID = iota
	tabRecipes
	tabCount
)

var tabLabels = [tabCount]string{"Scheduler", "Recipes"}

// ─── async messages ──────────────────────────────────────────────────────────

type recipeSavedMsg struct {
	out recipedto.RecipeOutput
	err error
}

type recipeDeletedMsg struct {
	name string
	err  error
}

type recipeFetchedMsg struct {
	detail recipedto.RecipeDetailOutput
	err    error
}

type reindexedMsg struct{ err error }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Load    key.Binding
	Inputs  key.Binding
	Edit    key.Binding
	Mode    key.Binding
	Run     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Load:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load recipe")),
		Inputs:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit spec")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit die")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle mode")),
		Run:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recompute")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Inputs, k.Edit, k.Mode, k.Run},
		{k.Tab, k.Load},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; scheduling and recipe listing live in sub-views.
type Model struct {
	workspacePath string
	recipes       recipePort
	now           func() time.Time

	schedView schedulerview.Model
	recView   recipesview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(workspacePath string, defaults Defaults, drawing schedulerview.DrawingPort, recipes recipePort) Model {
	return Model{
		workspacePath: workspacePath,
		recipes:       recipes,
		now:           time.Now,
		schedView:     schedulerview.New(drawing, defaults.Mode, defaults.Passes),
		recView:       recipesview.New(recipes),
		activeTab:     tabScheduler,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.schedView.Init(), m.recView.Init())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	// Async results are delivered to their owning view whatever tab is active.
	case schedulerview.ScheduledMsg, schedulerview.DraftLoadedMsg, schedulerview.DraftSavedMsg:
		var cmd tea.Cmd
		m.schedView, cmd = m.schedView.Update(msg)
		return m, cmd

	case recipesview.RecipesLoadedMsg, recipesview.DetailLoadedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.recView, cmd = m.recView.Update(msg)
		return m, cmd

	case recipeSavedMsg:
		if msg.err != nil {
			m.status = "recipe save failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("recipe saved: %s (%s)", msg.out.Name, msg.out.NotePath)
		return m, m.recView.Reload()

	case recipeDeletedMsg:
		if msg.err != nil {
			m.status = "recipe delete failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "recipe deleted: " + msg.name
		return m, m.recView.Reload()

	case recipeFetchedMsg:
		if msg.err != nil {
			m.status = "recipe load failed: " + msg.err.Error()
			return m, nil
		}
		d := msg.detail
		m.activeTab = tabScheduler
		m.status = "recipe loaded: " + d.Name
		cmd := m.schedView.LoadRecipe(schedulerview.Inputs{
			Entry:  d.EntryDiameter,
			Exit:   d.ExitDiameter,
			Passes: d.PassCount,
			Mode:   d.Mode,
		}, d.Diameters)
		return m, cmd

	case reindexedMsg:
		if msg.err != nil {
			m.status = "reindex failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "recipe index rebuilt"
		return m, m.recView.Reload()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the sub-view while it has a text field or filter open.
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		case "enter":
			if m.activeTab == tabRecipes {
				if id, ok := m.recView.SelectedRecipeID(); ok {
					return m, m.fetchRecipeCmd(id)
				}
				return m, nil
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabScheduler:
		m.schedView, tabCmd = m.schedView.Update(msg)
	case tabRecipes:
		m.recView, tabCmd = m.recView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabScheduler:
		return m.schedView.View()
	case tabRecipes:
		return m.recView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "trefila " + theme.Muted.Render(filepath.Base(m.workspacePath)) + "  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "schedule:run":
		m.activeTab = tabScheduler
		return m, m.schedView.Run()

	case "mode:progressive", "mode:uniform":
		m.activeTab = tabScheduler
		cmd := m.schedView.SetMode(strings.TrimPrefix(parts[0], "mode:"))
		return m, cmd

	case "die:set":
		if len(parts) != 3 {
			m.status = "usage: die:set <pass> <diameter>"
			return m, nil
		}
		pass, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid pass: " + parts[1]
			return m, nil
		}
		diameter, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			m.status = "invalid diameter: " + parts[2]
			return m, nil
		}
		m.activeTab = tabScheduler
		cmd := m.schedView.SetDie(pass, diameter)
		return m, cmd

	case "recipe:save":
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if name == "" {
			m.status = "usage: recipe:save <name>"
			return m, nil
		}
		in, out, ok := m.schedView.Current()
		if !ok {
			m.status = "compute a schedule first"
			return m, nil
		}
		return m, m.saveRecipeCmd(recipedto.SaveRecipeInput{
			Name:          name,
			Date:          m.now(),
			EntryDiameter: in.Entry,
			ExitDiameter:  in.Exit,
			PassCount:     in.Passes,
			Mode:          in.Mode,
			Diameters:     out.Diameters,
		})

	case "recipe:load":
		id, ok := m.recView.SelectedRecipeID()
		if !ok {
			m.status = "no recipe selected"
			return m, nil
		}
		return m, m.fetchRecipeCmd(id)

	case "recipe:delete":
		id, ok := m.recView.SelectedRecipeID()
		if !ok {
			m.status = "no recipe selected"
			return m, nil
		}
		return m, m.deleteRecipeCmd(id, m.recView.SelectedRecipeName())

	case "recipe:reindex":
		return m, m.reindexCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab is taking free text, in
// which case global key bindings must yield.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabScheduler:
		return m.schedView.Editing()
	case tabRecipes:
		return m.recView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.schedView, _ = m.schedView.Update(sz)
	m.recView, _ = m.recView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) saveRecipeCmd(input recipedto.SaveRecipeInput) tea.Cmd {
	recipes := m.recipes
	return func() tea.Msg {
		out, err := recipes.Save(context.Background(), input)
		return recipeSavedMsg{out: out, err: err}
	}
}

func (m Model) fetchRecipeCmd(id string) tea.Cmd {
	recipes := m.recipes
	return func() tea.Msg {
		detail, err := recipes.Get(context.Background(), id)
		return recipeFetchedMsg{detail: detail, err: err}
	}
}

func (m Model) deleteRecipeCmd(id, name string) tea.Cmd {
	recipes := m.recipes
	return func() tea.Msg {
		err := recipes.Delete(context.Background(), id)
		return recipeDeletedMsg{name: name, err: err}
	}
}

func (m Model) reindexCmd() tea.Cmd {
	recipes := m.recipes
	return func() tea.Msg {
		return reindexedMsg{err: recipes.Reindex(context.Background())}
	}
}
