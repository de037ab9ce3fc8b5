package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	recipedto "trefila/internal/modules/recipe/dto"
	"trefila/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type RecipePort interface {
	List(ctx context.Context) ([]recipedto.RecipeOutput, error)
	Get(ctx context.Context, id string) (recipedto.RecipeDetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type RecipesLoadedMsg struct {
	Recipes []recipedto.RecipeOutput
	Err     error
}

type DetailLoadedMsg struct {
	Detail recipedto.RecipeDetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type recipeItem struct {
	recipe recipedto.RecipeOutput
}

func (i recipeItem) Title() string { return i.recipe.Name }
func (i recipeItem) Description() string {
	return fmt.Sprintf("%s  %.3f→%.3f  %d× %s",
		i.recipe.Date.Format("2006-01-02"), i.recipe.EntryDiameter, i.recipe.ExitDiameter, i.recipe.PassCount, i.recipe.Mode)
}
func (i recipeItem) FilterValue() string { return i.recipe.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    RecipePort
	list    list.Model
	detail  recipedto.RecipeDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port RecipePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recipes"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case RecipesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Recipes: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Recipes"
		items := make([]list.Item, len(msg.Recipes))
		for i, r := range msg.Recipes {
			items[i] = recipeItem{recipe: r}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Recipes) == 0 {
			m.detail = recipedto.RecipeDetailOutput{}
			m.preview.SetContent(m.renderDetail())
		} else if item, ok := m.list.SelectedItem().(recipeItem); ok {
			cmds = append(cmds, m.loadDetailCmd(item.recipe.ID))
		}
		return m, tea.Batch(cmds...)

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(recipeItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.recipe.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading recipes…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(detailW-2, 0)).
		Height(max(m.height-2, 0)).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Reload fetches the recipe list again.
func (m Model) Reload() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		recipes, err := port.List(context.Background())
		return RecipesLoadedMsg{Recipes: recipes, Err: err}
	}
}

// SelectedRecipeID returns the current selection's recipe ID, if any.
func (m Model) SelectedRecipeID() (string, bool) {
	if item, ok := m.list.SelectedItem().(recipeItem); ok {
		return item.recipe.ID, true
	}
	return "", false
}

// SelectedRecipeName returns the current selection's name.
func (m Model) SelectedRecipeName() string {
	if item, ok := m.list.SelectedItem().(recipeItem); ok {
		return item.recipe.Name
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(detailW-4, 0)
	m.preview.Height = max(m.height-4, 0)
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("No recipe selected. Save one with :recipe:save <name>")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Name) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:     ") + d.ID + "\n")
	sb.WriteString(theme.Muted.Render("date:   ") + d.Date.Format("2006-01-02") + "\n")
	sb.WriteString(theme.Muted.Render("mode:   ") + d.Mode + "\n")
	sb.WriteString(fmt.Sprintf("%s%.3f → %.3f mm in %d passes\n",
		theme.Muted.Render("wire:   "), d.EntryDiameter, d.ExitDiameter, d.PassCount))
	if d.NotePath != "" {
		sb.WriteString(theme.Muted.Render("note:   ") + d.NotePath + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("%-5s %9s %9s  %s", "pass", "die mm", "red. %", "status")) + "\n")
	for _, p := range d.Passes {
		line := fmt.Sprintf("%-5d %9.3f %9.2f  %s", p.Pass, p.Diameter, p.ReductionPercent, p.Status)
		sb.WriteString(theme.Status(p.Status).Render(line) + "\n")
	}
	if strings.TrimSpace(d.Notes) != "" {
		sb.WriteString("\n" + d.Notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: load into scheduler  :recipe:delete removes it"))
	return sb.String()
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		detail, err := port.Get(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
