package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trefila/internal/modules/drawing/dto"
	apperrors "trefila/internal/platform/errors"
	"trefila/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type DrawingPort interface {
	Schedule(ctx context.Context, entry, exit float64, passes int, mode string) (dto.ScheduleOutput, error)
	EditDie(ctx context.Context, entry float64, mode string, diameters []float64, pass int, diameter float64) (dto.ScheduleOutput, error)
	Evaluate(ctx context.Context, entry float64, mode string, diameters []float64) (dto.ScheduleOutput, error)
	SaveDraft(ctx context.Context, input dto.DraftInput) (dto.DraftOutput, error)
	LoadDraft(ctx context.Context) (dto.DraftOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// ScheduledMsg carries a computed, edited or re-evaluated schedule.
type ScheduledMsg struct {
	Inputs  Inputs
	Out     dto.ScheduleOutput
	Persist bool
	Err     error
}

type DraftLoadedMsg struct {
	Draft dto.DraftOutput
	Err   error
}

type DraftSavedMsg struct {
	Err error
}

// Inputs is the drawing spec as typed into the form.
type Inputs struct {
	Entry  float64
	Exit   float64
	Passes int
	Mode   string
}

// ─── model ───────────────────────────────────────────────────────────────────

type focusArea int

const (
	focusEntry focusArea = iota
	focusExit
	focusPasses
	focusTable
	focusDie
)

const (
	modeProgressive = "progressive"
	modeUniform     = "uniform"
)

var fieldLabels = [...]string{"entry mm", "exit mm", "passes"}

type Model struct {
	port     DrawingPort
	inputs   []textinput.Model
	dieInput textinput.Model
	table    table.Model
	focus    focusArea
	mode     string
	shown    Inputs
	out      dto.ScheduleOutput
	has      bool
	status   string
	width    int
	height   int
}

func New(port DrawingPort, mode string, passes int) Model {
	if mode != modeUniform {
		mode = modeProgressive
	}
	inputs := make([]textinput.Model, len(fieldLabels))
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 10
		inputs[i] = ti
	}
	inputs[focusEntry].Placeholder = "5.5"
	inputs[focusExit].Placeholder = "3.2"
	if passes > 0 {
		inputs[focusPasses].SetValue(strconv.Itoa(passes))
	}

	die := textinput.New()
	die.Prompt = "new die mm: "
	die.CharLimit = 12
	die.Width = 10

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Pass", Width: 6},
			{Title: "Die mm", Width: 10},
			{Title: "Red. %", Width: 10},
			{Title: "Status", Width: 12},
		}),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender).Bold(false)
	tbl.SetStyles(styles)

	m := Model{
		port:     port,
		inputs:   inputs,
		dieInput: die,
		table:    tbl,
		mode:     mode,
		status:   "press i to enter the drawing spec",
	}
	m.focusOn(focusTable)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadDraftCmd())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(3, m.height-12))
		return m, nil

	case DraftLoadedMsg:
		if msg.Err != nil {
			if !errors.Is(msg.Err, apperrors.ErrNotFound) {
				m.status = "draft: " + msg.Err.Error()
			}
			return m, nil
		}
		in := Inputs{Entry: msg.Draft.EntryDiameter, Exit: msg.Draft.ExitDiameter, Passes: msg.Draft.PassCount, Mode: msg.Draft.Mode}
		m.setInputs(in)
		m.status = "draft restored"
		if len(msg.Draft.Diameters) > 0 {
			return m, m.evaluateCmd(in, msg.Draft.Diameters, false)
		}
		return m, m.scheduleCmd(in)

	case ScheduledMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.shown = msg.Inputs
		m.out = msg.Out
		m.has = true
		m.table.SetRows(rows(msg.Out.Passes))
		if m.table.Cursor() >= len(msg.Out.Passes) {
			m.table.SetCursor(0)
		}
		m.status = fmt.Sprintf("%s schedule, %d passes", msg.Out.Mode, len(msg.Out.Passes))
		if msg.Persist {
			return m, m.saveDraftCmd(msg.Inputs, msg.Out.Diameters)
		}
		return m, nil

	case DraftSavedMsg:
		if msg.Err != nil {
			m.status = "draft save: " + msg.Err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusTable {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.focus {
	case focusEntry, focusExit, focusPasses:
		switch msg.String() {
		case "up":
			cmd := m.focusOn((m.focus + 2) % 3)
			return m, cmd
		case "down":
			cmd := m.focusOn((m.focus + 1) % 3)
			return m, cmd
		case "ctrl+t":
			m.mode = toggle(m.mode)
			return m, nil
		case "esc":
			cmd := m.focusOn(focusTable)
			return m, cmd
		case "enter":
			cmd := m.Run()
			focus := m.focusOn(focusTable)
			return m, tea.Batch(cmd, focus)
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd

	case focusDie:
		switch msg.String() {
		case "esc":
			cmd := m.focusOn(focusTable)
			return m, cmd
		case "enter":
			raw := strings.TrimSpace(m.dieInput.Value())
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				m.status = fmt.Sprintf("die diameter %q is not a number", raw)
				return m, nil
			}
			cmd := m.SetDie(m.table.Cursor()+1, value)
			focus := m.focusOn(focusTable)
			return m, tea.Batch(cmd, focus)
		}
		var cmd tea.Cmd
		m.dieInput, cmd = m.dieInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "i":
		cmd := m.focusOn(focusEntry)
		return m, cmd
	case "r":
		return m, m.Run()
	case "m":
		cmd := m.SetMode(toggle(m.mode))
		return m, cmd
	case "e":
		if !m.has || len(m.out.Diameters) == 0 {
			m.status = "nothing to edit"
			return m, nil
		}
		m.dieInput.SetValue(formatFloat(m.out.Diameters[m.table.Cursor()]))
		cmd := m.focusOn(focusDie)
		return m, cmd
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Reduction schedule") + "  " +
		theme.Muted.Render("mode: ") + theme.Hot.Render(m.mode) + "\n\n")

	fields := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		style := theme.Pane
		if m.focus == focusArea(i) {
			style = theme.PaneActive
		}
		fields[i] = style.Render(theme.Muted.Render(fieldLabels[i]+" ") + in.View())
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, fields...) + "\n")

	if m.has && len(m.out.Passes) > 0 {
		sb.WriteString(fmt.Sprintf("%s%.2f%%   %s\n",
			theme.Muted.Render("first pass: "), m.out.Passes[0].ReductionPercent, m.summary()))
	} else {
		sb.WriteString("\n")
	}

	tablePane := theme.Pane
	if m.focus == focusTable {
		tablePane = theme.PaneActive
	}
	sb.WriteString(tablePane.Render(m.table.View()) + "\n")

	if m.focus == focusDie {
		sb.WriteString(fmt.Sprintf("pass %d  %s\n", m.table.Cursor()+1, m.dieInput.View()))
	}
	sb.WriteString(m.statusLine() + "\n")
	sb.WriteString(theme.Muted.Render(m.hint()))
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(sb.String())
}

// Editing reports whether a text field has focus, in which case global key
// bindings must yield.
func (m Model) Editing() bool {
	return m.focus != focusTable
}

// Current returns the schedule on screen with the spec that produced it.
// The form fields may have been edited since.
func (m Model) Current() (Inputs, dto.ScheduleOutput, bool) {
	return m.shown, m.out, m.has
}

// Inputs parses the form fields together with the selected mode.
func (m Model) Inputs() (Inputs, error) {
	entry, err := parseField(m.inputs[focusEntry], "entry diameter")
	if err != nil {
		return Inputs{}, err
	}
	exit, err := parseField(m.inputs[focusExit], "exit diameter")
	if err != nil {
		return Inputs{}, err
	}
	raw := strings.TrimSpace(m.inputs[focusPasses].Value())
	passes, err := strconv.Atoi(raw)
	if err != nil {
		return Inputs{}, fmt.Errorf("pass count %q is not a whole number", raw)
	}
	return Inputs{Entry: entry, Exit: exit, Passes: passes, Mode: m.mode}, nil
}

// Run recomputes the schedule from the form.
func (m Model) Run() tea.Cmd {
	in, err := m.Inputs()
	if err != nil {
		return func() tea.Msg { return ScheduledMsg{Err: err} }
	}
	return m.scheduleCmd(in)
}

// SetMode switches the schedule mode and recomputes.
func (m *Model) SetMode(mode string) tea.Cmd {
	if mode != modeProgressive && mode != modeUniform {
		m.status = "unknown mode: " + mode
		return nil
	}
	m.mode = mode
	return m.Run()
}

// SetDie replaces the die of a 1-based pass and re-evaluates the schedule.
func (m *Model) SetDie(pass int, diameter float64) tea.Cmd {
	if !m.has {
		m.status = "compute a schedule first"
		return nil
	}
	in := m.shown
	diameters := append([]float64(nil), m.out.Diameters...)
	port := m.port
	return func() tea.Msg {
		out, err := port.EditDie(context.Background(), in.Entry, in.Mode, diameters, pass, diameter)
		return ScheduledMsg{Inputs: in, Out: out, Persist: true, Err: err}
	}
}

// LoadRecipe fills the form from a stored recipe and shows its dies.
func (m *Model) LoadRecipe(in Inputs, diameters []float64) tea.Cmd {
	m.setInputs(in)
	m.status = "recipe loaded"
	return m.evaluateCmd(in, diameters, true)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) focusOn(f focusArea) tea.Cmd {
	m.focus = f
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.dieInput.Blur()
	switch f {
	case focusTable:
		m.table.Focus()
		return nil
	case focusDie:
		m.table.Blur()
		return m.dieInput.Focus()
	default:
		m.table.Blur()
		return m.inputs[f].Focus()
	}
}

func (m *Model) setInputs(in Inputs) {
	m.inputs[focusEntry].SetValue(formatFloat(in.Entry))
	m.inputs[focusExit].SetValue(formatFloat(in.Exit))
	m.inputs[focusPasses].SetValue(strconv.Itoa(in.Passes))
	if in.Mode == modeProgressive || in.Mode == modeUniform {
		m.mode = in.Mode
	}
}

func (m Model) summary() string {
	counts := map[string]int{}
	for _, p := range m.out.Passes {
		counts[p.Status]++
	}
	parts := make([]string, 0, 4)
	for _, status := range []string{"ok", "low", "high", "critical"} {
		if counts[status] == 0 {
			continue
		}
		parts = append(parts, theme.Status(status).Render(fmt.Sprintf("%s %d", status, counts[status])))
	}
	return strings.Join(parts, "  ")
}

func (m Model) statusLine() string {
	if m.has && m.focus == focusTable && len(m.out.Passes) > 0 {
		p := m.out.Passes[m.table.Cursor()]
		selected := theme.Status(p.Status).Render(fmt.Sprintf("pass %d: %.3f mm  %.2f%%  %s", p.Pass, p.Diameter, p.ReductionPercent, p.Status))
		return selected + "   " + theme.Muted.Render(m.status)
	}
	return theme.Muted.Render(m.status)
}

func (m Model) hint() string {
	switch m.focus {
	case focusTable:
		return "i: edit spec  e: edit die  m: toggle mode  r: recompute"
	case focusDie:
		return "enter: apply  esc: cancel"
	default:
		return "↑/↓: field  ctrl+t: toggle mode  enter: compute  esc: table"
	}
}

func (m Model) scheduleCmd(in Inputs) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		out, err := port.Schedule(context.Background(), in.Entry, in.Exit, in.Passes, in.Mode)
		return ScheduledMsg{Inputs: in, Out: out, Persist: true, Err: err}
	}
}

func (m Model) evaluateCmd(in Inputs, diameters []float64, persist bool) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		out, err := port.Evaluate(context.Background(), in.Entry, in.Mode, diameters)
		return ScheduledMsg{Inputs: in, Out: out, Persist: persist, Err: err}
	}
}

func (m Model) saveDraftCmd(in Inputs, diameters []float64) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		_, err := port.SaveDraft(context.Background(), dto.DraftInput{
			EntryDiameter: in.Entry,
			ExitDiameter:  in.Exit,
			PassCount:     in.Passes,
			Mode:          in.Mode,
			Diameters:     diameters,
		})
		return DraftSavedMsg{Err: err}
	}
}

func (m Model) loadDraftCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		draft, err := port.LoadDraft(context.Background())
		return DraftLoadedMsg{Draft: draft, Err: err}
	}
}

func rows(passes []dto.PassOutput) []table.Row {
	out := make([]table.Row, 0, len(passes))
	for _, p := range passes {
		out = append(out, table.Row{
			strconv.Itoa(p.Pass),
			fmt.Sprintf("%.3f", p.Diameter),
			fmt.Sprintf("%.2f", p.ReductionPercent),
			statusLabel(p.Status),
		})
	}
	return out
}

// statusLabel marks out-of-range passes without colour; the table truncates
// by byte width and would cut escape sequences.
func statusLabel(status string) string {
	switch status {
	case "critical":
		return "!! critical"
	case "high":
		return "! high"
	case "low":
		return "v low"
	default:
		return status
	}
}

func toggle(mode string) string {
	if mode == modeUniform {
		return modeProgressive
	}
	return modeUniform
}

func parseField(in textinput.Model, label string) (float64, error) {
	raw := strings.TrimSpace(in.Value())
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", label, raw)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
