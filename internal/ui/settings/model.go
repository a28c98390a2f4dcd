package settings

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/keys"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/theme"
)

// Mode represents the current state of the settings view.
type Mode int

const (
	ModeForm         Mode = iota // Editing preferences
	ModeConfirmReset             // Confirm wiping all data
)

// DoneMsg signals the settings view should close.
type DoneMsg struct{}

// SavedMsg is sent after the preferences were written.
type SavedMsg struct {
	Settings model.Settings
	Err      error
}

// ResetMsg is sent after all data was cleared.
type ResetMsg struct {
	Err error
}

// formBindings lives on the heap so huh can write to it while the Model
// is copied around by value.
type formBindings struct {
	theme         model.Theme
	defaultView   model.ViewMode
	showCompleted bool
	sortBy        model.SortField
	sortOrder     model.SortOrder
	resetConfirm  bool
}

func (b *formBindings) load(s model.Settings) {
	b.theme = s.Theme
	b.defaultView = s.DefaultView
	b.showCompleted = s.ShowCompletedTasks
	b.sortBy = s.TaskSortBy
	b.sortOrder = s.TaskSortOrder
	b.resetConfirm = false
}

func (b *formBindings) patch() domain.SettingsPatch {
	return domain.SettingsPatch{
		Theme:              &b.theme,
		DefaultView:        &b.defaultView,
		ShowCompletedTasks: &b.showCompleted,
		TaskSortBy:         &b.sortBy,
		TaskSortOrder:      &b.sortOrder,
	}
}

// Model is the Bubble Tea model for the preferences screen.
type Model struct {
	mode          Mode
	store         *domain.Store
	form          *huh.Form
	confirmReset  *huh.Form
	values        *formBindings
	width, height int
}

// New creates a new settings view model.
func New(s *domain.Store, width, height int) Model {
	return Model{
		store:  s,
		values: &formBindings{},
		width:  width,
		height: height,
	}
}

// Start loads the saved settings into a fresh form.
func (m *Model) Start() tea.Cmd {
	m.mode = ModeForm
	m.values.load(m.store.Settings())
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.mode == ModeForm && msg.String() == "ctrl+r" {
			m.values.resetConfirm = false
			m.confirmReset = m.buildResetConfirmForm()
			m.mode = ModeConfirmReset
			return m, m.confirmReset.Init()
		}
	}

	switch m.mode {
	case ModeConfirmReset:
		return m.updateConfirmReset(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m Model) buildForm() *huh.Form {
	themes := []huh.Option[model.Theme]{
		huh.NewOption("Light", model.ThemeLight),
		huh.NewOption("Dark", model.ThemeDark),
		huh.NewOption("System (follow terminal)", model.ThemeSystem),
	}
	views := make([]huh.Option[model.ViewMode], len(model.ViewModes))
	for i, v := range model.ViewModes {
		views[i] = huh.NewOption(v.Label(), v)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.Theme]().
				Title("Theme").
				Options(themes...).
				Value(&m.values.theme),
			huh.NewSelect[model.ViewMode]().
				Title("Default view").
				Description("The list shown on start").
				Options(views...).
				Value(&m.values.defaultView),
			huh.NewConfirm().
				Title("Show completed tasks").
				Affirmative("Yes").
				Negative("No").
				Value(&m.values.showCompleted),
			huh.NewSelect[model.SortField]().
				Title("Sort by").
				Description("Used by `tasknest tasks list --settings-order`").
				Options(
					huh.NewOption("Due date", model.SortByDueDate),
					huh.NewOption("Priority", model.SortByPriority),
					huh.NewOption("Created", model.SortByCreated),
					huh.NewOption("Updated", model.SortByUpdated),
				).
				Value(&m.values.sortBy),
			huh.NewSelect[model.SortOrder]().
				Title("Sort order").
				Options(
					huh.NewOption("Ascending", model.SortAsc),
					huh.NewOption("Descending", model.SortDesc),
				).
				Value(&m.values.sortOrder),
		),
	).WithWidth(m.formWidth()).WithKeyMap(keys.FormKeyMap())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.save(m.values.patch())
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return DoneMsg{} }
	}
	return m, cmd
}

// --- Reset Confirmation ---

func (m Model) buildResetConfirmForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset all data?").
				Description(
					"This deletes every project, task and setting and " +
						"restores the sample data.",
				).
				Affirmative("Yes, reset").
				Negative("Cancel").
				Value(&m.values.resetConfirm),
		),
	).WithWidth(m.formWidth()).WithKeyMap(keys.FormKeyMap())
}

func (m Model) updateConfirmReset(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmReset == nil {
		return m, nil
	}

	mdl, cmd := m.confirmReset.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmReset = f
	}

	switch m.confirmReset.State {
	case huh.StateCompleted:
		m.confirmReset = nil
		if m.values.resetConfirm {
			return m, m.reset()
		}
		cmd := m.Start()
		return m, cmd
	case huh.StateAborted:
		m.confirmReset = nil
		cmd := m.Start()
		return m, cmd
	}
	return m, cmd
}

// --- View ---

// View renders the settings UI based on the current mode.
func (m Model) View() string {
	var f *huh.Form
	hint := "enter next | esc cancel | ctrl+r reset all data"
	switch m.mode {
	case ModeForm:
		f = m.form
	case ModeConfirmReset:
		f = m.confirmReset
		hint = "y/n choose | esc cancel"
	}
	if f == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	hintStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Settings"),
			f.View(),
			"",
			hintStyle.Render(hint),
		))
}

// --- Helpers ---

// Editing reports whether a form owns the keyboard.
func (m Model) Editing() bool {
	return m.form != nil || m.confirmReset != nil
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// save returns a command that persists the preferences.
func (m Model) save(patch domain.SettingsPatch) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		st, err := s.UpdateSettings(context.Background(), patch)
		return SavedMsg{Settings: st, Err: err}
	}
}

// reset returns a command that clears all stored data.
func (m Model) reset() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return ResetMsg{Err: s.Reset(context.Background())}
	}
}
