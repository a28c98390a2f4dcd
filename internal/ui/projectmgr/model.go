package projectmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/keys"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/theme"
	"github.com/nhle/tasknest/internal/view"
)

// CloseMsg signals the parent to close the project view.
type CloseMsg struct{}

// ChangedMsg signals that projects or the project scope changed.
type ChangedMsg struct{}

type projectMode int

const (
	modeList projectMode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name        string
	description string
	color       model.Color
	confirm     bool
}

// Model is the Bubble Tea model for project management.
type Model struct {
	mode        projectMode
	store       *domain.Store
	keys        *keys.KeyMap
	rows        []view.ProjectSummary
	selectedIdx int
	editingID   string
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	search      textinput.Model
	bar         progress.Model
	width       int
	height      int
}

// New creates a new project manager model.
func New(s *domain.Store, k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search projects..."
	si.Prompt = "/ "

	m := Model{
		mode:   modeList,
		store:  s,
		keys:   k,
		fb:     &formBindings{},
		search: si,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage()),
		width:  width, height: height,
	}
	m.Refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Refresh reloads project summaries from the store and applies the search.
func (m *Model) Refresh() {
	all := m.store.ProjectSummaries()
	keep := make(map[string]bool)
	projects := make([]model.Project, len(all))
	for i, s := range all {
		projects[i] = s.Project
	}
	for _, p := range view.SearchProjects(projects, m.search.Value()) {
		keep[p.ID] = true
	}

	rows := make([]view.ProjectSummary, 0, len(all))
	for _, s := range all {
		if keep[s.Project.ID] {
			rows = append(rows, s)
		}
	}
	m.rows = rows
	if m.selectedIdx >= len(m.rows) {
		m.selectedIdx = max(len(m.rows)-1, 0)
	}
}

func (m Model) selected() (model.Project, bool) {
	if m.selectedIdx >= len(m.rows) {
		return model.Project{}, false
	}
	return m.rows[m.selectedIdx].Project, true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.search.Blur()
		m.search.Reset()
		m.Refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.Refresh()
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.rows) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.rows)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.rows) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.rows) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		cmd := m.search.Focus()
		return m, cmd

	case msg.String() == "enter":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.store.SelectProject(p.ID)
		return m, tea.Batch(changed, closeView)

	case msg.String() == "a":
		m.store.SelectProject("")
		return m, tea.Batch(changed, closeView)

	case key.Matches(msg, m.keys.New):
		m.editingID = ""
		*m.fb = formBindings{color: model.ColorBlue}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editingID = p.ID
		*m.fb = formBindings{name: p.Name, description: p.Description, color: p.Color}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); !ok {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func changed() tea.Msg { return ChangedMsg{} }

func closeView() tea.Msg { return CloseMsg{} }

func (m Model) buildForm() *huh.Form {
	colors := make([]huh.Option[model.Color], len(model.Palette))
	for i, c := range model.Palette {
		colors[i] = huh.NewOption(c.Label(), c)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Project name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
			huh.NewSelect[model.Color]().
				Title("Color").
				Options(colors...).
				Value(&m.fb.color),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(keys.FormKeyMap())
}

func (m Model) buildConfirmForm() *huh.Form {
	p, _ := m.selected()
	desc := "This project has no tasks."
	if n := m.rows[m.selectedIdx].Total; n > 0 {
		desc = fmt.Sprintf("Its %d task(s) will be deleted too.", n)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %q?", p.Name)).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(keys.FormKeyMap())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.mode = modeList
		return m, m.saveProject()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.mode = modeList
		if p, ok := m.selected(); ok && m.fb.confirm {
			return m, m.deleteProject(p.ID)
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// Editing reports whether a form or text input owns the keyboard.
func (m Model) Editing() bool {
	return m.mode != modeList
}

// View renders the project manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n\n")

	if m.mode == modeSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	scope := m.store.ViewState().ProjectID
	if len(m.rows) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		if m.search.Value() != "" {
			b.WriteString(emptyStyle.Render("No projects match your search."))
		} else {
			b.WriteString(emptyStyle.Render("No projects yet. Press 'n' to create one."))
		}
	} else {
		for i, s := range m.rows {
			dot := lipgloss.NewStyle().Foreground(theme.ProjectColor(s.Project.Color)).Render("●")
			label := fmt.Sprintf("%s %s", dot, s.Project.Name)
			if s.Project.ID == scope {
				label += " (current)"
			}
			counts := fmt.Sprintf("  %d/%d done", s.Completed, s.Total)
			if s.Overdue > 0 {
				counts += theme.OverdueStyle.Render(fmt.Sprintf("  %d overdue", s.Overdue))
			}
			line := label + "  " + m.bar.ViewAs(s.Progress()/100) + counts

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter show tasks | a all projects | n new | e edit | d delete | / search | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = width - 8
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

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) saveProject() tea.Cmd {
	s := m.store
	fb := *m.fb
	editID := m.editingID
	return func() tea.Msg {
		ctx := context.Background()
		if editID == "" {
			// Rejections surface as notifications.
			_, _ = s.CreateProject(ctx, fb.name, fb.description, fb.color)
			return ChangedMsg{}
		}
		_, _, _ = s.UpdateProject(ctx, editID, domain.ProjectPatch{
			Name:        &fb.name,
			Description: &fb.description,
			Color:       &fb.color,
		})
		return ChangedMsg{}
	}
}

func (m Model) deleteProject(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		s.DeleteProject(context.Background(), id)
		return ChangedMsg{}
	}
}
