package taskform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/keys"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/theme"
)

// CreatedMsg is dispatched when the user submits a new task.
type CreatedMsg struct {
	Input domain.TaskInput
}

// UpdatedMsg is dispatched when the user submits changes to TaskID.
type UpdatedMsg struct {
	TaskID string
	Patch  domain.TaskPatch
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	projectID   string
	dueDate     string
	priority    model.Priority
	category    string
	tags        string
	completed   bool
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	projects []model.Project
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// SetProjects sets the projects offered by the project selector.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
}

// StartCreate initializes the form for a new task due today. projectID
// preselects the project the user is looking at.
func (m *Model) StartCreate(today model.Date, projectID string) tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{
		projectID: projectID,
		dueDate:   today.String(),
		priority:  model.PriorityMedium,
		category:  model.Categories[0],
	}
	if m.fb.projectID == "" {
		m.fb.projectID = model.DefaultProjectID
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.editMode = true
	m.editID = t.ID
	*m.fb = formBindings{
		title:       t.Title,
		description: t.Description,
		projectID:   t.ProjectID,
		dueDate:     t.DueDate.String(),
		priority:    t.Priority,
		category:    t.Category,
		tags:        strings.Join(t.Tags, ", "),
		completed:   t.Completed,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		m.projectField(),
		huh.NewSelect[model.Priority]().
			Title("Priority").
			Options(
				huh.NewOption("Urgent", model.PriorityUrgent),
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Category").
			Placeholder(strings.Join(model.Categories, ", ")).
			Suggestions(model.Categories).
			Value(&m.fb.category).
			Validate(validateRequired("Category")),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.dueDate).
			Validate(validateDate),
		huh.NewInput().
			Title("Tags").
			Placeholder("comma separated").
			Value(&m.fb.tags),
	}
	if m.editMode {
		fields = append(fields,
			huh.NewConfirm().
				Title("Completed").
				Affirmative("Done").
				Negative("Open").
				Value(&m.fb.completed),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(keys.FormKeyMap())
}

func (m *Model) projectField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("No project", model.DefaultProjectID),
	}
	for _, p := range m.projects {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	return huh.NewSelect[string]().
		Title("Project").
		Options(opts...).
		Value(&m.fb.projectID)
}

func (m Model) handleSubmit() tea.Cmd {
	if m.editMode {
		id := m.editID
		patch, err := m.fb.patch()
		if err != nil {
			return func() tea.Msg { return CancelMsg{} }
		}
		return func() tea.Msg { return UpdatedMsg{TaskID: id, Patch: patch} }
	}

	in, err := m.fb.input()
	if err != nil {
		return func() tea.Msg { return CancelMsg{} }
	}
	return func() tea.Msg { return CreatedMsg{Input: in} }
}

// input converts the bound values into a TaskInput. The domain store
// performs the authoritative validation.
func (fb formBindings) input() (domain.TaskInput, error) {
	due, err := model.ParseDate(strings.TrimSpace(fb.dueDate))
	if err != nil {
		return domain.TaskInput{}, err
	}
	return domain.TaskInput{
		ProjectID:   fb.projectID,
		Title:       fb.title,
		Description: fb.description,
		DueDate:     due,
		Priority:    fb.priority,
		Category:    fb.category,
		Tags:        model.SplitTags(fb.tags),
	}, nil
}

func (fb formBindings) patch() (domain.TaskPatch, error) {
	in, err := fb.input()
	if err != nil {
		return domain.TaskPatch{}, err
	}
	completed := fb.completed
	return domain.TaskPatch{
		ProjectID:   &in.ProjectID,
		Title:       &in.Title,
		Description: &in.Description,
		DueDate:     &in.DueDate,
		Priority:    &in.Priority,
		Category:    &in.Category,
		Completed:   &completed,
		Tags:        &in.Tags,
	}, nil
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

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	if err := validateRequired("Due Date")(s); err != nil {
		return err
	}
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
