package model

// Theme selects the colour scheme. ThemeSystem follows the terminal.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// Next cycles light -> dark -> system -> light.
func (t Theme) Next() Theme {
	switch t {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeSystem
	default:
		return ThemeLight
	}
}

// ViewMode selects which tasks a list shows.
type ViewMode string

const (
	ViewAll       ViewMode = "all"
	ViewToday     ViewMode = "today"
	ViewUpcoming  ViewMode = "upcoming"
	ViewCompleted ViewMode = "completed"
)

// ViewModes lists the view modes in navigation order.
var ViewModes = []ViewMode{ViewAll, ViewToday, ViewUpcoming, ViewCompleted}

func (v ViewMode) IsValid() bool {
	switch v {
	case ViewAll, ViewToday, ViewUpcoming, ViewCompleted:
		return true
	default:
		return false
	}
}

// Label returns a human readable name for the view.
func (v ViewMode) Label() string {
	switch v {
	case ViewToday:
		return "Today"
	case ViewUpcoming:
		return "Upcoming"
	case ViewCompleted:
		return "Completed"
	default:
		return "All Tasks"
	}
}

// SortField is the user's preferred task ordering key.
type SortField string

const (
	SortByDueDate  SortField = "dueDate"
	SortByPriority SortField = "priority"
	SortByCreated  SortField = "created"
	SortByUpdated  SortField = "updated"
)

func (f SortField) IsValid() bool {
	switch f {
	case SortByDueDate, SortByPriority, SortByCreated, SortByUpdated:
		return true
	default:
		return false
	}
}

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// Settings holds persisted user preferences.
type Settings struct {
	Theme              Theme     `json:"theme"`
	DefaultView        ViewMode  `json:"defaultView"`
	ShowCompletedTasks bool      `json:"showCompletedTasks"`
	TaskSortBy         SortField `json:"taskSortBy"`
	TaskSortOrder      SortOrder `json:"taskSortOrder"`
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() Settings {
	return Settings{
		Theme:              ThemeSystem,
		DefaultView:        ViewAll,
		ShowCompletedTasks: true,
		TaskSortBy:         SortByDueDate,
		TaskSortOrder:      SortAsc,
	}
}

// Validate checks every enum field.
func (s Settings) Validate() error {
	if !s.Theme.IsValid() {
		return Invalid("theme", s.Theme)
	}
	if !s.DefaultView.IsValid() {
		return Invalid("defaultView", s.DefaultView)
	}
	if !s.TaskSortBy.IsValid() {
		return Invalid("taskSortBy", s.TaskSortBy)
	}
	if !s.TaskSortOrder.IsValid() {
		return Invalid("taskSortOrder", s.TaskSortOrder)
	}
	return nil
}
