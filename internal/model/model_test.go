package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-03-09", "2024-03-09", false},
		{"2024-03-09T23:15:00.000Z", "2024-03-09", false},
		{"  2024-12-31 ", "2024-12-31", false},
		{"", "", false},
		{"03/09/2024", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDate(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got.String() != tt.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC).In(loc)
	if got := DateOf(now).String(); got != "2024-05-02" {
		t.Fatalf("DateOf = %s, want 2024-05-02", got)
	}
}

func TestDateJSON(t *testing.T) {
	in := struct {
		Due Date `json:"dueDate"`
	}{Due: NewDate(2024, time.February, 29)}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"dueDate":"2024-02-29"}` {
		t.Fatalf("marshal = %s", b)
	}

	var out struct {
		Due Date `json:"dueDate"`
	}
	if err := json.Unmarshal([]byte(`{"dueDate":17}`), &out); err == nil {
		t.Fatal("expected error for numeric date")
	}
}

func TestTaskValidate(t *testing.T) {
	valid := Task{Title: "a", DueDate: NewDate(2024, 1, 1), Priority: PriorityLow, Category: "Work"}

	tests := []struct {
		name  string
		edit  func(*Task)
		field string
	}{
		{"ok", func(*Task) {}, ""},
		{"blank title", func(t *Task) { t.Title = "   " }, "title"},
		{"no due date", func(t *Task) { t.DueDate = Date{} }, "dueDate"},
		{"no priority", func(t *Task) { t.Priority = "" }, "priority"},
		{"bad priority", func(t *Task) { t.Priority = "critical" }, "priority"},
		{"no category", func(t *Task) { t.Category = "" }, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid
			tt.edit(&task)
			err := task.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("err = %v, want field %s", err, tt.field)
			}
		})
	}
}

func TestProjectValidate(t *testing.T) {
	if err := (Project{Name: "x", Color: ColorBlue}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Project{Name: " ", Color: ColorBlue}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name err = %v", err)
	}
	if err := (Project{Name: "x"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing color err = %v", err)
	}
	if err := (Project{Name: "x", Color: "teal"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown color err = %v", err)
	}
}

func TestSetCompleted(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var task Task

	task.SetCompleted(true, now)
	if !task.Completed || task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("after complete: %+v", task)
	}

	// Setting the same state again keeps the original timestamp.
	task.SetCompleted(true, now.Add(time.Hour))
	if !task.CompletedAt.Equal(now) {
		t.Fatalf("CompletedAt moved to %v", task.CompletedAt)
	}

	task.SetCompleted(false, now)
	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("after reopen: %+v", task)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" a", "b", "", "a", "c ", "b"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if tags := SplitTags(" "); len(tags) != 0 {
		t.Fatalf("SplitTags(blank) = %v", tags)
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityUrgent.Rank() < PriorityHigh.Rank() &&
		PriorityHigh.Rank() < PriorityMedium.Rank() &&
		PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Fatal("priority ranks out of order")
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	s.TaskSortOrder = "sideways"
	if err := s.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestThemeNext(t *testing.T) {
	th := ThemeLight
	seen := []Theme{th}
	for i := 0; i < 3; i++ {
		th = th.Next()
		seen = append(seen, th)
	}
	want := []Theme{ThemeLight, ThemeDark, ThemeSystem, ThemeLight}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}

func TestNotificationExpiresAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := Notification{Duration: 5000, CreatedAt: now}
	at, ok := n.ExpiresAt()
	if !ok || !at.Equal(now.Add(5*time.Second)) {
		t.Fatalf("ExpiresAt = %v, %v", at, ok)
	}
	if _, ok := (Notification{CreatedAt: now}).ExpiresAt(); ok {
		t.Fatal("zero duration should never expire")
	}
}

func TestSampleData(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	projects := SampleProjects(now)
	tasks := SampleTasks(now)
	if len(projects) != 3 || len(tasks) != 6 {
		t.Fatalf("got %d projects, %d tasks", len(projects), len(tasks))
	}

	ids := map[string]bool{}
	for _, p := range projects {
		if err := p.Validate(); err != nil {
			t.Fatalf("project %s: %v", p.ID, err)
		}
		ids[p.ID] = true
	}
	priorities := map[Priority]bool{}
	completed := 0
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			t.Fatalf("task %s: %v", task.ID, err)
		}
		if !ids[task.ProjectID] {
			t.Fatalf("task %s references unknown project %s", task.ID, task.ProjectID)
		}
		if task.Completed != (task.CompletedAt != nil) {
			t.Fatalf("task %s completion fields disagree", task.ID)
		}
		if task.Completed {
			completed++
		}
		priorities[task.Priority] = true
	}
	if len(priorities) != 4 {
		t.Fatalf("sample tasks cover %d priorities, want 4", len(priorities))
	}
	if completed == 0 || completed == len(tasks) {
		t.Fatalf("sample tasks should mix completion states, got %d completed", completed)
	}
	if got := tasks[3].DueDate; !got.Equal(DateOf(now)) {
		t.Fatalf("team meeting due %s, want today", got)
	}
}
