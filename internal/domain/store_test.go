package domain_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/notify"
	"github.com/nhle/tasknest/internal/store"
	"github.com/nhle/tasknest/tests/testutil"
)

var start = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*domain.Store, *notify.Center, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(start)
	s, center := testutil.NewTestStore(t, clock)
	return s, center, clock
}

func lastNotification(t *testing.T, c *notify.Center) model.Notification {
	t.Helper()
	list := c.List()
	if len(list) == 0 {
		t.Fatal("no notifications")
	}
	return list[len(list)-1]
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func validInput() domain.TaskInput {
	return domain.TaskInput{
		Title:    "Write tests",
		DueDate:  model.DateOf(start).AddDays(1),
		Priority: model.PriorityHigh,
		Category: "Work",
		Tags:     []string{"go", " go ", "", "testing"},
	}
}

func TestNewLoadsSeed(t *testing.T) {
	s, _, _ := newStore(t)
	if len(s.Projects()) != 3 || len(s.Tasks()) != 6 {
		t.Fatalf("got %d projects, %d tasks", len(s.Projects()), len(s.Tasks()))
	}
	if got := s.ViewState().Mode; got != model.ViewAll {
		t.Fatalf("initial view = %s, want all", got)
	}
}

func TestNewStartsAtDefaultView(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(start)
	repo := testutil.NewTestAdapter(t, clock)
	settings := model.DefaultSettings()
	settings.DefaultView = model.ViewUpcoming
	repo.SaveSettings(ctx, settings)

	s := domain.New(ctx, repo, nil, domain.WithClock(clock.Now))
	if got := s.ViewState().Mode; got != model.ViewUpcoming {
		t.Fatalf("initial view = %s, want upcoming", got)
	}
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	s, center, _ := newStore(t)

	task, err := s.CreateTask(ctx, validInput())
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == "" || task.ProjectID != model.DefaultProjectID {
		t.Fatalf("task = %+v", task)
	}
	if fmt.Sprint(task.Tags) != "[go testing]" {
		t.Fatalf("tags = %v", task.Tags)
	}
	if !task.CreatedAt.Equal(start) || task.Completed || task.CompletedAt != nil {
		t.Fatalf("task = %+v", task)
	}

	all := s.Tasks()
	if all[len(all)-1].ID != task.ID {
		t.Fatal("new task not appended")
	}
	if n := lastNotification(t, center); n.Title != "Task Created" || n.Type != model.NotifySuccess {
		t.Fatalf("notification = %+v", n)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		edit func(*domain.TaskInput)
	}{
		{"title", func(in *domain.TaskInput) { in.Title = "  " }},
		{"dueDate", func(in *domain.TaskInput) { in.DueDate = model.Date{} }},
		{"priority", func(in *domain.TaskInput) { in.Priority = "" }},
		{"category", func(in *domain.TaskInput) { in.Category = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, center, _ := newStore(t)
			before := len(s.Tasks())

			in := validInput()
			tt.edit(&in)
			_, err := s.CreateTask(ctx, in)
			if !errors.Is(err, model.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if len(s.Tasks()) != before {
				t.Fatal("store changed after validation failure")
			}
			if n := lastNotification(t, center); n.Title != "Validation Error" || n.Type != model.NotifyError {
				t.Fatalf("notification = %+v", n)
			}
		})
	}
}

func TestToggleCompleteInvariant(t *testing.T) {
	ctx := context.Background()
	s, center, clock := newStore(t)
	task, _ := s.CreateTask(ctx, validInput())

	clock.Advance(time.Hour)
	done, ok := s.ToggleComplete(ctx, task.ID)
	if !ok || !done.Completed || done.CompletedAt == nil || !done.CompletedAt.Equal(clock.Now()) {
		t.Fatalf("after toggle: %+v", done)
	}
	if !done.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("updatedAt = %v", done.UpdatedAt)
	}
	if n := lastNotification(t, center); n.Title != "Task Completed" {
		t.Fatalf("notification = %+v", n)
	}

	open, _ := s.ToggleComplete(ctx, task.ID)
	if open.Completed || open.CompletedAt != nil {
		t.Fatalf("after second toggle: %+v", open)
	}
	if n := lastNotification(t, center); n.Title != "Task Reopened" {
		t.Fatalf("notification = %+v", n)
	}

	if _, ok := s.ToggleComplete(ctx, "missing"); ok {
		t.Fatal("toggle of unknown id reported found")
	}
}

func TestCompletionInvariantHoldsForAllTasks(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	for _, task := range s.Tasks() {
		s.ToggleComplete(ctx, task.ID)
	}
	completed := true
	s.UpdateTask(ctx, s.Tasks()[0].ID, domain.TaskPatch{Completed: &completed})

	for _, task := range s.Tasks() {
		if task.Completed != (task.CompletedAt != nil) {
			t.Fatalf("task %s: completed=%v completedAt=%v", task.ID, task.Completed, task.CompletedAt)
		}
	}
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newStore(t)
	task, _ := s.CreateTask(ctx, validInput())
	clock.Advance(time.Minute)

	title := "Renamed"
	prio := model.PriorityUrgent
	completed := true
	tags := []string{"x", "x", "y"}
	got, ok, err := s.UpdateTask(ctx, task.ID, domain.TaskPatch{
		Title: &title, Priority: &prio, Completed: &completed, Tags: &tags,
	})
	if err != nil || !ok {
		t.Fatalf("UpdateTask = %v, %v", ok, err)
	}
	if got.Title != "Renamed" || got.Priority != model.PriorityUrgent || fmt.Sprint(got.Tags) != "[x y]" {
		t.Fatalf("task = %+v", got)
	}
	if got.Category != "Work" {
		t.Fatal("unset field was changed")
	}
	if !got.Completed || got.CompletedAt == nil || !got.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("completion/updatedAt = %+v", got)
	}

	blank := " "
	if _, _, err := s.UpdateTask(ctx, task.ID, domain.TaskPatch{Title: &blank}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank title err = %v", err)
	}
	if cur, _ := s.Task(task.ID); cur.Title != "Renamed" {
		t.Fatalf("failed update changed title to %q", cur.Title)
	}

	if _, ok, err := s.UpdateTask(ctx, "missing", domain.TaskPatch{Title: &title}); ok || err != nil {
		t.Fatalf("unknown id = %v, %v", ok, err)
	}
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	s, center, _ := newStore(t)
	before := len(s.Tasks())

	if !s.DeleteTask(ctx, "sample-task-1") {
		t.Fatal("delete reported missing")
	}
	if _, ok := s.Task("sample-task-1"); ok {
		t.Fatal("task still present")
	}
	if n := lastNotification(t, center); n.Message != `"Complete Qwik.js Tutorial" has been deleted` {
		t.Fatalf("notification = %+v", n)
	}
	if s.DeleteTask(ctx, "sample-task-1") || len(s.Tasks()) != before-1 {
		t.Fatal("second delete was not a no-op")
	}
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	s, center, _ := newStore(t)

	p, err := s.CreateProject(ctx, " Garden ", "veg", model.ColorGreen)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Name != "Garden" || p.ID == "" {
		t.Fatalf("project = %+v", p)
	}
	if n := lastNotification(t, center); n.Title != "Project Created" || n.Message != `"Garden" has been created successfully` {
		t.Fatalf("notification = %+v", n)
	}

	if _, err := s.CreateProject(ctx, "", "", model.ColorGreen); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank name err = %v", err)
	}
	if _, err := s.CreateProject(ctx, "x", "", ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("missing color err = %v", err)
	}
	if len(s.Projects()) != 4 {
		t.Fatalf("projects = %d, want 4", len(s.Projects()))
	}
}

func TestRenameProject(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newStore(t)
	clock.Advance(time.Hour)

	ok, err := s.RenameProject(ctx, "sample-project-1", "Growth")
	if !ok || err != nil {
		t.Fatalf("RenameProject = %v, %v", ok, err)
	}
	p, _ := s.Project("sample-project-1")
	if p.Name != "Growth" || !p.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("project = %+v", p)
	}

	if ok, err := s.RenameProject(ctx, "nope", "x"); ok || err != nil {
		t.Fatalf("unknown id = %v, %v", ok, err)
	}
	if _, err := s.RenameProject(ctx, "sample-project-1", "  "); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank name err = %v", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	s.SelectProject("sample-project-2")

	others := 0
	for _, task := range s.Tasks() {
		if task.ProjectID != "sample-project-2" {
			others++
		}
	}

	if !s.DeleteProject(ctx, "sample-project-2") {
		t.Fatal("delete reported missing")
	}
	if _, ok := s.Project("sample-project-2"); ok {
		t.Fatal("project still present")
	}
	tasks := s.Tasks()
	if len(tasks) != others {
		t.Fatalf("tasks = %d, want %d", len(tasks), others)
	}
	for _, task := range tasks {
		if task.ProjectID == "sample-project-2" {
			t.Fatalf("task %s survived cascade", task.ID)
		}
	}
	if s.ViewState().ProjectID != "" {
		t.Fatal("selection still points at deleted project")
	}
	if s.DeleteProject(ctx, "sample-project-2") {
		t.Fatal("second delete was not a no-op")
	}
}

func TestMutationsPersist(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(start)
	repo := testutil.NewTestAdapter(t, clock)

	s := domain.New(ctx, repo, nil, domain.WithClock(clock.Now))
	s.DeleteProject(ctx, "sample-project-3")
	task, _ := s.CreateTask(ctx, validInput())
	s.SetTheme(ctx, model.ThemeDark)

	reloaded := domain.New(ctx, repo, nil)
	if len(reloaded.Projects()) != 2 {
		t.Fatalf("projects = %d", len(reloaded.Projects()))
	}
	if _, ok := reloaded.Task(task.ID); !ok {
		t.Fatal("created task not persisted")
	}
	if reloaded.Settings().Theme != model.ThemeDark {
		t.Fatal("theme not persisted")
	}
}

func TestSessionStateIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(start)
	repo := testutil.NewTestAdapter(t, clock)

	s := domain.New(ctx, repo, nil, domain.WithClock(clock.Now))
	s.SetView(model.ViewCompleted)
	s.SetSearchQuery("report")
	s.SelectProject("sample-project-2")
	if vs := s.ViewState(); vs.Mode != model.ViewCompleted || vs.Query != "report" || vs.ProjectID != "sample-project-2" {
		t.Fatalf("view state = %+v", vs)
	}

	if vs := domain.New(ctx, repo, nil).ViewState(); vs != (domain.ViewState{Mode: model.ViewAll}) {
		t.Fatalf("view state leaked into storage: %+v", vs)
	}
}

func TestVisibleTasks(t *testing.T) {
	s, _, _ := newStore(t)

	s.SelectProject("sample-project-2")
	got := s.VisibleTasks()
	if len(got) != 2 || got[0].Title != "Prepare Quarterly Report" {
		t.Fatalf("visible = %+v", got)
	}

	s.SelectProject("")
	s.SetView(model.ViewToday)
	got = s.VisibleTasks()
	if len(got) != 1 || got[0].ID != "sample-task-4" {
		t.Fatalf("today = %+v", got)
	}

	s.SetView(model.ViewAll)
	s.SetSearchQuery("GROCER")
	got = s.VisibleTasks()
	if len(got) != 1 || got[0].ID != "sample-task-5" {
		t.Fatalf("search = %+v", got)
	}
}

func TestReorderTasks(t *testing.T) {
	ctx := context.Background()
	s, center, _ := newStore(t)

	scope := domain.ViewState{Mode: model.ViewAll, ProjectID: "sample-project-3"}
	before := s.TasksFor(scope)
	if len(before) != 2 {
		t.Fatalf("scope has %d tasks", len(before))
	}
	first, second := before[0].ID, before[1].ID

	if !s.ReorderTasks(ctx, scope, first, second) {
		t.Fatal("reorder reported no change")
	}
	if n := lastNotification(t, center); n.Title != "Task Reordered" {
		t.Fatalf("notification = %+v", n)
	}

	// Out-of-scope tasks keep their positions.
	all := s.Tasks()
	for i, id := range []string{"sample-task-1", "sample-task-2", "sample-task-3", "sample-task-4"} {
		if all[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, all[i].ID, id)
		}
	}
	if all[4].ID != second || all[5].ID != first {
		t.Fatalf("scope not swapped: %s %s", all[4].ID, all[5].ID)
	}

	if s.ReorderTasks(ctx, scope, first, first) {
		t.Fatal("reorder onto self reported a change")
	}
	if s.ReorderTasks(ctx, scope, first, "sample-task-1") {
		t.Fatal("reorder onto out-of-scope task reported a change")
	}
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	s, center, _ := newStore(t)

	by := model.SortByPriority
	got, err := s.UpdateSettings(ctx, domain.SettingsPatch{TaskSortBy: &by})
	if err != nil || got.TaskSortBy != model.SortByPriority {
		t.Fatalf("UpdateSettings = %+v, %v", got, err)
	}

	if err := s.SetTheme(ctx, model.ThemeLight); err != nil {
		t.Fatal(err)
	}
	if n := lastNotification(t, center); n.Title != "Theme Updated" || n.Message != "Theme changed to light" {
		t.Fatalf("notification = %+v", n)
	}

	bad := model.Theme("neon")
	if _, err := s.UpdateSettings(ctx, domain.SettingsPatch{Theme: &bad}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("bad theme err = %v", err)
	}
	if s.Settings().Theme != model.ThemeLight {
		t.Fatal("invalid patch applied")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	s.CreateProject(ctx, "Extra", "", model.ColorRed)
	s.SetTheme(ctx, model.ThemeDark)

	name, data, err := s.Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if name != "tasknest-backup-2024-06-12.json" {
		t.Fatalf("filename = %q", name)
	}

	// Import into a fresh store whose records are empty.
	clock := testutil.NewClock(start)
	repo := store.NewAdapter(store.NewMemoryKV(), store.WithClock(clock.Now))
	repo.SaveProjects(ctx, nil)
	repo.SaveTasks(ctx, nil)
	fresh := domain.New(ctx, repo, nil, domain.WithClock(clock.Now))
	if len(fresh.Tasks()) != 0 {
		t.Fatal("fresh store not empty")
	}

	if err := fresh.Import(ctx, data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got, want := mustJSON(t, fresh.Projects()), mustJSON(t, s.Projects()); got != want {
		t.Fatalf("projects differ:\n%s\n%s", got, want)
	}
	if got, want := mustJSON(t, fresh.Tasks()), mustJSON(t, s.Tasks()); got != want {
		t.Fatalf("tasks differ:\n%s\n%s", got, want)
	}
	if fresh.Settings() != s.Settings() {
		t.Fatalf("settings = %+v", fresh.Settings())
	}
}

func TestImportMalformed(t *testing.T) {
	ctx := context.Background()
	s, center, _ := newStore(t)
	before := s.Tasks()

	err := s.Import(ctx, []byte(`{"tasks": 5}`))
	if !errors.Is(err, model.ErrImportFormat) {
		t.Fatalf("err = %v", err)
	}
	if len(s.Tasks()) != len(before) {
		t.Fatal("tasks changed by failed import")
	}
	if n := lastNotification(t, center); n.Title != "Import Failed" || n.Message != "Invalid data format" {
		t.Fatalf("notification = %+v", n)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	s.DeleteProject(ctx, "sample-project-1")
	s.SetView(model.ViewCompleted)

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.Projects()) != 3 || len(s.Tasks()) != 6 {
		t.Fatalf("after reset: %d projects, %d tasks", len(s.Projects()), len(s.Tasks()))
	}
	if s.ViewState().Mode != model.ViewAll {
		t.Fatal("view state not reset")
	}
}

func TestReadersGetCopies(t *testing.T) {
	s, _, _ := newStore(t)
	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	tasks[0].Tags[0] = "mutated"

	cur, _ := s.Task(tasks[0].ID)
	if cur.Title == "mutated" || cur.Tags[0] == "mutated" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestStats(t *testing.T) {
	s, _, _ := newStore(t)
	st := s.Stats()
	if st.Total != 6 || st.Completed != 1 || st.Urgent != 1 {
		t.Fatalf("stats = %+v", st)
	}
	sums := s.ProjectSummaries()
	if len(sums) != 3 || sums[0].Total != 2 || sums[0].Completed != 1 {
		t.Fatalf("summaries = %+v", sums)
	}
}

func TestImportReconcilesCompletionAndRejectsInvalidTasks(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)

	doc := `{"tasks":[
		{"id":"a","title":"A","dueDate":"2024-06-20","priority":"high","category":"Work","completed":true,"updatedAt":"2024-06-11T08:00:00Z"},
		{"id":"b","title":"B","dueDate":"2024-06-20","priority":"low","category":"Work","completed":false,"completedAt":"2024-03-01T00:00:00Z"}
	]}`
	if err := s.Import(ctx, []byte(doc)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	for _, task := range s.Tasks() {
		if task.Completed != (task.CompletedAt != nil) {
			t.Errorf("task %s: completed=%v completedAt=%v", task.ID, task.Completed, task.CompletedAt)
		}
	}

	bad := []string{
		`{"tasks":[{"id":"c","title":"","dueDate":"2024-06-20","priority":"low","category":"Work"}]}`,
		`{"tasks":[{"id":"c","title":"C","dueDate":"2024-06-20","priority":"bogus","category":"Work"}]}`,
		`{"tasks":[{"id":"c","title":"C","priority":"low","category":"Work"}]}`,
		`{"tasks":[{"id":"c","title":"C","dueDate":"2024-06-20","priority":"low","category":"Work"},{"id":"c","title":"D","dueDate":"2024-06-21","priority":"low","category":"Work"}]}`,
	}
	for _, doc := range bad {
		if err := s.Import(ctx, []byte(doc)); !errors.Is(err, model.ErrImportFormat) {
			t.Errorf("Import(%s) err = %v, want ErrImportFormat", doc, err)
		}
	}
	if got := len(s.Tasks()); got != 2 {
		t.Fatalf("tasks = %d after rejected imports, want 2", got)
	}
}

// putFailingKV reads normally but rejects every write.
type putFailingKV struct {
	*store.MemoryKV
}

var errDiskFull = errors.New("disk full")

func (putFailingKV) Put(context.Context, string, []byte) error        { return errDiskFull }
func (putFailingKV) PutMany(context.Context, map[string][]byte) error { return errDiskFull }

func newUnsavableStore(t *testing.T) (*domain.Store, *notify.Center) {
	t.Helper()
	clock := testutil.NewClock(start)
	repo := store.NewAdapter(putFailingKV{store.NewMemoryKV()}, store.WithClock(clock.Now))
	center := notify.NewCenter(notify.WithClock(clock.Now))
	return domain.New(context.Background(), repo, center, domain.WithClock(clock.Now)), center
}

func TestSaveFailureKeepsInMemoryChanges(t *testing.T) {
	ctx := context.Background()
	s, center := newUnsavableStore(t)
	if len(s.Tasks()) != 6 {
		t.Fatalf("seed not loaded in memory: %d tasks", len(s.Tasks()))
	}

	created, err := s.CreateTask(ctx, validInput())
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, ok := s.Task(created.ID); !ok {
		t.Fatal("created task missing from memory")
	}
	if n := lastNotification(t, center); n.Type != model.NotifySuccess || n.Title != "Task Created" {
		t.Fatalf("notification = %+v", n)
	}

	toggled, ok := s.ToggleComplete(ctx, created.ID)
	if !ok || !toggled.Completed || toggled.CompletedAt == nil {
		t.Fatalf("toggle = %+v, %v", toggled, ok)
	}
	if n := lastNotification(t, center); n.Type != model.NotifySuccess || n.Title != "Task Completed" {
		t.Fatalf("notification = %+v", n)
	}

	if !s.DeleteProject(ctx, "sample-project-1") {
		t.Fatal("DeleteProject reported false")
	}
	if _, ok := s.Project("sample-project-1"); ok {
		t.Fatal("project still in memory")
	}
	for _, task := range s.Tasks() {
		if task.ProjectID == "sample-project-1" {
			t.Fatalf("task %s of deleted project kept", task.ID)
		}
	}
	if n := lastNotification(t, center); n.Type != model.NotifySuccess || n.Title != "Project Deleted" {
		t.Fatalf("notification = %+v", n)
	}

	for _, n := range center.List() {
		if n.Type == model.NotifyError {
			t.Fatalf("unexpected error notification %+v", n)
		}
	}
}

func TestExportReflectsUnsavedChanges(t *testing.T) {
	ctx := context.Background()
	s, _ := newUnsavableStore(t)

	created, err := s.CreateTask(ctx, validInput())
	if err != nil {
		t.Fatal(err)
	}
	_, data, err := s.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc store.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Tasks) != 7 || doc.Tasks[6].ID != created.ID {
		t.Fatalf("export tasks = %d, want the unsaved task last", len(doc.Tasks))
	}
	if !doc.ExportedAt.Equal(start) {
		t.Fatalf("exportedAt = %v, want %v", doc.ExportedAt, start)
	}
}
