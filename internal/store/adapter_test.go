package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nhle/tasknest/internal/config"
	"github.com/nhle/tasknest/internal/model"
)

var fixedNow = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

func slogDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestAdapter(t *testing.T) (*Adapter, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	return NewAdapter(kv, WithClock(func() time.Time { return fixedNow })), kv
}

// failingKV fails every operation.
type failingKV struct{}

var errBackend = errors.New("backend down")

func (failingKV) Get(context.Context, string) ([]byte, error)      { return nil, errBackend }
func (failingKV) Put(context.Context, string, []byte) error        { return errBackend }
func (failingKV) PutMany(context.Context, map[string][]byte) error { return errBackend }
func (failingKV) Delete(context.Context, ...string) error          { return errBackend }
func (failingKV) Close() error                                     { return nil }

func TestLoadSeedsOnFirstRun(t *testing.T) {
	ctx := context.Background()
	a, kv := newTestAdapter(t)

	projects := a.LoadProjects(ctx)
	tasks := a.LoadTasks(ctx)
	if len(projects) != 3 || len(tasks) != 6 {
		t.Fatalf("seed = %d projects, %d tasks", len(projects), len(tasks))
	}

	for _, key := range []string{KeyProjects, KeyTasks} {
		if _, err := kv.Get(ctx, key); err != nil {
			t.Fatalf("seed for %s not persisted: %v", key, err)
		}
	}
	if _, err := kv.Get(ctx, KeySettings); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("default settings should not be persisted, err = %v", err)
	}
}

func TestLoadSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)

	first := a.LoadTasks(ctx)
	first = first[:2]
	if err := a.SaveTasks(ctx, first); err != nil {
		t.Fatal(err)
	}
	if got := a.LoadTasks(ctx); len(got) != 2 {
		t.Fatalf("second load = %d tasks, want the 2 saved", len(got))
	}
}

func TestLoadEmptyCollectionDoesNotReseed(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)

	if err := a.SaveProjects(ctx, []model.Project{}); err != nil {
		t.Fatal(err)
	}
	if got := a.LoadProjects(ctx); len(got) != 0 {
		t.Fatalf("got %d projects, want 0", len(got))
	}
}

func TestLoadCorruptRecordDegrades(t *testing.T) {
	ctx := context.Background()
	a, kv := newTestAdapter(t)

	kv.Put(ctx, KeyTasks, []byte("{not json"))
	kv.Put(ctx, KeySettings, []byte(`{"theme":"neon"}`))

	if got := a.LoadTasks(ctx); len(got) != 0 {
		t.Fatalf("corrupt tasks loaded as %d items", len(got))
	}
	if got := a.LoadSettings(ctx); got != model.DefaultSettings() {
		t.Fatalf("invalid settings = %+v, want defaults", got)
	}
}

func TestLoadReadFailureDegrades(t *testing.T) {
	a := NewAdapter(failingKV{})
	ctx := context.Background()

	if got := a.LoadProjects(ctx); got == nil || len(got) != 0 {
		t.Fatalf("projects = %v, want empty", got)
	}
	if got := a.LoadSettings(ctx); got != model.DefaultSettings() {
		t.Fatalf("settings = %+v", got)
	}
}

func TestSaveFailureWrapsPersistenceError(t *testing.T) {
	a := NewAdapter(failingKV{})
	err := a.SaveTasks(context.Background(), nil)
	if !errors.Is(err, model.ErrPersistence) || !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)

	want := model.Settings{
		Theme:              model.ThemeDark,
		DefaultView:        model.ViewToday,
		ShowCompletedTasks: false,
		TaskSortBy:         model.SortByPriority,
		TaskSortOrder:      model.SortDesc,
	}
	if err := a.SaveSettings(ctx, want); err != nil {
		t.Fatal(err)
	}
	if got := a.LoadSettings(ctx); got != want {
		t.Fatalf("LoadSettings = %+v, want %+v", got, want)
	}
}

func TestExportAll(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)

	data, err := a.ExportAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"projects\"") {
		t.Fatalf("export is not indented:\n%s", data)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"projects", "tasks", "settings", "exportedAt"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("export missing %q", key)
		}
	}
	var exportedAt time.Time
	json.Unmarshal(raw["exportedAt"], &exportedAt)
	if !exportedAt.Equal(fixedNow) {
		t.Errorf("exportedAt = %v, want %v", exportedAt, fixedNow)
	}
}

func TestImportSubsetLeavesOtherRecords(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)
	a.LoadProjects(ctx)
	a.LoadTasks(ctx)

	doc := `{"tasks":[{"id":"t1","title":"Imported","dueDate":"2024-07-01","priority":"low","category":"Other","completed":false,"tags":[],"createdAt":"2024-06-01T00:00:00Z","updatedAt":"2024-06-01T00:00:00Z"}]}`
	if err := a.ImportAll(ctx, []byte(doc)); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}

	tasks := a.LoadTasks(ctx)
	if len(tasks) != 1 || tasks[0].Title != "Imported" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if tasks[0].ProjectID != model.DefaultProjectID {
		t.Fatalf("projectId = %q, want default", tasks[0].ProjectID)
	}
	if got := a.LoadProjects(ctx); len(got) != 3 {
		t.Fatalf("projects changed by tasks-only import: %d", len(got))
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)
	before := a.LoadProjects(ctx)

	// projects decode fine, tasks do not; nothing may be written.
	doc := `{"projects":[{"id":"p9","name":"New","color":"red"}],"tasks":{"oops":true}}`
	err := a.ImportAll(ctx, []byte(doc))
	if !errors.Is(err, model.ErrImportFormat) {
		t.Fatalf("err = %v, want ErrImportFormat", err)
	}
	if got := a.LoadProjects(ctx); len(got) != len(before) || got[0].ID != before[0].ID {
		t.Fatalf("projects were written despite failed import: %+v", got)
	}
}

func TestImportRejectsMalformedDocuments(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)

	for _, doc := range []string{
		"not json",
		"[1,2,3]",
		`{"settings":{"theme":"neon"}}`,
		`{"tasks":[{"title":"no id"}]}`,
		`{"tasks":[{"id":"x","dueDate":"tomorrow"}]}`,
	} {
		if err := a.ImportAll(ctx, []byte(doc)); !errors.Is(err, model.ErrImportFormat) {
			t.Errorf("ImportAll(%s) err = %v, want ErrImportFormat", doc, err)
		}
	}
}

func TestImportRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)
	a.LoadTasks(ctx)

	const task = `{"id":%q,"title":%q,"dueDate":"2024-07-01","priority":%q,"category":"Work"}`
	tests := map[string]string{
		"empty title":       `{"tasks":[` + fmt.Sprintf(task, "a", "  ", "low") + `]}`,
		"unknown priority":  `{"tasks":[` + fmt.Sprintf(task, "a", "A", "bogus") + `]}`,
		"missing due date":  `{"tasks":[{"id":"a","title":"A","priority":"low","category":"Work"}]}`,
		"duplicate task id": `{"tasks":[` + fmt.Sprintf(task, "c", "One", "low") + `,` + fmt.Sprintf(task, "c", "Two", "high") + `]}`,
		"project no name":   `{"projects":[{"id":"p1","name":"","color":"red"}]}`,
		"project bad color": `{"projects":[{"id":"p1","name":"P","color":"teal"}]}`,
		"duplicate project": `{"projects":[{"id":"p1","name":"P","color":"red"},{"id":"p1","name":"Q","color":"blue"}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if err := a.ImportAll(ctx, []byte(doc)); !errors.Is(err, model.ErrImportFormat) {
				t.Fatalf("err = %v, want ErrImportFormat", err)
			}
			if got := a.LoadTasks(ctx); len(got) != 6 {
				t.Fatalf("tasks changed by rejected import: %d", len(got))
			}
		})
	}
}

func TestImportReconcilesCompletion(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)

	doc := `{"tasks":[
		{"id":"a","title":"A","dueDate":"2024-07-01","priority":"low","category":"Work","completed":true,"updatedAt":"2024-06-05T08:00:00Z"},
		{"id":"b","title":"B","dueDate":"2024-07-01","priority":"low","category":"Work","completed":false,"completedAt":"2024-06-01T00:00:00Z"}
	]}`
	if err := a.ImportAll(ctx, []byte(doc)); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}

	tasks := a.LoadTasks(ctx)
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
	want := time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC)
	if tasks[0].CompletedAt == nil || !tasks[0].CompletedAt.Equal(want) {
		t.Errorf("a.completedAt = %v, want %v", tasks[0].CompletedAt, want)
	}
	if tasks[1].CompletedAt != nil {
		t.Errorf("b.completedAt = %v, want nil", tasks[1].CompletedAt)
	}
}

func TestImportEmptyObjectIsNoop(t *testing.T) {
	ctx := context.Background()
	a, kv := newTestAdapter(t)

	if err := a.ImportAll(ctx, []byte(`{"projects":null}`)); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	if _, err := kv.Get(ctx, KeyProjects); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("null projects should not be written, err = %v", err)
	}
}

func TestClearReseeds(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter(t)
	a.SaveTasks(ctx, []model.Task{})
	a.SaveSettings(ctx, model.Settings{Theme: model.ThemeDark, DefaultView: model.ViewAll, TaskSortBy: model.SortByDueDate, TaskSortOrder: model.SortAsc})

	if err := a.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if got := a.LoadTasks(ctx); len(got) != 6 {
		t.Fatalf("after clear got %d tasks, want seed", len(got))
	}
	if got := a.LoadSettings(ctx); got != model.DefaultSettings() {
		t.Fatalf("after clear settings = %+v", got)
	}
}

func TestBackupFilename(t *testing.T) {
	if got := BackupFilename(fixedNow); got != "tasknest-backup-2024-06-10.json" {
		t.Fatalf("BackupFilename = %q", got)
	}
}

func TestOpenFallsBackToMemory(t *testing.T) {
	// A regular file where a directory is needed makes the sqlite open fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(blocker, "sub", "x.db")}

	a := Open(cfg, slogDiscard())
	defer a.Close()
	if _, ok := a.kv.(*MemoryKV); !ok {
		t.Fatalf("kv = %T, want *MemoryKV", a.kv)
	}
	if got := a.LoadTasks(context.Background()); len(got) != 6 {
		t.Fatalf("fallback store should still seed, got %d", len(got))
	}
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(t.TempDir(), "data", "tasknest.db")}
	a := Open(cfg, slogDiscard())
	defer a.Close()
	if _, ok := a.kv.(*SQLiteKV); !ok {
		t.Fatalf("kv = %T, want *SQLiteKV", a.kv)
	}
}
