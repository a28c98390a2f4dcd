package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/tasknest/internal/model"
)

// Record keys.
const (
	KeyProjects = "projects"
	KeyTasks    = "tasks"
	KeySettings = "settings"
)

// ExportDocument is the backup file format. On import every field is
// optional.
type ExportDocument struct {
	Projects   []model.Project `json:"projects"`
	Tasks      []model.Task    `json:"tasks"`
	Settings   model.Settings  `json:"settings"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// Adapter maps the domain collections onto three JSON records in a KV.
// Reads degrade to empty collections or default settings on failure;
// writes log and return errors wrapped in model.ErrPersistence.
type Adapter struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// WithClock replaces time.Now, used for seed data and export stamps.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter wraps kv.
func NewAdapter(kv KV, opts ...Option) *Adapter {
	a := &Adapter{
		kv:     kv,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases the underlying KV.
func (a *Adapter) Close() error {
	return a.kv.Close()
}

// LoadProjects returns the stored projects. On first run the sample
// projects are written and returned.
func (a *Adapter) LoadProjects(ctx context.Context) []model.Project {
	var projects []model.Project
	found, err := a.load(ctx, KeyProjects, &projects)
	if err != nil {
		return []model.Project{}
	}
	if !found {
		projects = model.SampleProjects(a.now())
		_ = a.SaveProjects(ctx, projects)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects
}

// LoadTasks returns the stored tasks. On first run the sample tasks are
// written and returned.
func (a *Adapter) LoadTasks(ctx context.Context) []model.Task {
	var tasks []model.Task
	found, err := a.load(ctx, KeyTasks, &tasks)
	if err != nil {
		return []model.Task{}
	}
	if !found {
		tasks = model.SampleTasks(a.now())
		_ = a.SaveTasks(ctx, tasks)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return normalizeTasks(tasks)
}

// LoadSettings returns the stored settings, or defaults when none are
// stored. Defaults are not written back.
func (a *Adapter) LoadSettings(ctx context.Context) model.Settings {
	settings := model.DefaultSettings()
	found, err := a.load(ctx, KeySettings, &settings)
	if err != nil || !found {
		return model.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		a.logger.Warn("stored settings invalid, using defaults", slog.String("error", err.Error()))
		return model.DefaultSettings()
	}
	return settings
}

func (a *Adapter) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := a.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		a.logger.Error("failed to read record", slog.String("key", key), slog.String("error", err.Error()))
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		a.logger.Error("failed to decode record", slog.String("key", key), slog.String("error", err.Error()))
		return false, err
	}
	return true, nil
}

func (a *Adapter) SaveProjects(ctx context.Context, projects []model.Project) error {
	return a.save(ctx, KeyProjects, projects)
}

func (a *Adapter) SaveTasks(ctx context.Context, tasks []model.Task) error {
	return a.save(ctx, KeyTasks, tasks)
}

func (a *Adapter) SaveSettings(ctx context.Context, settings model.Settings) error {
	return a.save(ctx, KeySettings, settings)
}

func (a *Adapter) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err == nil {
		err = a.kv.Put(ctx, key, data)
	}
	if err != nil {
		a.logger.Error("failed to save record", slog.String("key", key), slog.String("error", err.Error()))
		return fmt.Errorf("saving %s: %w: %w", key, model.ErrPersistence, err)
	}
	return nil
}

// ExportAll returns the persisted records plus an export timestamp as
// indented JSON.
func (a *Adapter) ExportAll(ctx context.Context) ([]byte, error) {
	doc := ExportDocument{
		Projects:   a.LoadProjects(ctx),
		Tasks:      a.LoadTasks(ctx),
		Settings:   a.LoadSettings(ctx),
		ExportedAt: a.now().UTC(),
	}
	return doc.Encode()
}

// Encode renders the document as indented JSON.
func (d ExportDocument) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

// importDocument tells present keys from absent ones.
type importDocument struct {
	Projects json.RawMessage `json:"projects"`
	Tasks    json.RawMessage `json:"tasks"`
	Settings json.RawMessage `json:"settings"`
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ImportAll replaces the records named in data. Keys missing from the
// document are left alone. The whole document is decoded and checked
// before anything is written, and the writes go through one PutMany, so a
// malformed document changes nothing.
func (a *Adapter) ImportAll(ctx context.Context, data []byte) error {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", model.ErrImportFormat, err)
	}

	entries := make(map[string][]byte, 3)

	if present(doc.Projects) {
		var projects []model.Project
		if err := json.Unmarshal(doc.Projects, &projects); err != nil {
			return fmt.Errorf("%w: projects: %w", model.ErrImportFormat, err)
		}
		if err := checkProjects(projects); err != nil {
			return err
		}
		b, err := json.Marshal(projects)
		if err != nil {
			return fmt.Errorf("encoding projects: %w", err)
		}
		entries[KeyProjects] = b
	}

	if present(doc.Tasks) {
		var tasks []model.Task
		if err := json.Unmarshal(doc.Tasks, &tasks); err != nil {
			return fmt.Errorf("%w: tasks: %w", model.ErrImportFormat, err)
		}
		tasks = normalizeTasks(tasks)
		if err := checkTasks(tasks); err != nil {
			return err
		}
		b, err := json.Marshal(tasks)
		if err != nil {
			return fmt.Errorf("encoding tasks: %w", err)
		}
		entries[KeyTasks] = b
	}

	if present(doc.Settings) {
		settings := model.DefaultSettings()
		if err := json.Unmarshal(doc.Settings, &settings); err != nil {
			return fmt.Errorf("%w: settings: %w", model.ErrImportFormat, err)
		}
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("%w: settings: %w", model.ErrImportFormat, err)
		}
		b, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		entries[KeySettings] = b
	}

	if err := a.kv.PutMany(ctx, entries); err != nil {
		a.logger.Error("failed to import records", slog.String("error", err.Error()))
		return fmt.Errorf("importing: %w: %w", model.ErrPersistence, err)
	}
	return nil
}

// Clear removes all three records. The next load reseeds.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Delete(ctx, KeyProjects, KeyTasks, KeySettings); err != nil {
		a.logger.Error("failed to clear records", slog.String("error", err.Error()))
		return fmt.Errorf("clearing: %w: %w", model.ErrPersistence, err)
	}
	return nil
}

// BackupFilename returns the suggested export file name for the given day.
func BackupFilename(now time.Time) string {
	return "tasknest-backup-" + now.Format(model.DateLayout) + ".json"
}

// normalizeTasks fills fields that older documents may omit and makes
// CompletedAt agree with Completed.
func normalizeTasks(tasks []model.Task) []model.Task {
	for i := range tasks {
		t := &tasks[i]
		if t.ProjectID == "" {
			t.ProjectID = model.DefaultProjectID
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		switch {
		case !t.Completed:
			t.CompletedAt = nil
		case t.CompletedAt == nil:
			at := t.UpdatedAt
			t.CompletedAt = &at
		}
	}
	return tasks
}

func checkProjects(projects []model.Project) error {
	seen := make(map[string]bool, len(projects))
	for i, p := range projects {
		if p.ID == "" {
			return fmt.Errorf("%w: projects[%d] has no id", model.ErrImportFormat, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: projects[%d]: duplicate id %q", model.ErrImportFormat, i, p.ID)
		}
		seen[p.ID] = true
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: projects[%d]: %w", model.ErrImportFormat, i, err)
		}
	}
	return nil
}

func checkTasks(tasks []model.Task) error {
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("%w: tasks[%d] has no id", model.ErrImportFormat, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: tasks[%d]: duplicate id %q", model.ErrImportFormat, i, t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: tasks[%d]: %w", model.ErrImportFormat, i, err)
		}
	}
	return nil
}
