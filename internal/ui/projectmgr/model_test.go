package projectmgr

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasknest/internal/keys"
	"github.com/nhle/tasknest/tests/testutil"
)

func newManager(t *testing.T) Model {
	t.Helper()
	clock := testutil.NewClock(time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC))
	s, _ := testutil.NewTestStore(t, clock)
	return New(s, keys.DefaultKeyMap(), 80, 24)
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestRowsCarrySummaries(t *testing.T) {
	m := newManager(t)
	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}
	total := 0
	for _, r := range m.rows {
		total += r.Total
	}
	if total != 6 {
		t.Fatalf("tasks across projects = %d, want 6", total)
	}
}

func TestSearchFiltersByName(t *testing.T) {
	m := newManager(t)
	name := m.rows[1].Project.Name

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.Editing() {
		t.Fatal("expected search mode")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)})
	if len(m.rows) != 1 || m.rows[0].Project.Name != name {
		t.Fatalf("rows = %+v", m.rows)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.rows) != 3 || m.Editing() {
		t.Fatal("esc should clear the search")
	}
}

func TestEnterScopesTaskList(t *testing.T) {
	m := newManager(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	want := m.rows[1].Project.ID

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.store.ViewState().ProjectID; got != want {
		t.Fatalf("scope = %q, want %q", got, want)
	}

	var closed, changed bool
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case CloseMsg:
			closed = true
		case ChangedMsg:
			changed = true
		}
	}
	if !closed || !changed {
		t.Fatalf("closed=%v changed=%v", closed, changed)
	}
}

func TestDeleteRunsThroughStore(t *testing.T) {
	m := newManager(t)
	id := m.rows[0].Project.ID

	if msg := m.deleteProject(id)(); msg != (ChangedMsg{}) {
		t.Fatalf("msg = %#v", msg)
	}
	m.Refresh()
	if len(m.rows) != 2 {
		t.Fatalf("rows = %d after delete", len(m.rows))
	}
	if _, ok := m.store.Project(id); ok {
		t.Fatal("project still present")
	}
}
