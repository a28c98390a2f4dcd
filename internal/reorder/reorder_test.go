package reorder

import (
	"errors"
	"testing"

	"github.com/nhle/tasknest/internal/model"
)

func tasks(ids ...string) []model.Task {
	out := make([]model.Task, len(ids))
	for i, id := range ids {
		out[i] = model.Task{ID: id, Title: "task " + id}
	}
	return out
}

func order(ts []model.Task) string {
	s := ""
	for _, t := range ts {
		s += t.ID
	}
	return s
}

func TestMoveWithin(t *testing.T) {
	tests := []struct {
		name          string
		dragged, into string
		want          string
		ok            bool
	}{
		{"adjacent forward swaps", "a", "b", "bacd", true},
		{"adjacent backward swaps", "c", "b", "acbd", true},
		{"forward to end", "a", "d", "bcda", true},
		{"backward to start", "d", "a", "dabc", true},
		{"self is noop", "b", "b", "abcd", false},
		{"missing dragged", "z", "b", "abcd", false},
		{"missing target", "a", "z", "abcd", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tasks("a", "b", "c", "d")
			got, ok := MoveWithin(in, tt.dragged, tt.into)
			if ok != tt.ok || order(got) != tt.want {
				t.Fatalf("MoveWithin(%s, %s) = %s, %v; want %s, %v", tt.dragged, tt.into, order(got), ok, tt.want, tt.ok)
			}
			if order(in) != "abcd" {
				t.Fatalf("input modified: %s", order(in))
			}
		})
	}
}

func TestApplySplicesIntoScope(t *testing.T) {
	all := tasks("a", "x", "b", "y", "c")
	// The visible list holds a, b, c in a different order than all.
	working := []model.Task{all[4], all[0], all[2]} // c a b

	got, ok := Apply(all, working, "b", "c")
	if !ok {
		t.Fatal("Apply reported no change")
	}
	// working becomes b c a; slots 0, 2, 4 are refilled in that order.
	if order(got) != "bxcya" {
		t.Fatalf("Apply = %s, want bxcya", order(got))
	}
	if order(all) != "axbyc" {
		t.Fatalf("input modified: %s", order(all))
	}
}

func TestApplyNoops(t *testing.T) {
	all := tasks("a", "b", "c")
	working := all[:2]

	for _, tc := range [][2]string{{"a", "a"}, {"a", "c"}, {"q", "a"}} {
		got, ok := Apply(all, working, tc[0], tc[1])
		if ok || order(got) != "abc" {
			t.Errorf("Apply(%s, %s) = %s, %v; want unchanged", tc[0], tc[1], order(got), ok)
		}
	}
}

func TestApplyKeepsCanonicalTaskData(t *testing.T) {
	all := tasks("a", "b")
	working := tasks("a", "b")
	working[0].Title = "stale copy"

	got, _ := Apply(all, working, "a", "b")
	if got[1].Title != "task a" {
		t.Fatalf("title = %q, want canonical value", got[1].Title)
	}
}

func TestGestureHappyPath(t *testing.T) {
	var g Gesture
	if g.State() != Idle {
		t.Fatalf("zero state = %s", g.State())
	}
	mustOK(t, g.Start("a"))
	mustOK(t, g.Hover("b"))
	mustOK(t, g.Hover("c"))
	if g.State() != Hovering || g.Target() != "c" {
		t.Fatalf("state = %s target = %s", g.State(), g.Target())
	}
	mustOK(t, g.Leave())
	if g.State() != Dragging || g.Target() != "" {
		t.Fatalf("after leave state = %s target = %q", g.State(), g.Target())
	}
	mustOK(t, g.Hover("d"))

	m, err := g.Drop("")
	mustOK(t, err)
	if m != (Move{DraggedID: "a", TargetID: "d"}) {
		t.Fatalf("move = %+v", m)
	}
	if g.State() != Dropped || g.Active() {
		t.Fatalf("after drop state = %s", g.State())
	}

	// A new gesture may begin straight from Dropped.
	mustOK(t, g.Start("b"))
}

func TestGestureCancel(t *testing.T) {
	var g Gesture
	g.Start("a")
	g.Hover("b")
	g.Cancel()
	if g.State() != Idle || g.Dragged() != "" || g.Target() != "" {
		t.Fatalf("after cancel: %+v", g)
	}
	g.Cancel()
	if g.State() != Idle {
		t.Fatal("cancel from idle should stay idle")
	}
}

func TestGestureInvalidTransitions(t *testing.T) {
	var g Gesture
	if err := g.Hover("a"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("hover from idle err = %v", err)
	}
	if _, err := g.Drop("a"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("drop from idle err = %v", err)
	}
	if err := g.Leave(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("leave from idle err = %v", err)
	}

	g.Start("a")
	if err := g.Start("b"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double start err = %v", err)
	}
	if _, err := g.Drop(""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("drop without target err = %v", err)
	}
	if g.State() != Dragging {
		t.Fatalf("failed drop changed state to %s", g.State())
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
