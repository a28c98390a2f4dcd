package help

import (
	"strings"
	"testing"

	"github.com/nhle/tasknest/internal/keys"
)

func TestViewListsSectionsAndBindings(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 200, 60)
	out := m.View()

	for _, want := range []string{
		"Keyboard Shortcuts",
		"Views", "Upcoming", "open tasks due after today",
		"Ordering", "tied",
		"Commands (:)", "import <file>", "theme light|dark|system",
		"dismiss newest notification",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help view missing %q", want)
		}
	}
}

func TestShortViewOmitsReference(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 200, 40)
	out := m.ShortView()
	if strings.Contains(out, "Commands") || strings.Contains(out, "\n") {
		t.Fatalf("short view = %q", out)
	}
	if !strings.Contains(out, "new task") {
		t.Fatalf("short view missing bindings: %q", out)
	}
}
