package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/notify"
	"github.com/nhle/tasknest/internal/store"
)

// Clock is a settable time source for tests.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{t: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// NewTestAdapter creates an Adapter over an in-memory SQLite database with
// all migrations applied. It is closed when the test completes.
func NewTestAdapter(t *testing.T, clock *Clock) *store.Adapter {
	t.Helper()

	kv, err := store.NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	a := store.NewAdapter(kv, store.WithClock(clock.Now))
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return a
}

// NewTestStore returns a domain store seeded with the sample data and the
// notification center it reports to.
func NewTestStore(t *testing.T, clock *Clock) (*domain.Store, *notify.Center) {
	t.Helper()

	center := notify.NewCenter(notify.WithClock(clock.Now))
	s := domain.New(context.Background(), NewTestAdapter(t, clock), center, domain.WithClock(clock.Now))
	return s, center
}
