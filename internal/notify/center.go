// Package notify keeps the queue of transient user notifications and
// expires them on a single timer.
package notify

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/tasknest/internal/model"
)

// Input describes a notification to add.
type Input struct {
	Type    model.NotificationType
	Title   string
	Message string

	// Duration overrides the center's default display time when positive.
	Duration time.Duration

	// Sticky notifications stay until removed.
	Sticky bool
}

type expiry struct {
	at time.Time
	id string
}

// expiryQueue is a min-heap on expiry time.
type expiryQueue []expiry

func (q expiryQueue) Len() int { return len(q) }

func (q expiryQueue) Less(i, j int) bool { return q[i].at.Before(q[j].at) }

func (q expiryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *expiryQueue) Push(x any) { *q = append(*q, x.(expiry)) }

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Center holds the visible notifications, oldest first. Expiry deadlines
// live in one heap; removing a notification leaves its heap entry behind
// and the entry is skipped when it comes due.
type Center struct {
	mu              sync.Mutex
	items           []model.Notification
	queue           expiryQueue
	now             func() time.Time
	defaultDuration time.Duration
	wakeup          chan struct{}
	changes         chan struct{}
}

// Option configures a Center.
type Option func(*Center)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// WithDefaultDuration sets the display time used when Input.Duration is
// not positive.
func WithDefaultDuration(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.defaultDuration = d
		}
	}
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		now:             time.Now,
		defaultDuration: model.DefaultNotificationDuration,
		wakeup:          make(chan struct{}, 1),
		changes:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a notification and schedules its expiry.
func (c *Center) Add(in Input) model.Notification {
	d := in.Duration
	if d <= 0 {
		d = c.defaultDuration
	}
	if in.Sticky {
		d = 0
	}

	c.mu.Lock()
	n := model.Notification{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Duration:  int(d / time.Millisecond),
		CreatedAt: c.now(),
	}
	c.items = append(c.items, n)
	if at, ok := n.ExpiresAt(); ok {
		heap.Push(&c.queue, expiry{at: at, id: n.ID})
	}
	c.mu.Unlock()

	signal(c.wakeup)
	signal(c.changes)
	return n
}

// Remove drops the notification with the given id. Unknown ids are ignored.
func (c *Center) Remove(id string) {
	c.mu.Lock()
	removed := c.removeLocked(id)
	c.mu.Unlock()

	if removed {
		signal(c.wakeup)
		signal(c.changes)
	}
}

func (c *Center) removeLocked(id string) bool {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll clears every notification and pending expiry.
func (c *Center) RemoveAll() {
	c.mu.Lock()
	had := len(c.items) > 0
	c.items = nil
	c.queue = nil
	c.mu.Unlock()

	signal(c.wakeup)
	if had {
		signal(c.changes)
	}
}

// Expire removes every notification whose deadline is at or before now and
// returns their ids in deadline order.
func (c *Center) Expire(now time.Time) []string {
	c.mu.Lock()
	var expired []string
	for len(c.queue) > 0 && !c.queue[0].at.After(now) {
		e := heap.Pop(&c.queue).(expiry)
		if c.removeLocked(e.id) {
			expired = append(expired, e.id)
		}
	}
	c.mu.Unlock()

	if len(expired) > 0 {
		signal(c.changes)
	}
	return expired
}

// NextExpiry returns the earliest deadline of a notification still present.
func (c *Center) NextExpiry() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.queue) > 0 {
		head := c.queue[0]
		if c.hasLocked(head.id) {
			return head.at, true
		}
		heap.Pop(&c.queue)
	}
	return time.Time{}, false
}

func (c *Center) hasLocked(id string) bool {
	for _, n := range c.items {
		if n.ID == id {
			return true
		}
	}
	return false
}

// List returns a snapshot of the visible notifications, oldest first.
func (c *Center) List() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Changes receives a value whenever the list changes. Signals coalesce, so
// readers should call List after each receive.
func (c *Center) Changes() <-chan struct{} {
	return c.changes
}

// Run expires notifications as their deadlines pass until ctx is done.
func (c *Center) Run(ctx context.Context) {
	var timer *time.Timer
	defer func() { stopTimer(timer) }()

	for {
		next, ok := c.NextExpiry()
		if !ok {
			select {
			case <-c.wakeup:
				continue
			case <-ctx.Done():
				return
			}
		}

		wait := next.Sub(c.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			c.Expire(c.now())
		case <-c.wakeup:
			continue
		case <-ctx.Done():
			return
		}
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
