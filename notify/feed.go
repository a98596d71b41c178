package notify

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultLifetime matches how long a toast stays on screen.
	DefaultLifetime = 5 * time.Second
	defaultCapacity = 100
)

// Feed keeps recently raised notifications until they age out or are
// dismissed.
type Feed struct {
	mu       sync.Mutex
	items    []Notification
	lifetime time.Duration
	capacity int
}

// NewFeed returns a feed whose entries live for lifetime (DefaultLifetime when <= 0).
func NewFeed(lifetime time.Duration) *Feed {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Feed{lifetime: lifetime, capacity: defaultCapacity}
}

func (f *Feed) Notify(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.capacity; over > 0 {
		f.items = append([]Notification(nil), f.items[over:]...)
	}
	return nil
}

// List returns the notifications still alive at now, oldest first, and drops
// the expired ones.
func (f *Feed) List(now time.Time) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	alive := f.items[:0]
	for _, n := range f.items {
		if now.Sub(n.CreatedAt) < f.lifetime {
			alive = append(alive, n)
		}
	}
	f.items = alive
	return append([]Notification{}, alive...)
}

// Dismiss removes a notification; it reports whether it was present.
func (f *Feed) Dismiss(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}
