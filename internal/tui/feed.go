package tui

import (
	"sync"

	"github.com/LISSConsulting/storefront/internal/session"
)

// Feed buffers store changes for the UI. Its Listener never blocks the
// store: changes are queued and the UI drains them in batches.
type Feed struct {
	mu      sync.Mutex
	pending []session.Change
	closed  bool
	ready   chan struct{}
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{ready: make(chan struct{}, 1)}
}

// Listener returns the session.Listener that fills the feed.
func (f *Feed) Listener() session.Listener {
	return func(c session.Change) {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return
		}
		f.pending = append(f.pending, c)
		f.mu.Unlock()
		f.signal()
	}
}

// Close stops the feed; a pending Next returns false once drained.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.signal()
}

func (f *Feed) signal() {
	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// Next blocks until changes are queued and returns all of them. It returns
// false after Close once nothing is left.
func (f *Feed) Next() ([]session.Change, bool) {
	for {
		f.mu.Lock()
		if len(f.pending) > 0 {
			batch := f.pending
			f.pending = nil
			f.mu.Unlock()
			return batch, true
		}
		closed := f.closed
		f.mu.Unlock()
		if closed {
			return nil, false
		}
		<-f.ready
	}
}
