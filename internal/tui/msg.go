package tui

import (
	"time"

	"github.com/LISSConsulting/storefront/internal/session"
)

// changesMsg carries store changes drained from the feed, oldest first.
type changesMsg []session.Change

// feedClosedMsg signals the change feed was closed.
type feedClosedMsg struct{}

// catalogDoneMsg signals the catalog population attempt finished.
type catalogDoneMsg struct{}

// cartMsg carries the result of a CartStore call. seq orders results so a
// slow early call cannot overwrite a later one.
type cartMsg struct {
	seq    int
	status string
	cart   session.Cart
	err    error
}

// tickMsg is sent every second for the clock.
type tickMsg time.Time
