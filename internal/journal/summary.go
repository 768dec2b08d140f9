package journal

import "time"

// Summary describes one journal session.
type Summary struct {
	SessionID string
	StartedAt time.Time
	Actions   int
	ByAction  map[string]int
	ItemCount int     // cart size after the last action
	Total     float64 // cart total after the last action
}

// tally accumulates a Summary as entries are appended.
type tally struct {
	actions   int
	byAction  map[string]int
	itemCount int
	total     float64
}

func newTally() *tally {
	return &tally{byAction: make(map[string]int)}
}

func (t *tally) add(e Entry) {
	t.actions++
	t.byAction[e.Action]++
	t.itemCount = e.ItemCount
	t.total = e.Total
}

func (t *tally) snapshot(sessionID string, startedAt time.Time) Summary {
	by := make(map[string]int, len(t.byAction))
	for k, v := range t.byAction {
		by[k] = v
	}
	return Summary{
		SessionID: sessionID,
		StartedAt: startedAt,
		Actions:   t.actions,
		ByAction:  by,
		ItemCount: t.itemCount,
		Total:     t.total,
	}
}

// Summarize builds a Summary from entries read back with ReadFile.
func Summarize(sessionID string, entries []Entry) Summary {
	t := newTally()
	var started time.Time
	for i, e := range entries {
		if i == 0 {
			started = e.Time
		}
		t.add(e)
	}
	return t.snapshot(sessionID, started)
}
