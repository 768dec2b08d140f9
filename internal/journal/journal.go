// Package journal records every dispatched session action to an append-only
// JSONL file, one file per process, so a shopping session can be replayed
// or inspected with `storefront history`.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/LISSConsulting/storefront/internal/session"
)

const ext = ".jsonl"

// Entry is one journal line.
type Entry struct {
	Time      time.Time         `json:"ts"`
	Action    string            `json:"action"`
	ProductID session.ProductID `json:"product_id,omitempty"`
	Title     string            `json:"title,omitempty"`
	Quantity  int               `json:"quantity,omitempty"`
	User      string            `json:"user,omitempty"`
	Products  int               `json:"products,omitempty"`
	ItemCount int               `json:"item_count"`
	Total     float64           `json:"total"`
}

// FromChange builds the entry recorded for c.
func FromChange(c session.Change, at time.Time) Entry {
	e := Entry{
		Time:      at.UTC(),
		Action:    c.Action.Kind().String(),
		ItemCount: c.Next.Cart.ItemCount,
		Total:     c.Next.Cart.Total,
	}
	switch a := c.Action.(type) {
	case session.SetUser:
		if a.User != nil {
			e.User = a.User.Email
		}
	case session.Logout:
		if c.Prev.User != nil {
			e.User = c.Prev.User.Email
		}
	case session.AddToCart:
		e.ProductID = a.Product.ID
		e.Title = a.Product.Title
		if l, ok := c.Next.Cart.Line(a.Product.ID); ok {
			e.Quantity = l.Quantity
		}
	case session.RemoveFromCart:
		e.ProductID = a.ID
	case session.UpdateQuantity:
		e.ProductID = a.ID
		e.Quantity = a.Quantity
	case session.SetCatalog:
		e.Products = len(a.Products)
	}
	return e
}

// Journal is an append-only JSONL file. The file is synced after every
// Append.
//
// Session identity: "<unix-timestamp>-<pid>.jsonl", so names sort
// chronologically.
type Journal struct {
	file      *os.File
	mu        sync.Mutex
	sessionID string
	startedAt time.Time
	summary   *tally
}

// Open creates (or reopens) this process's journal in dir. dir is created if
// it does not exist.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("journal: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	sessionID := fmt.Sprintf("%d-%d", now.Unix(), os.Getpid())
	path := filepath.Join(dir, sessionID+ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	return &Journal{
		file:      f,
		sessionID: sessionID,
		startedAt: now,
		summary:   newTally(),
	}, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string { return j.file.Name() }

// Append serializes entry as a JSON line, writes it and syncs. It is safe to
// call from multiple goroutines.
func (j *Journal) Append(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("journal: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("journal: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("journal: sync: %w", err)
	}
	j.summary.add(entry)
	return nil
}

// Listener returns a session.Listener that appends every change. Write
// failures are logged; the journal never blocks a dispatch.
func (j *Journal) Listener(log zerolog.Logger) session.Listener {
	return func(c session.Change) {
		if err := j.Append(FromChange(c, time.Now())); err != nil {
			log.Warn().Err(err).Str("action", c.Action.Kind().String()).Msg("journal append")
		}
	}
}

// Summary returns counts for the entries appended through j.
func (j *Journal) Summary() Summary {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.summary.snapshot(j.sessionID, j.startedAt)
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// ReadFile reads every entry in the journal at path. Malformed lines are
// skipped and counted.
func ReadFile(path string) ([]Entry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("journal: open %q: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) ([]Entry, int, error) {
	var entries []Entry
	skipped := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, skipped, fmt.Errorf("journal: read: %w", err)
	}
	return entries, skipped, nil
}

// ErrNoJournal is returned by Latest when dir holds no journal files.
var ErrNoJournal = errors.New("journal: no journal files")

// Latest returns the path of the newest journal file in dir.
func Latest(dir string) (string, error) {
	files, err := list(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNoJournal
	}
	return filepath.Join(dir, files[len(files)-1]), nil
}

// EnforceRetention removes the oldest journal files in dir, keeping at most
// maxKeep files. If maxKeep is 0, no files are removed. Returns nil if dir
// does not exist or is empty.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := list(dir)
	if err != nil {
		return err
	}

	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("journal: remove %q: %w", path, err)
		}
	}
	return nil
}

// list returns the journal file names in dir, oldest first.
func list(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files) // timestamp-prefixed names sort chronologically
	return files, nil
}
