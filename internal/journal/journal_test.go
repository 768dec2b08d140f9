package journal_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/LISSConsulting/storefront/internal/journal"
	"github.com/LISSConsulting/storefront/internal/session"
)

func TestOpen_CreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")
	j, err := journal.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = j.Close() }()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file in dir, got %d", len(entries))
	}
	if ext := filepath.Ext(entries[0].Name()); ext != ".jsonl" {
		t.Errorf("expected .jsonl extension, got %q", ext)
	}
}

func TestOpen_DirIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := journal.Open(path); err == nil {
		t.Fatal("expected error when dir is a regular file")
	}
}

func TestListener_RecordsDispatches(t *testing.T) {
	dir := t.TempDir()
	j, err := journal.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = j.Close() }()

	st := session.NewStore(session.NewState(), nil, zerolog.Nop())
	st.Subscribe(j.Listener(zerolog.Nop()))

	kettle := session.Product{ID: 7, Title: "Kettle", Price: 20}
	st.Dispatch(session.SetUser{User: &session.User{Email: "ann@example.com", Name: "ann"}})
	st.Dispatch(session.AddToCart{Product: kettle})
	st.Dispatch(session.AddToCart{Product: kettle})
	st.Dispatch(session.UpdateQuantity{ID: 7, Quantity: 5})
	st.Dispatch(session.SetCatalog{Products: []session.Product{kettle}})
	st.Dispatch(session.RemoveFromCart{ID: 7})
	st.Dispatch(session.Logout{})

	entries, skipped, err := journal.ReadFile(j.Path())
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d", skipped)
	}

	want := []journal.Entry{
		{Action: "set_user", User: "ann@example.com"},
		{Action: "add_to_cart", ProductID: 7, Title: "Kettle", Quantity: 1, ItemCount: 1, Total: 20},
		{Action: "add_to_cart", ProductID: 7, Title: "Kettle", Quantity: 2, ItemCount: 2, Total: 40},
		{Action: "update_quantity", ProductID: 7, Quantity: 5, ItemCount: 5, Total: 100},
		{Action: "set_catalog", Products: 1, ItemCount: 5, Total: 100},
		{Action: "remove_from_cart", ProductID: 7},
		{Action: "logout", User: "ann@example.com"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		got := entries[i]
		if got.Time.IsZero() {
			t.Errorf("entry %d has no timestamp", i)
		}
		got.Time = time.Time{}
		if got != w {
			t.Errorf("entry %d = %+v, want %+v", i, got, w)
		}
	}

	sum := j.Summary()
	if sum.Actions != 7 || sum.ByAction["add_to_cart"] != 2 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.ItemCount != 0 || sum.Total != 0 {
		t.Errorf("final cart in summary = %d / %v", sum.ItemCount, sum.Total)
	}
}

func TestReadFile_MalformedLineSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1-1.jsonl")
	content := `{"ts":"2026-01-02T03:04:05Z","action":"logout","item_count":0,"total":0}
not json

{"ts":"2026-01-02T03:04:06Z","action":"add_to_cart","product_id":"3","item_count":1,"total":2.5}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	entries, skipped, err := journal.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(entries) != 2 || entries[1].ProductID != 3 {
		t.Fatalf("entries = %+v", entries)
	}

	sum := journal.Summarize("1-1", entries)
	if sum.Actions != 2 || sum.ItemCount != 1 || sum.Total != 2.5 {
		t.Errorf("summary = %+v", sum)
	}
	if !sum.StartedAt.Equal(entries[0].Time) {
		t.Errorf("started = %v", sum.StartedAt)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, _, err := journal.ReadFile(filepath.Join(t.TempDir(), "none.jsonl")); err == nil {
		t.Fatal("expected error")
	}
}

func TestAppend_AfterClose(t *testing.T) {
	j, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = j.Close()
	if err := j.Append(journal.Entry{Action: "logout"}); err == nil {
		t.Error("expected error appending to a closed journal")
	}
}

func createJournals(t *testing.T, dir string, n int) []string {
	t.Helper()
	var names []string
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%d-1.jsonl", 1700000000+i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0644); err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}
	return names
}

func remaining(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestEnforceRetention(t *testing.T) {
	tests := []struct {
		name    string
		files   int
		maxKeep int
		want    int
	}{
		{"unlimited", 5, 0, 5},
		{"under limit", 2, 3, 2},
		{"at limit", 3, 3, 3},
		{"over limit", 6, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			names := createJournals(t, dir, tt.files)
			if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644); err != nil {
				t.Fatal(err)
			}

			if err := journal.EnforceRetention(dir, tt.maxKeep); err != nil {
				t.Fatal(err)
			}

			got := remaining(t, dir)
			want := append(append([]string{}, names[len(names)-tt.want:]...), "notes.txt")
			sort.Strings(want)
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("remaining = %v, want %v", got, want)
			}
		})
	}

	t.Run("missing dir", func(t *testing.T) {
		if err := journal.EnforceRetention(filepath.Join(t.TempDir(), "nope"), 3); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	if _, err := journal.Latest(dir); !errors.Is(err, journal.ErrNoJournal) {
		t.Fatalf("empty dir: err = %v, want ErrNoJournal", err)
	}

	names := createJournals(t, dir, 3)
	got, err := journal.Latest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, names[2]); got != want {
		t.Errorf("latest = %q, want %q", got, want)
	}
}
