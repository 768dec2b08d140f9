package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFile_GetMissing(t *testing.T) {
	f := NewFile(t.TempDir())
	v, ok, err := f.Get("cart")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || v != "" {
		t.Errorf("Get on missing key = (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestFile_SetAndGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	f := NewFile(dir)

	if err := f.Set("cart", `{"items":[]}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := f.Get("cart")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || v != `{"items":[]}` {
		t.Errorf("Get = (%q, %v), want stored value", v, ok)
	}

	if err := f.Set("cart", `{"items":[1]}`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, _, _ = f.Get("cart")
	if v != `{"items":[1]}` {
		t.Errorf("after overwrite Get = %q", v)
	}
}

func TestFile_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir)
	for i := 0; i < 5; i++ {
		if err := f.Set("user", "null"); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file, got %d", len(entries))
	}
}

func TestFile_InvalidKey(t *testing.T) {
	f := NewFile(t.TempDir())
	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		if err := f.Set(key, "x"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
		}
		if _, _, err := f.Get(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestFile_UnreadableValue(t *testing.T) {
	dir := t.TempDir()
	// A directory where the value file should be makes ReadFile fail.
	if err := os.Mkdir(filepath.Join(dir, "cart.json"), 0755); err != nil {
		t.Fatal(err)
	}
	f := NewFile(dir)
	if _, _, err := f.Get("cart"); err == nil {
		t.Error("expected error reading a directory as a value")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	if _, ok, _ := m.Get("user"); ok {
		t.Fatal("new Memory should be empty")
	}
	_ = m.Set("user", `{"email":"a@b.co"}`)
	v, ok, err := m.Get("user")
	if err != nil || !ok || v != `{"email":"a@b.co"}` {
		t.Errorf("Get = (%q, %v, %v)", v, ok, err)
	}
}
