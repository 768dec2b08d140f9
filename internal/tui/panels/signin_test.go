package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(f SignInForm, s string) SignInForm {
	for _, r := range s {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func TestSignInForm_Submit(t *testing.T) {
	f, _ := NewSignInForm("#FF9900", 80, 20).Open()
	f = typeText(f, "ann@example.com")
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	f = typeText(f, "Ann")

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	got, ok := cmd().(SignInRequestMsg)
	if !ok {
		t.Fatalf("got %#v", got)
	}
	if got.Email != "ann@example.com" || got.Name != "Ann" {
		t.Errorf("got %+v", got)
	}
}

func TestSignInForm_EmptyEmail(t *testing.T) {
	f, _ := NewSignInForm("#FF9900", 80, 20).Open()
	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty email should not submit")
	}
	if !strings.Contains(f.View(), "email is required") {
		t.Errorf("missing error in view: %q", f.View())
	}
}

func TestSignInForm_Cancel(t *testing.T) {
	f, _ := NewSignInForm("#FF9900", 80, 20).Open()
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should emit a command")
	}
	if _, ok := cmd().(SignInCancelledMsg); !ok {
		t.Error("esc should cancel")
	}
}

func TestSignInForm_ErrorAndReopen(t *testing.T) {
	f, _ := NewSignInForm("#FF9900", 80, 20).Open()
	f = typeText(f, "nope")
	f = f.SetError("invalid email address")
	if !strings.Contains(f.View(), "invalid email address") {
		t.Error("error should render")
	}

	f, _ = f.Open()
	if strings.Contains(f.View(), "invalid email address") {
		t.Error("reopening should clear the error")
	}
	if f.email.Value() != "" {
		t.Errorf("reopening should clear the input; got %q", f.email.Value())
	}
}
