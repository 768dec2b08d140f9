package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SignInRequestMsg is emitted when the user submits the sign-in form.
type SignInRequestMsg struct {
	Email string
	Name  string
}

// SignInCancelledMsg is emitted when the user dismisses the form.
type SignInCancelledMsg struct{}

// SignInForm is the email/name overlay shown when signing in.
type SignInForm struct {
	email  textinput.Model
	name   textinput.Model
	field  int // 0 = email, 1 = name
	err    string
	width  int
	height int
	accent lipgloss.Color
}

// NewSignInForm creates a blank form.
func NewSignInForm(accent string, w, h int) SignInForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	name := textinput.New()
	name.Placeholder = "optional, defaults to the part before @"
	name.CharLimit = 64

	f := SignInForm{email: email, name: name, accent: lipgloss.Color(accent)}
	return f.SetSize(w, h)
}

// Open resets and focuses the form.
func (f SignInForm) Open() (SignInForm, tea.Cmd) {
	f.email.Reset()
	f.name.Reset()
	f.err = ""
	f.field = 0
	f.name.Blur()
	f.email.Focus()
	return f, textinput.Blink
}

// SetError shows err under the inputs.
func (f SignInForm) SetError(err string) SignInForm {
	f.err = err
	return f
}

// SetSize resizes the form.
func (f SignInForm) SetSize(w, h int) SignInForm {
	f.width = w
	f.height = h
	if w > 12 {
		f.email.Width = w - 12
		f.name.Width = w - 12
	}
	return f
}

// Update handles key messages while the form is open.
func (f SignInForm) Update(msg tea.Msg) (SignInForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			f.email.Blur()
			f.name.Blur()
			return f, func() tea.Msg { return SignInCancelledMsg{} }
		case "tab", "shift+tab", "up", "down":
			f = f.toggleField()
			return f, textinput.Blink
		case "enter":
			email := strings.TrimSpace(f.email.Value())
			if email == "" {
				f.err = "email is required"
				return f, nil
			}
			name := strings.TrimSpace(f.name.Value())
			return f, func() tea.Msg { return SignInRequestMsg{Email: email, Name: name} }
		}
	}

	var cmd tea.Cmd
	if f.field == 0 {
		f.email, cmd = f.email.Update(msg)
	} else {
		f.name, cmd = f.name.Update(msg)
	}
	return f, cmd
}

func (f SignInForm) toggleField() SignInForm {
	if f.field == 0 {
		f.field = 1
		f.email.Blur()
		f.name.Focus()
	} else {
		f.field = 0
		f.name.Blur()
		f.email.Focus()
	}
	return f
}

// View renders the form.
func (f SignInForm) View() string {
	accent := lipgloss.NewStyle().Foreground(f.accent).Bold(true)
	rows := []string{
		accent.Render("Sign in"),
		"",
		"Email: " + f.email.View(),
		"Name:  " + f.name.View(),
		"",
	}
	if f.err != "" {
		rows = append(rows, errorStyle.Render(f.err), "")
	}
	rows = append(rows, dimStyle.Render("Enter to sign in · Tab to switch field · Esc to cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(f.accent).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box)
}
