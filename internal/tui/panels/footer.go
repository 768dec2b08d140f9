package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Focus    string // "catalog", "cart", "sign in"
	Status   string // last action result
	IsError  bool
	SignedIn bool
}

// RenderFooter renders the context-sensitive footer bar.
// Left side: last status message. Right side: keybinding hints for current focus + global.
func RenderFooter(props FooterProps, width int) string {
	left := props.Status
	if props.IsError {
		left = errorStyle.Render(left)
	}

	login := "L:sign in"
	if props.SignedIn {
		login = "L:sign out"
	}
	right := panelHints(props.Focus)
	if props.Focus != "sign in" {
		right += "  " + login + "  C:clear  r:refresh  q:quit"
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return dimStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// panelHints returns the context-sensitive keybinding hints for a given focus.
func panelHints(focus string) string {
	switch focus {
	case "catalog":
		return "j/k:navigate  enter/a:add  tab:cart"
	case "cart":
		return "j/k:navigate  +/-:quantity  d:remove  tab:catalog"
	case "sign in":
		return "enter:sign in  tab:field  esc:cancel"
	default:
		return "tab:next panel"
	}
}
