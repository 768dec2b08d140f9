package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
// String fields for state avoid importing the parent tui package (circular dep prevention).
type HeaderProps struct {
	UserName    string // empty when signed out
	Email       string
	ItemCount   int
	Total       float64
	Mode        string // "local" or "remote"
	StateSymbol string // e.g. "⟳", "✓", "✗"
	StateLabel  string // e.g. "LOADING", "8 PRODUCTS"
	Clock       time.Time
}

// RenderHeader renders the header bar. accentStyle is applied to the full
// header bar width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	who := "not signed in"
	if props.UserName != "" {
		who = props.UserName
		if props.Email != "" {
			who += " <" + props.Email + ">"
		}
	}

	parts := []string{"🛒 storefront", who}

	basket := fmt.Sprintf("cart: %d", props.ItemCount)
	if props.ItemCount > 0 {
		basket += "  " + FormatPrice(props.Total)
	}
	parts = append(parts, basket)

	if props.Mode != "" {
		parts = append(parts, "mode: "+props.Mode)
	}

	stateLabel := props.StateLabel
	if props.StateSymbol != "" && props.StateLabel != "" {
		stateLabel = props.StateSymbol + " " + props.StateLabel
	}
	if stateLabel != "" {
		parts = append(parts, stateLabel)
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	content := strings.Join(parts, "  │  ")
	return accentStyle.Width(width).Render(content)
}
