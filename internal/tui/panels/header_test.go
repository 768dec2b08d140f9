package panels

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderHeader_BasicFields(t *testing.T) {
	accent := lipgloss.NewStyle().Background(lipgloss.Color("#FF9900"))
	now := time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC)

	props := HeaderProps{
		UserName:    "ann",
		Email:       "ann@example.com",
		ItemCount:   3,
		Total:       42.5,
		Mode:        "local",
		StateSymbol: "✓",
		StateLabel:  "8 PRODUCTS",
		Clock:       now,
	}

	rendered := RenderHeader(props, 200, accent)

	for _, want := range []string{"storefront", "ann <ann@example.com>", "cart: 3", "$42.50", "mode: local", "✓ 8 PRODUCTS", "15:30"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("RenderHeader() missing %q; output: %q", want, rendered)
		}
	}
}

func TestRenderHeader_EmptyFieldFallbacks(t *testing.T) {
	rendered := RenderHeader(HeaderProps{}, 200, lipgloss.NewStyle())

	for _, want := range []string{"storefront", "not signed in", "cart: 0"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("RenderHeader() with empty props missing %q; got %q", want, rendered)
		}
	}
	if strings.Contains(rendered, "$") {
		t.Errorf("empty cart should not show a total; got %q", rendered)
	}
}

func TestRenderHeader_LabelWithoutSymbol(t *testing.T) {
	rendered := RenderHeader(HeaderProps{StateLabel: "LOADING"}, 200, lipgloss.NewStyle())
	if !strings.Contains(rendered, "LOADING") {
		t.Errorf("missing state label; got %q", rendered)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{9.999, "$10.00"},
		{0.1 + 0.2, "$0.30"},
		{1234.5, "$1234.50"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		rating int
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{3, "★★★☆☆"},
		{5, "★★★★★"},
		{9, "★★★★★"},
		{-1, "☆☆☆☆☆"},
	}
	for _, tt := range tests {
		if got := Stars(tt.rating); got != tt.want {
			t.Errorf("Stars(%d) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"kettle", 10, "kettle"},
		{"kettle", 6, "kettle"},
		{"kettle", 4, "ket…"},
		{"kettle", 1, "…"},
		{"kettle", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}
