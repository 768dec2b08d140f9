package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Footer Rect
	Catalog, Cart  Rect
	TooSmall       bool // true when terminal is below the minimum 80×20
}

// Calculate computes the panel layout for a terminal of the given dimensions.
// Returns a Layout with TooSmall=true if width < 80 or height < 20.
//
// Algorithm:
//   - Header: full width, 1 row at top
//   - Footer: full width, 1 row at bottom
//   - Cart: 40% of width, clamped to [36, 60], full body height (right)
//   - Catalog: remaining width, full body height (left)
func Calculate(width, height int) Layout {
	if width < 80 || height < 20 {
		return Layout{TooSmall: true}
	}

	bodyH := height - 2 // subtract header + footer rows

	cartW := width * 40 / 100
	if cartW < 36 {
		cartW = 36
	}
	if cartW > 60 {
		cartW = 60
	}
	catalogW := width - cartW

	return Layout{
		Header:   Rect{X: 0, Y: 0, Width: width, Height: 1},
		Footer:   Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		Catalog:  Rect{X: 0, Y: 1, Width: catalogW, Height: bodyH},
		Cart:     Rect{X: catalogW, Y: 1, Width: cartW, Height: bodyH},
		TooSmall: false,
	}
}
