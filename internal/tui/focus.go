package tui

import "strconv"

// FocusTarget identifies which panel currently holds keyboard focus.
type FocusTarget int

const (
	FocusCatalog FocusTarget = iota // Left: product list
	FocusCart                       // Right: cart lines
)

const focusCount = 2

// Next returns the next focus target in forward tab order.
func (f FocusTarget) Next() FocusTarget {
	return (f + 1) % focusCount
}

// Prev returns the previous focus target in reverse tab order.
func (f FocusTarget) Prev() FocusTarget {
	return (f + focusCount - 1) % focusCount
}

// String returns the human-readable name of the focus target.
func (f FocusTarget) String() string {
	switch f {
	case FocusCatalog:
		return "catalog"
	case FocusCart:
		return "cart"
	default:
		return "unknown"
	}
}

// CatalogState tracks the one-shot catalog population.
type CatalogState int

const (
	CatalogLoading CatalogState = iota // Fetch in flight
	CatalogReady                       // Products present
	CatalogEmpty                       // Fetch finished with no products
)

// Label returns a short uppercase label for the state. count is the number
// of products held.
func (s CatalogState) Label(count int) string {
	switch s {
	case CatalogLoading:
		return "LOADING"
	case CatalogReady:
		if count == 1 {
			return "1 PRODUCT"
		}
		return strconv.Itoa(count) + " PRODUCTS"
	case CatalogEmpty:
		return "NO PRODUCTS"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a single-character symbol representing the state.
func (s CatalogState) Symbol() string {
	switch s {
	case CatalogLoading:
		return "⟳"
	case CatalogReady:
		return "✓"
	case CatalogEmpty:
		return "✗"
	default:
		return "?"
	}
}
