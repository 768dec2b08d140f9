package panels

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/storefront/internal/session"
)

// AddRequestMsg is emitted when the user adds the highlighted product.
// Defined here (not in parent tui package) to avoid circular imports.
type AddRequestMsg struct{ Product session.Product }

// productItem wraps a session.Product as a list.Item.
type productItem struct {
	p session.Product
}

func (i productItem) Title() string { return i.p.Title }

func (i productItem) Description() string {
	return fmt.Sprintf("%s  %s (%d)", FormatPrice(i.p.Price), Stars(i.p.Rating), i.p.Reviews)
}

func (i productItem) FilterValue() string { return i.p.Title }

// productDelegate renders a product on one line: title, price, rating.
type productDelegate struct{ width int }

func (d productDelegate) Height() int                             { return 1 }
func (d productDelegate) Spacing() int                            { return 0 }
func (d productDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d productDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(productItem)
	if !ok {
		return
	}
	price := fmt.Sprintf("%10s", FormatPrice(pi.p.Price))
	rating := starStyle.Render(Stars(pi.p.Rating))
	titleW := d.width - 2 - len(price) - 2 - 5 - 2
	if titleW < 8 {
		titleW = 8
	}
	title := fmt.Sprintf("%-*s", titleW, truncate(pi.p.Title, titleW))
	line := fmt.Sprintf("%s  %s  %s", title, price, rating)
	if index == m.Index() {
		_, _ = fmt.Fprint(w, selectedStyle.Render("> ")+selectedStyle.Render(title)+fmt.Sprintf("  %s  %s", price, rating))
		return
	}
	_, _ = fmt.Fprint(w, "  "+line)
}

// CatalogPanel displays the navigable product list.
type CatalogPanel struct {
	list     list.Model
	products []session.Product
	loading  bool
	width    int
	height   int
}

// NewCatalogPanel creates a catalog panel. While loading is true and there
// are no products, the panel says so instead of showing an empty list.
func NewCatalogPanel(products []session.Product, loading bool, w, h int) CatalogPanel {
	l := list.New(productItems(products), productDelegate{width: w}, w, h)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return CatalogPanel{
		list:     l,
		products: products,
		loading:  loading,
		width:    w,
		height:   h,
	}
}

func productItems(products []session.Product) []list.Item {
	items := make([]list.Item, len(products))
	for i, p := range products {
		items[i] = productItem{p: p}
	}
	return items
}

// SetProducts replaces the listed products, keeping the cursor where it was
// when possible.
func (p CatalogPanel) SetProducts(products []session.Product) CatalogPanel {
	idx := p.list.Index()
	p.products = products
	p.list.SetItems(productItems(products))
	if idx >= len(products) {
		idx = len(products) - 1
	}
	if idx >= 0 {
		p.list.Select(idx)
	}
	return p
}

// SetLoading records whether the catalog is still being fetched.
func (p CatalogPanel) SetLoading(loading bool) CatalogPanel {
	p.loading = loading
	return p
}

// Len returns the number of listed products.
func (p CatalogPanel) Len() int { return len(p.products) }

// Selected returns the highlighted product.
func (p CatalogPanel) Selected() (session.Product, bool) {
	if item, ok := p.list.SelectedItem().(productItem); ok {
		return item.p, true
	}
	return session.Product{}, false
}

// SetSize resizes the panel.
func (p CatalogPanel) SetSize(w, h int) CatalogPanel {
	p.width = w
	p.height = h
	p.list.SetSize(w, h)
	p.list.SetDelegate(productDelegate{width: w})
	return p
}

// Update handles key messages for the panel.
func (p CatalogPanel) Update(msg tea.Msg) (CatalogPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "enter", "a":
			if sel, ok := p.Selected(); ok {
				return p, func() tea.Msg { return AddRequestMsg{Product: sel} }
			}
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

// View renders the catalog panel.
func (p CatalogPanel) View() string {
	if len(p.products) == 0 {
		if p.loading {
			return placeholder("Loading products…", p.width, p.height)
		}
		return placeholder("No products available", p.width, p.height)
	}
	return p.list.View()
}
