package panels

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/storefront/internal/session"
)

// QuantityRequestMsg asks for a line's quantity to change by Delta.
type QuantityRequestMsg struct {
	ID    session.ProductID
	Delta int
}

// RemoveRequestMsg asks for a line to be removed.
type RemoveRequestMsg struct{ ID session.ProductID }

// lineItem wraps a session.CartLine as a list.Item.
type lineItem struct {
	l session.CartLine
}

func (i lineItem) Title() string { return i.l.Title }

func (i lineItem) Description() string {
	return fmt.Sprintf("%d × %s = %s", i.l.Quantity, FormatPrice(i.l.Price), FormatPrice(i.l.Subtotal()))
}

func (i lineItem) FilterValue() string { return i.l.Title }

// lineDelegate renders a cart line on one line: title, quantity, subtotal.
type lineDelegate struct{ width int }

func (d lineDelegate) Height() int                             { return 1 }
func (d lineDelegate) Spacing() int                            { return 0 }
func (d lineDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d lineDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li, ok := item.(lineItem)
	if !ok {
		return
	}
	qty := fmt.Sprintf("×%-3d", li.l.Quantity)
	sub := fmt.Sprintf("%10s", FormatPrice(li.l.Subtotal()))
	titleW := d.width - 2 - len(qty) - 1 - len(sub) - 1
	if titleW < 6 {
		titleW = 6
	}
	title := fmt.Sprintf("%-*s", titleW, truncate(li.l.Title, titleW))
	if index == m.Index() {
		_, _ = fmt.Fprint(w, selectedStyle.Render("> "+title)+" "+qty+" "+sub)
		return
	}
	_, _ = fmt.Fprint(w, "  "+title+" "+qty+" "+sub)
}

// CartPanel displays the cart lines with a totals row.
type CartPanel struct {
	list   list.Model
	cart   session.Cart
	width  int
	height int
}

// NewCartPanel creates a cart panel showing cart.
func NewCartPanel(cart session.Cart, w, h int) CartPanel {
	l := list.New(lineItems(cart.Items), lineDelegate{width: w}, w, listHeight(h))
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return CartPanel{list: l, cart: cart, width: w, height: h}
}

// listHeight leaves room for the separator and totals rows.
func listHeight(h int) int {
	if h > 3 {
		return h - 2
	}
	return 1
}

func lineItems(lines []session.CartLine) []list.Item {
	items := make([]list.Item, len(lines))
	for i, l := range lines {
		items[i] = lineItem{l: l}
	}
	return items
}

// SetCart replaces the displayed cart, keeping the cursor where it was when
// possible.
func (p CartPanel) SetCart(cart session.Cart) CartPanel {
	idx := p.list.Index()
	p.cart = cart
	p.list.SetItems(lineItems(cart.Items))
	if idx >= len(cart.Items) {
		idx = len(cart.Items) - 1
	}
	if idx >= 0 {
		p.list.Select(idx)
	}
	return p
}

// Cart returns the displayed cart.
func (p CartPanel) Cart() session.Cart { return p.cart }

// Selected returns the highlighted line.
func (p CartPanel) Selected() (session.CartLine, bool) {
	if item, ok := p.list.SelectedItem().(lineItem); ok {
		return item.l, true
	}
	return session.CartLine{}, false
}

// SetSize resizes the panel.
func (p CartPanel) SetSize(w, h int) CartPanel {
	p.width = w
	p.height = h
	p.list.SetSize(w, listHeight(h))
	p.list.SetDelegate(lineDelegate{width: w})
	return p
}

// Update handles key messages for the panel.
func (p CartPanel) Update(msg tea.Msg) (CartPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "+", "=", "l", "right":
			if sel, ok := p.Selected(); ok {
				id := sel.ID
				return p, func() tea.Msg { return QuantityRequestMsg{ID: id, Delta: 1} }
			}
		case "-", "h", "left":
			if sel, ok := p.Selected(); ok {
				id := sel.ID
				return p, func() tea.Msg { return QuantityRequestMsg{ID: id, Delta: -1} }
			}
		case "d", "delete", "backspace":
			if sel, ok := p.Selected(); ok {
				id := sel.ID
				return p, func() tea.Msg { return RemoveRequestMsg{ID: id} }
			}
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

// View renders the cart panel.
func (p CartPanel) View() string {
	if len(p.cart.Items) == 0 {
		return placeholder("Your cart is empty", p.width, p.height)
	}
	rule := dimStyle.Render(strings.Repeat("─", max(p.width, 1)))
	total := fmt.Sprintf("%d item(s)  subtotal %s", p.cart.ItemCount, FormatPrice(p.cart.Total))
	totals := lipgloss.NewStyle().Bold(true).Width(p.width).Align(lipgloss.Right).Render(total)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Height(listHeight(p.height)).Render(p.list.View()),
		rule,
		totals,
	)
}
