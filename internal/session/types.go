// Package session holds the storefront's client-side state engine: the
// signed-in user, the shopping cart and the product catalog, mutated only
// through a fixed set of actions and kept consistent with the cart's derived
// aggregates.
package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ProductID identifies a product and the cart line that holds it.
type ProductID int64

// UnmarshalJSON accepts a JSON number or a numeric string.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return fmt.Errorf("session: invalid product id %s", string(data))
		}
		n = int64(f)
	}
	*id = ProductID(n)
	return nil
}

// String returns the decimal form of the id.
func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseProductID parses a decimal product id, as typed on the command line
// or taken from a URL path.
func ParseProductID(s string) (ProductID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session: invalid product id %q", s)
	}
	return ProductID(n), nil
}

// User is the signed-in identity. A nil *User means signed out.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Product is one purchasable catalog entry.
type Product struct {
	ID      ProductID `json:"id"`
	Title   string    `json:"title"`
	Price   float64   `json:"price"`
	Image   string    `json:"image"`
	Rating  int       `json:"rating"`
	Reviews int       `json:"reviews"`
}

// CartLine is one product entry in the cart with its quantity.
type CartLine struct {
	ID       ProductID `json:"id"`
	Title    string    `json:"title"`
	Price    float64   `json:"price"`
	Image    string    `json:"image"`
	Quantity int       `json:"quantity"`
}

// Subtotal is price times quantity for this line.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart is the ordered set of lines plus the aggregates derived from them.
// Total and ItemCount are only ever produced by Summarize.
type Cart struct {
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// EmptyCart returns a cart with no lines and zero aggregates. Items is a
// non-nil empty slice so it serializes as [].
func EmptyCart() Cart {
	return Cart{Items: []CartLine{}}
}

// Summarize builds a Cart from lines, recomputing Total and ItemCount in
// line order. The lines slice is copied.
func Summarize(lines []CartLine) Cart {
	items := make([]CartLine, len(lines))
	copy(items, lines)

	c := Cart{Items: items}
	for _, l := range items {
		c.Total += l.Subtotal()
		c.ItemCount += l.Quantity
	}
	return c
}

// Line returns the line for id and whether it exists.
func (c Cart) Line(id ProductID) (CartLine, bool) {
	for _, l := range c.Items {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// Clone returns a copy of c that shares no memory with it.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartLine, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// State is the single root of session state.
type State struct {
	User    *User     `json:"user"`
	Cart    Cart      `json:"cart"`
	Catalog []Product `json:"catalog"`
}

// NewState returns the defaults: signed out, empty cart, empty catalog.
func NewState() State {
	return State{Cart: EmptyCart(), Catalog: []Product{}}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Cart: s.Cart.Clone()}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.Catalog = make([]Product, len(s.Catalog))
	copy(out.Catalog, s.Catalog)
	return out
}

// Product looks up a catalog entry by id.
func (s State) Product(id ProductID) (Product, bool) {
	for _, p := range s.Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
