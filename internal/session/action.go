package session

import "math"

// Kind identifies the type of an Action.
type Kind int

const (
	KindSetUser        Kind = iota // Replace the signed-in user
	KindLogout                     // Clear the signed-in user
	KindAddToCart                  // Add one unit of a product
	KindRemoveFromCart             // Drop a line
	KindUpdateQuantity             // Set a line's quantity
	KindSetCatalog                 // Replace the catalog wholesale
)

// String returns the action name used in logs and the journal.
func (k Kind) String() string {
	switch k {
	case KindSetUser:
		return "set_user"
	case KindLogout:
		return "logout"
	case KindAddToCart:
		return "add_to_cart"
	case KindRemoveFromCart:
		return "remove_from_cart"
	case KindUpdateQuantity:
		return "update_quantity"
	case KindSetCatalog:
		return "set_catalog"
	default:
		return "unknown"
	}
}

// TouchesSession reports whether actions of this kind change the persisted
// part of the state (user or cart).
func (k Kind) TouchesSession() bool {
	return k != KindSetCatalog
}

// Action is one of the fixed set of state transitions. The set is closed:
// only the types in this file implement it.
type Action interface {
	Kind() Kind
	apply(State) State
}

// SetUser replaces the signed-in user. A nil User signs out.
type SetUser struct {
	User *User
}

// Logout clears the signed-in user. Applying it twice is the same as once.
type Logout struct{}

// AddToCart increments the quantity of Product's line, or appends a new line
// with quantity 1.
type AddToCart struct {
	Product Product
}

// RemoveFromCart drops the line for ID. Unknown IDs are a no-op.
type RemoveFromCart struct {
	ID ProductID
}

// UpdateQuantity sets the quantity of the line for ID. A quantity of zero or
// less removes the line.
type UpdateQuantity struct {
	ID       ProductID
	Quantity int
}

// SetCatalog replaces the catalog.
type SetCatalog struct {
	Products []Product
}

func (SetUser) Kind() Kind        { return KindSetUser }
func (Logout) Kind() Kind         { return KindLogout }
func (AddToCart) Kind() Kind      { return KindAddToCart }
func (RemoveFromCart) Kind() Kind { return KindRemoveFromCart }
func (UpdateQuantity) Kind() Kind { return KindUpdateQuantity }
func (SetCatalog) Kind() Kind     { return KindSetCatalog }

// amount maps values that cannot take part in aggregate math to zero.
func amount(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// normalizeProduct clamps a product to the data model's ranges.
func normalizeProduct(p Product) Product {
	p.Price = amount(p.Price)
	if p.Rating < 0 {
		p.Rating = 0
	}
	if p.Rating > 5 {
		p.Rating = 5
	}
	if p.Reviews < 0 {
		p.Reviews = 0
	}
	return p
}
