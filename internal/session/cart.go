package session

import "context"

// CartStore is the capability to read and change the cart. The local
// implementation keeps the cart in the session Store; a remote one keeps it
// in a cart service. Which one is used is decided when the app is wired.
type CartStore interface {
	Add(ctx context.Context, p Product) (Cart, error)
	Remove(ctx context.Context, id ProductID) (Cart, error)
	// SetQuantity sets a line's quantity; zero or less removes the line.
	SetQuantity(ctx context.Context, id ProductID, quantity int) (Cart, error)
	Clear(ctx context.Context) (Cart, error)
	Cart(ctx context.Context) (Cart, error)
}

// LocalCart is a CartStore over a session Store. Its methods never fail.
type LocalCart struct {
	Store *Store
}

var _ CartStore = LocalCart{}

// NewLocalCart returns a CartStore that dispatches to st.
func NewLocalCart(st *Store) LocalCart {
	return LocalCart{Store: st}
}

func (c LocalCart) Add(_ context.Context, p Product) (Cart, error) {
	return c.Store.Dispatch(AddToCart{Product: p}).Cart, nil
}

func (c LocalCart) Remove(_ context.Context, id ProductID) (Cart, error) {
	return c.Store.Dispatch(RemoveFromCart{ID: id}).Cart, nil
}

func (c LocalCart) SetQuantity(_ context.Context, id ProductID, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c.Store.Dispatch(RemoveFromCart{ID: id}).Cart, nil
	}
	return c.Store.Dispatch(UpdateQuantity{ID: id, Quantity: quantity}).Cart, nil
}

// Clear removes every line, one RemoveFromCart per line.
func (c LocalCart) Clear(_ context.Context) (Cart, error) {
	cart := c.Store.State().Cart
	for _, l := range cart.Items {
		cart = c.Store.Dispatch(RemoveFromCart{ID: l.ID}).Cart
	}
	return cart, nil
}

func (c LocalCart) Cart(_ context.Context) (Cart, error) {
	return c.Store.State().Cart, nil
}

// Adjust changes the quantity of the line for id by delta in one store
// update, removing the line when the result is zero or less. Unknown ids
// are left alone.
func (c LocalCart) Adjust(_ context.Context, id ProductID, delta int) (Cart, error) {
	return c.Store.Update(func(s State) Action {
		l, ok := s.Cart.Line(id)
		if !ok {
			return nil
		}
		q := l.Quantity + delta
		if q <= 0 {
			return RemoveFromCart{ID: id}
		}
		return UpdateQuantity{ID: id, Quantity: q}
	}).Cart, nil
}

// adjuster is implemented by cart stores that can change a quantity
// atomically.
type adjuster interface {
	Adjust(ctx context.Context, id ProductID, delta int) (Cart, error)
}

// Increment raises the quantity of the line for id by one. Unknown ids are
// left alone. Stores with an Adjust method do the read and write as one
// operation; others read the cart and then set the quantity.
func Increment(ctx context.Context, cs CartStore, id ProductID) (Cart, error) {
	if a, ok := cs.(adjuster); ok {
		return a.Adjust(ctx, id, 1)
	}
	cart, err := cs.Cart(ctx)
	if err != nil {
		return Cart{}, err
	}
	l, ok := cart.Line(id)
	if !ok {
		return cart, nil
	}
	return cs.SetQuantity(ctx, id, l.Quantity+1)
}

// Decrement lowers the quantity of the line for id by one, removing the line
// when it would reach zero.
func Decrement(ctx context.Context, cs CartStore, id ProductID) (Cart, error) {
	if a, ok := cs.(adjuster); ok {
		return a.Adjust(ctx, id, -1)
	}
	cart, err := cs.Cart(ctx)
	if err != nil {
		return Cart{}, err
	}
	l, ok := cart.Line(id)
	if !ok {
		return cart, nil
	}
	if l.Quantity > 1 {
		return cs.SetQuantity(ctx, id, l.Quantity-1)
	}
	return cs.Remove(ctx, id)
}
