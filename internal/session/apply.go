package session

// Apply returns the state that results from applying a to s. It reads
// nothing but its arguments and never modifies s.
func Apply(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (a SetUser) apply(s State) State {
	if a.User == nil {
		s.User = nil
		return s
	}
	u := *a.User
	s.User = &u
	return s
}

func (Logout) apply(s State) State {
	s.User = nil
	return s
}

func (a AddToCart) apply(s State) State {
	p := normalizeProduct(a.Product)

	lines := make([]CartLine, 0, len(s.Cart.Items)+1)
	found := false
	for _, l := range s.Cart.Items {
		if l.ID == p.ID {
			l.Quantity++
			found = true
		}
		lines = append(lines, l)
	}
	if !found {
		lines = append(lines, CartLine{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
		})
	}

	s.Cart = Summarize(lines)
	return s
}

func (a RemoveFromCart) apply(s State) State {
	s.Cart = Summarize(without(s.Cart.Items, a.ID))
	return s
}

func (a UpdateQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return RemoveFromCart{ID: a.ID}.apply(s)
	}

	lines := make([]CartLine, len(s.Cart.Items))
	for i, l := range s.Cart.Items {
		if l.ID == a.ID {
			l.Quantity = a.Quantity
		}
		lines[i] = l
	}

	s.Cart = Summarize(lines)
	return s
}

func (a SetCatalog) apply(s State) State {
	catalog := make([]Product, len(a.Products))
	for i, p := range a.Products {
		catalog[i] = normalizeProduct(p)
	}
	s.Catalog = catalog
	return s
}

// without returns a new slice of lines minus the one for id.
func without(lines []CartLine, id ProductID) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}
