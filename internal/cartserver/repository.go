// Package cartserver is a reference implementation of the remote cart
// service: POST /cart, PUT /cart/{id}, DELETE /cart/{id}, DELETE /cart and
// GET /cart over a single cart. It backs `storefront serve-cart` and the
// remote cart client's tests.
package cartserver

import (
	"context"
	"errors"
	"sync"

	"github.com/LISSConsulting/storefront/internal/session"
)

// ErrLineNotFound is returned when an operation names a line the cart does
// not hold.
var ErrLineNotFound = errors.New("cartserver: line not found")

// Repository stores the cart lines.
type Repository interface {
	// List returns the lines in insertion order.
	List(ctx context.Context) ([]session.CartLine, error)
	// Add inserts line, or adds its quantity to an existing line.
	Add(ctx context.Context, line session.CartLine) error
	SetQuantity(ctx context.Context, id session.ProductID, quantity int) error
	Remove(ctx context.Context, id session.ProductID) error
	Clear(ctx context.Context) error
}

// Memory is an in-process Repository.
type Memory struct {
	mu    sync.Mutex
	lines []session.CartLine
}

// NewMemory returns an empty cart.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) List(context.Context) ([]session.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]session.CartLine, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *Memory) Add(_ context.Context, line session.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		if m.lines[i].ID == line.ID {
			m.lines[i].Quantity += line.Quantity
			return nil
		}
	}
	m.lines = append(m.lines, line)
	return nil
}

func (m *Memory) SetQuantity(_ context.Context, id session.ProductID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		if m.lines[i].ID == id {
			m.lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

func (m *Memory) Remove(_ context.Context, id session.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		if m.lines[i].ID == id {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
	return nil
}
