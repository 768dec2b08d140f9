package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LISSConsulting/storefront/internal/session"
	"github.com/LISSConsulting/storefront/internal/storage"
)

func TestStore_DispatchPersistsUserAndCart(t *testing.T) {
	kv := storage.NewMemory()
	st := session.Open(kv, zerolog.Nop())

	st.Dispatch(session.SetUser{User: &session.User{Email: "ann@example.com", Name: "ann"}})
	st.Dispatch(session.AddToCart{Product: product(1, 10)})
	st.Dispatch(session.AddToCart{Product: product(1, 10)})

	// A fresh store over the same storage sees the same session.
	reopened := session.Open(kv, zerolog.Nop())
	got := reopened.State()
	require.NotNil(t, got.User)
	assert.Equal(t, "ann@example.com", got.User.Email)
	assert.Equal(t, 20.0, got.Cart.Total)
	assert.Equal(t, 2, got.Cart.ItemCount)
	assert.Empty(t, got.Catalog)
}

func TestStore_SetCatalogIsNotPersisted(t *testing.T) {
	kv := &failingKV{}
	st := session.NewStore(session.NewState(), kv, zerolog.Nop())

	st.Dispatch(session.SetCatalog{Products: []session.Product{product(1, 1)}})
	assert.Equal(t, 0, kv.sets)

	st.Dispatch(session.Logout{})
	assert.Equal(t, 2, kv.sets, "user and cart written once each")
}

func TestStore_PersistFailureDoesNotBlockUpdate(t *testing.T) {
	kv := &failingKV{setErr: errors.New("quota exceeded")}
	st := session.NewStore(session.NewState(), kv, zerolog.Nop())

	next := st.Dispatch(session.AddToCart{Product: product(1, 4)})
	assert.Equal(t, 1, next.Cart.ItemCount)
	assert.Equal(t, 1, st.State().Cart.ItemCount)
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	st := session.NewStore(session.NewState(), nil, zerolog.Nop())

	var changes []session.Change
	unsubscribe := st.Subscribe(func(c session.Change) { changes = append(changes, c) })

	st.Dispatch(session.AddToCart{Product: product(1, 3)})
	require.Len(t, changes, 1)
	assert.Equal(t, session.KindAddToCart, changes[0].Action.Kind())
	assert.Equal(t, 0, changes[0].Prev.Cart.ItemCount)
	assert.Equal(t, 1, changes[0].Next.Cart.ItemCount)

	unsubscribe()
	unsubscribe()
	st.Dispatch(session.AddToCart{Product: product(1, 3)})
	assert.Len(t, changes, 1)
}

func TestStore_ListenersRunInSubscriptionOrder(t *testing.T) {
	st := session.NewStore(session.NewState(), nil, zerolog.Nop())
	var order []string
	st.Subscribe(func(session.Change) { order = append(order, "first") })
	st.Subscribe(func(session.Change) { order = append(order, "second") })
	st.Subscribe(func(session.Change) { order = append(order, "third") })

	st.Dispatch(session.Logout{})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestStore_StateIsACopy(t *testing.T) {
	st := session.NewStore(session.NewState(), nil, zerolog.Nop())
	st.Dispatch(session.AddToCart{Product: product(1, 3)})

	s := st.State()
	s.Cart.Items[0].Quantity = 99
	s.Cart.Total = -1

	assert.Equal(t, 1, st.State().Cart.Items[0].Quantity)
	assert.Equal(t, 3.0, st.State().Cart.Total)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	st := session.NewStore(session.NewState(), storage.NewMemory(), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				st.Dispatch(session.AddToCart{Product: product(session.ProductID(i%4), 1.5)})
			}
		}(i)
	}
	wg.Wait()

	s := st.State()
	requireConsistent(t, s.Cart)
	assert.Equal(t, 500, s.Cart.ItemCount)
	assert.Len(t, s.Cart.Items, 4)
}

func TestLocalCart(t *testing.T) {
	ctx := context.Background()
	st := session.NewStore(session.NewState(), nil, zerolog.Nop())
	cs := session.NewLocalCart(st)

	_, _ = cs.Add(ctx, product(1, 5))
	_, _ = cs.Add(ctx, product(2, 2))
	cart, err := cs.SetQuantity(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 17.0, cart.Total)

	cart, err = session.Increment(ctx, cs, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.ItemCount)

	cart, err = session.Decrement(ctx, cs, 2)
	require.NoError(t, err)
	cart, err = session.Decrement(ctx, cs, 2)
	require.NoError(t, err)
	_, ok := cart.Line(2)
	assert.False(t, ok, "decrement at quantity 1 removes the line")

	cart, err = cs.SetQuantity(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, _ = cs.Add(ctx, product(3, 1))
	_, _ = cs.Add(ctx, product(4, 1))
	cart, err = cs.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.EmptyCart(), cart)

	cart, err = cs.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestIncrementDecrement_Concurrent(t *testing.T) {
	ctx := context.Background()
	cs := session.NewLocalCart(session.NewStore(session.NewState(), nil, zerolog.Nop()))
	_, _ = cs.Add(ctx, product(1, 1))
	_, _ = cs.Add(ctx, product(2, 1))
	_, _ = cs.SetQuantity(ctx, 2, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = session.Increment(ctx, cs, 1)
		}()
		go func() {
			defer wg.Done()
			_, _ = session.Decrement(ctx, cs, 2)
		}()
	}
	wg.Wait()

	cart, err := cs.Cart(ctx)
	require.NoError(t, err)
	l1, ok := cart.Line(1)
	require.True(t, ok)
	assert.Equal(t, 501, l1.Quantity)
	l2, ok := cart.Line(2)
	require.True(t, ok)
	assert.Equal(t, 500, l2.Quantity)
	requireConsistent(t, cart)
}

func TestStore_Update(t *testing.T) {
	st := session.NewStore(session.NewState(), storage.NewMemory(), zerolog.Nop())
	var kinds []session.Kind
	st.Subscribe(func(c session.Change) { kinds = append(kinds, c.Action.Kind()) })

	got := st.Update(func(s session.State) session.Action {
		assert.Empty(t, s.Cart.Items)
		return session.AddToCart{Product: product(1, 2)}
	})
	assert.Equal(t, 1, got.Cart.ItemCount)

	got = st.Update(func(session.State) session.Action { return nil })
	assert.Equal(t, 1, got.Cart.ItemCount)
	assert.Equal(t, []session.Kind{session.KindAddToCart}, kinds)
}

func TestIncrementDecrement_UnknownID(t *testing.T) {
	ctx := context.Background()
	cs := session.NewLocalCart(session.NewStore(session.NewState(), nil, zerolog.Nop()))
	_, _ = cs.Add(ctx, product(1, 1))

	cart, err := session.Increment(ctx, cs, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount)

	cart, err = session.Decrement(ctx, cs, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount)
}

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		userName string
		want     *session.User
		wantErr  bool
	}{
		{"name from email", "ann@example.com", "", &session.User{Email: "ann@example.com", Name: "ann"}, false},
		{"explicit name", " bob@example.com ", "Bob B", &session.User{Email: "bob@example.com", Name: "Bob B"}, false},
		{"empty", "", "", nil, true},
		{"no at", "annexample.com", "", nil, true},
		{"no dot", "ann@example", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := session.NewUser(tt.email, tt.userName)
			if tt.wantErr {
				assert.ErrorIs(t, err, session.ErrInvalidEmail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
