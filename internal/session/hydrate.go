package session

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Storage keys for the persisted parts of the state.
const (
	KeyUser = "user"
	KeyCart = "cart"
)

// KV is durable string-valued key/value storage.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key.
	Set(key, value string) error
}

// Hydrate builds the startup state from kv. A key that is absent,
// unreadable, or holds anything other than the expected object falls back
// to its default; nothing read from storage can make Hydrate fail. The
// catalog always starts empty.
func Hydrate(kv KV, log zerolog.Logger) State {
	s := NewState()
	if kv == nil {
		return s
	}

	if raw, ok := read(kv, KeyUser, log); ok {
		if u, valid := decodeUser([]byte(raw)); valid {
			s.User = u
		} else {
			log.Warn().Str("key", KeyUser).Msg("stored user is not an object; starting signed out")
		}
	}

	if raw, ok := read(kv, KeyCart, log); ok {
		if c, valid := decodeCart([]byte(raw)); valid {
			s.Cart = c
		} else {
			log.Warn().Str("key", KeyCart).Msg("stored cart is not an object; starting with an empty cart")
		}
	}

	return s
}

func read(kv KV, key string, log zerolog.Logger) (string, bool) {
	raw, ok, err := kv.Get(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("read stored session value")
		return "", false
	}
	return raw, ok
}

// Persist writes the user and cart of s to kv under KeyUser and KeyCart.
// A signed-out user is stored as null.
func Persist(kv KV, s State) error {
	user, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("session: marshal user: %w", err)
	}
	cart := s.Cart
	if cart.Items == nil {
		cart.Items = []CartLine{}
	}
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("session: marshal cart: %w", err)
	}

	if err := kv.Set(KeyUser, string(user)); err != nil {
		return fmt.Errorf("session: persist user: %w", err)
	}
	if err := kv.Set(KeyCart, string(cartJSON)); err != nil {
		return fmt.Errorf("session: persist cart: %w", err)
	}
	return nil
}
