package session

import (
	"sync"

	"github.com/rs/zerolog"
)

// Change describes one applied action. Listeners receive it after the new
// state is in place.
type Change struct {
	Action Action
	Prev   State
	Next   State
}

// Listener is notified of every dispatched action.
type Listener func(Change)

// Store owns the session state. All mutation goes through Dispatch, which
// serialises actions so each one is applied atomically with respect to the
// others.
//
// Listeners run synchronously inside Dispatch while the store is locked.
// They must not call Dispatch or unsubscribe; hand the change off to a
// channel or goroutine instead.
type Store struct {
	mu        sync.Mutex
	state     State
	kv        KV
	log       zerolog.Logger
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store starting from initial. kv may be nil, in which
// case nothing is persisted.
func NewStore(initial State, kv KV, log zerolog.Logger) *Store {
	return &Store{
		state:     initial.Clone(),
		kv:        kv,
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// Open hydrates a store from kv.
func Open(kv KV, log zerolog.Logger) *Store {
	return NewStore(Hydrate(kv, log), kv, log)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a, notifies listeners, and persists the user and cart
// when a touches them. A persistence failure is logged and does not undo
// the in-memory update. It returns a copy of the new state.
func (s *Store) Dispatch(a Action) State {
	if a == nil {
		return s.State()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatchLocked(a)
	return s.state.Clone()
}

// Update calls decide with the current state and dispatches the action it
// returns, all under one lock, so no other dispatch can run in between. A
// nil action leaves the state unchanged. decide must not call back into the
// store.
func (s *Store) Update(decide func(State) Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := decide(s.state.Clone()); a != nil {
		s.dispatchLocked(a)
	}
	return s.state.Clone()
}

func (s *Store) dispatchLocked(a Action) {
	prev := s.state
	s.state = Apply(prev, a)

	if len(s.listeners) > 0 {
		change := Change{Action: a, Prev: prev.Clone(), Next: s.state.Clone()}
		for _, id := range s.listenerIDs() {
			s.listeners[id](change)
		}
	}

	if s.kv != nil && a.Kind().TouchesSession() {
		if err := Persist(s.kv, s.state); err != nil {
			s.log.Warn().Err(err).Str("action", a.Kind().String()).Msg("persist session")
		}
	}
}

// Subscribe registers fn for change notifications and returns a func that
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// listenerIDs returns listener ids in subscription order.
func (s *Store) listenerIDs() []int {
	ids := make([]int, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if _, ok := s.listeners[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
