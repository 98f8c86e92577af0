package markers

import "fmt"

// Store is the scene collection of markers. It owns marker lifetime and
// delivers change notifications. All access is single-threaded: mutation
// happens synchronously inside reactions to change events.
type Store struct {
	byName map[string]*Marker
	order  []*Marker

	subs        []subscription
	nextSubID   int
	batchDepth  int
	pending     []pendingEvent
	pendingSeen map[pendingKey]bool
}

// NewStore creates an empty marker store.
func NewStore() *Store {
	return &Store{byName: make(map[string]*Marker)}
}

// ResolveByName returns the marker with the given name, or nil.
func (s *Store) ResolveByName(name string) *Marker {
	return s.byName[name]
}

// Create adds a new marker with the given name and type. The name must be
// unused; name is the sole identity key within a store.
func (s *Store) Create(name string, typ Type) (*Marker, error) {
	if _, exists := s.byName[name]; exists {
		return nil, fmt.Errorf("markers: %q already exists", name)
	}
	m := newMarker(name, typ, s)
	s.byName[name] = m
	s.order = append(s.order, m)
	return m, nil
}

// Remove deletes the named marker from the store. Reference edges held by
// other markers are left to their owners; the store never follows them.
func (s *Store) Remove(name string) {
	m, ok := s.byName[name]
	if !ok {
		return
	}
	delete(s.byName, name)
	for i, o := range s.order {
		if o == m {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns the markers in creation order.
func (s *Store) All() []*Marker {
	out := make([]*Marker, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of markers in the store.
func (s *Store) Len() int { return len(s.order) }
