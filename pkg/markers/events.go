package markers

// Event identifies a kind of marker change notification.
type Event int

const (
	EventPointAdded Event = iota
	EventPointModified
	EventPointRemoved
	EventLockModified
	EventDisplayModified
)

func (e Event) String() string {
	switch e {
	case EventPointAdded:
		return "point-added"
	case EventPointModified:
		return "point-modified"
	case EventPointRemoved:
		return "point-removed"
	case EventLockModified:
		return "lock-modified"
	case EventDisplayModified:
		return "display-modified"
	default:
		return "unknown"
	}
}

// Handler receives marker change notifications. Handlers run on the
// caller's goroutine; the store is single-threaded by contract.
type Handler func(m *Marker, ev Event)

type subscription struct {
	id      int
	handler Handler
	batched bool
}

// Subscribe registers an immediate change handler and returns a token
// for Unsubscribe. Immediate handlers run synchronously inside the write
// that caused the event, even within a batch region; they are expected
// to guard against their own cascading writes.
func (s *Store) Subscribe(h Handler) int {
	return s.subscribe(h, false)
}

// SubscribeBatched registers a handler whose delivery is deferred and
// coalesced inside BeginBatch/EndBatch regions: each (marker, event)
// pair is delivered at most once per batch, in first-occurrence order.
// Display consumers subscribe this way so a cascade of dependent writes
// renders once.
func (s *Store) SubscribeBatched(h Handler) int {
	return s.subscribe(h, true)
}

func (s *Store) subscribe(h Handler, batched bool) int {
	s.nextSubID++
	s.subs = append(s.subs, subscription{id: s.nextSubID, handler: h, batched: batched})
	return s.nextSubID
}

// Unsubscribe removes a previously registered handler.
func (s *Store) Unsubscribe(id int) {
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// BeginBatch opens a defer-notifications region for batched subscribers.
// Batches nest; the outermost EndBatch flushes.
func (s *Store) BeginBatch() {
	s.batchDepth++
}

// EndBatch closes a batch region, flushing coalesced events when the
// outermost batch ends.
func (s *Store) EndBatch() {
	if s.batchDepth == 0 {
		return
	}
	s.batchDepth--
	if s.batchDepth > 0 {
		return
	}
	pending := s.pending
	s.pending = nil
	s.pendingSeen = nil
	for _, p := range pending {
		s.dispatch(p.marker, p.event, true)
	}
}

type pendingEvent struct {
	marker *Marker
	event  Event
}

type pendingKey struct {
	marker *Marker
	event  Event
}

func (s *Store) emit(m *Marker, ev Event) {
	s.dispatch(m, ev, false)
	if s.batchDepth == 0 {
		s.dispatch(m, ev, true)
		return
	}
	key := pendingKey{marker: m, event: ev}
	if s.pendingSeen == nil {
		s.pendingSeen = make(map[pendingKey]bool)
	}
	if s.pendingSeen[key] {
		return
	}
	s.pendingSeen[key] = true
	s.pending = append(s.pending, pendingEvent{marker: m, event: ev})
}

func (s *Store) dispatch(m *Marker, ev Event, batched bool) {
	// Copy: a handler may subscribe or unsubscribe while running.
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		if sub.batched == batched {
			sub.handler(m, ev)
		}
	}
}
