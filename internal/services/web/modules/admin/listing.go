package admin

import (
	"sync"
	"time"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/session"
)

// Listing is one fetched dashboard page.
type Listing struct {
	Page       int
	TotalPages int
	Users      []backend.User
	Err        error
}

// Ticket identifies one issued listing request.
type Ticket struct {
	sessionID string
	seq       uint64
}

// Listings keeps the dashboard view state of every admin session. Each list
// request takes a ticket from Begin; only the most recently issued ticket of
// a session may commit its result.
//
// Sessions can expire in the store without ever publishing an end event, so
// state untouched for longer than the idle TTL is evicted by Begin.
type Listings struct {
	mu        sync.Mutex
	states    map[string]*listingState
	now       func() time.Time
	idleTTL   time.Duration
	lastSweep time.Time
}

type listingState struct {
	issued  uint64
	current Listing
	has     bool
	touched time.Time
}

// DefaultListingIdleTTL bounds how long an untouched session state is kept.
const DefaultListingIdleTTL = 24 * time.Hour

// ListingsOption customizes Listings.
type ListingsOption func(*Listings)

// WithClock replaces the clock used to stamp session state.
func WithClock(now func() time.Time) ListingsOption {
	return func(l *Listings) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIdleTTL replaces DefaultListingIdleTTL.
func WithIdleTTL(ttl time.Duration) ListingsOption {
	return func(l *Listings) {
		if ttl > 0 {
			l.idleTTL = ttl
		}
	}
}

// NewListings returns an empty state registry.
func NewListings(opts ...ListingsOption) *Listings {
	l := &Listings{
		states:  map[string]*listingState{},
		now:     time.Now,
		idleTTL: DefaultListingIdleTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Begin issues the next ticket for sessionID.
func (l *Listings) Begin(sessionID string) Ticket {
	if sessionID == "" {
		return Ticket{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.sweepLocked(now)
	state, ok := l.states[sessionID]
	if !ok {
		state = &listingState{}
		l.states[sessionID] = state
	}
	state.issued++
	state.touched = now
	return Ticket{sessionID: sessionID, seq: state.issued}
}

// Prune drops every state untouched since before cutoff and returns how many
// were removed.
func (l *Listings) Prune(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pruneLocked(cutoff)
}

// sweepLocked prunes at most once per sweep interval.
func (l *Listings) sweepLocked(now time.Time) {
	interval := l.idleTTL / 24
	if !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < interval {
		return
	}
	l.lastSweep = now
	l.pruneLocked(now.Add(-l.idleTTL))
}

func (l *Listings) pruneLocked(cutoff time.Time) int {
	removed := 0
	for id, state := range l.states {
		if state.touched.Before(cutoff) {
			delete(l.states, id)
			removed++
		}
	}
	return removed
}

// Commit stores listing when t is still the latest ticket of its session and
// reports whether it did.
func (l *Listings) Commit(t Ticket, listing Listing) bool {
	if t.sessionID == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	state, ok := l.states[t.sessionID]
	if !ok || state.issued != t.seq {
		return false
	}
	state.current = listing
	state.has = true
	state.touched = l.now()
	return true
}

// Current returns the committed listing of sessionID.
func (l *Listings) Current(sessionID string) (Listing, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	state, ok := l.states[sessionID]
	if !ok || !state.has {
		return Listing{}, false
	}
	state.touched = l.now()
	return state.current, true
}

// Forget drops the state of sessionID.
func (l *Listings) Forget(sessionID string) {
	l.mu.Lock()
	delete(l.states, sessionID)
	l.mu.Unlock()
}

// Len returns the number of tracked sessions.
func (l *Listings) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.states)
}

// HandleSessionEvent drops the state of sessions that ended.
func (l *Listings) HandleSessionEvent(event session.Event) {
	if event.Ended() {
		l.Forget(event.SessionID)
	}
}
