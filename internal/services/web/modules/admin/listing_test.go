package admin

import (
	"testing"
	"time"

	"github.com/studentreg/web/internal/services/web/session"
)

func TestListingsOnlyLatestTicketCommits(t *testing.T) {
	t.Parallel()

	l := NewListings()
	first := l.Begin("s")
	second := l.Begin("s")
	if !l.Commit(second, Listing{Page: 2}) {
		t.Fatal("latest ticket should commit")
	}
	if l.Commit(first, Listing{Page: 1}) {
		t.Fatal("stale ticket must not commit")
	}
	got, ok := l.Current("s")
	if !ok || got.Page != 2 {
		t.Fatalf("Current() = %+v, %v; want page 2", got, ok)
	}
}

func TestListingsStaleResponseArrivingFirstIsDropped(t *testing.T) {
	t.Parallel()

	l := NewListings()
	first := l.Begin("s")
	second := l.Begin("s")
	if l.Commit(first, Listing{Page: 1}) {
		t.Fatal("superseded ticket must not commit")
	}
	if _, ok := l.Current("s"); ok {
		t.Fatal("nothing should be committed yet")
	}
	if !l.Commit(second, Listing{Page: 3}) {
		t.Fatal("latest ticket should commit")
	}
}

func TestListingsAreIsolatedPerSession(t *testing.T) {
	t.Parallel()

	l := NewListings()
	a := l.Begin("a")
	b := l.Begin("b")
	if !l.Commit(a, Listing{Page: 1}) || !l.Commit(b, Listing{Page: 4}) {
		t.Fatal("independent sessions should both commit")
	}
	if got, _ := l.Current("a"); got.Page != 1 {
		t.Fatalf("a page = %d, want 1", got.Page)
	}
}

func TestListingsIgnoreAnonymousRequests(t *testing.T) {
	t.Parallel()

	l := NewListings()
	if l.Commit(l.Begin(""), Listing{Page: 1}) {
		t.Fatal("anonymous ticket must not commit")
	}
	if l.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", l.Len())
	}
}

func TestListingsDroppedWhenSessionEnds(t *testing.T) {
	t.Parallel()

	l := NewListings()
	for _, id := range []string{"in", "out", "expired", "invalid"} {
		l.Commit(l.Begin(id), Listing{Page: 1})
	}
	pending := l.Begin("out")

	l.HandleSessionEvent(session.Event{Kind: session.EventSignedIn, SessionID: "in"})
	l.HandleSessionEvent(session.Event{Kind: session.EventSignedOut, SessionID: "out"})
	l.HandleSessionEvent(session.Event{Kind: session.EventExpired, SessionID: "expired"})
	l.HandleSessionEvent(session.Event{Kind: session.EventInvalid, SessionID: "invalid"})

	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	if _, ok := l.Current("in"); !ok {
		t.Fatal("signed-in session should keep its listing")
	}
	if l.Commit(pending, Listing{Page: 2}) {
		t.Fatal("request issued before sign-out must not commit")
	}
}

func TestListingsEvictIdleSessionsWithoutEndEvents(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	l := NewListings(WithClock(func() time.Time { return now }), WithIdleTTL(24*time.Hour))
	l.Commit(l.Begin("abandoned"), Listing{Page: 1})

	now = now.Add(12 * time.Hour)
	l.Commit(l.Begin("active"), Listing{Page: 2})

	now = now.Add(13 * time.Hour)
	l.Begin("active")

	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	if _, ok := l.Current("abandoned"); ok {
		t.Fatal("idle session state should be evicted")
	}
	if _, ok := l.Current("active"); !ok {
		t.Fatal("recently used session should keep its listing")
	}
}

func TestListingsPruneRemovesStateOlderThanCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	l := NewListings(WithClock(func() time.Time { return now }))
	l.Begin("old")
	now = now.Add(time.Hour)
	l.Begin("new")

	if removed := l.Prune(now.Add(-30 * time.Minute)); removed != 1 {
		t.Fatalf("Prune() = %d, want 1", removed)
	}
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
}
