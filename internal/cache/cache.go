// Package cache implements the invalidate-and-refetch contract that keeps
// per-user cached views consistent after a mutation. Mutating services mark a
// collection stale only after the write succeeds; readers holding a snapshot
// recompute it, never patch it, when the collection is stale.
package cache

import "sync"

// Collection names a per-user cached view.
type Collection string

const (
	Cart     Collection = "cart"
	Wishlist Collection = "wishlist"
	Orders   Collection = "orders"
	Profile  Collection = "profile"
)

type key struct {
	userID     string
	collection Collection
}

// Tracker records which (user, collection) views are stale. The zero value is
// not usable; use NewTracker.
type Tracker struct {
	mu    sync.Mutex
	stale map[key]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{stale: make(map[key]struct{})}
}

// Invalidate marks the given collections stale for the user.
func (t *Tracker) Invalidate(userID string, collections ...Collection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range collections {
		t.stale[key{userID: userID, collection: c}] = struct{}{}
	}
}

// MarkFresh records that the user's collection was just re-fetched.
func (t *Tracker) MarkFresh(userID string, c Collection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.stale, key{userID: userID, collection: c})
}

// IsStale reports whether the user's collection was invalidated since the
// last MarkFresh.
func (t *Tracker) IsStale(userID string, c Collection) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.stale[key{userID: userID, collection: c}]
	return ok
}

// DropUser forgets all state for the user, used on sign-out.
func (t *Tracker) DropUser(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.stale {
		if k.userID == userID {
			delete(t.stale, k)
		}
	}
}
