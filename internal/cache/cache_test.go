package cache

import "testing"

func TestTrackerInvalidateAndMarkFresh(t *testing.T) {
	tr := NewTracker()

	if tr.IsStale("u1", Cart) {
		t.Fatalf("untracked collection should not be stale")
	}

	tr.Invalidate("u1", Cart, Orders)
	if !tr.IsStale("u1", Cart) || !tr.IsStale("u1", Orders) {
		t.Fatalf("expected cart and orders stale after invalidation")
	}
	if tr.IsStale("u1", Wishlist) {
		t.Fatalf("wishlist was not invalidated")
	}
	if tr.IsStale("u2", Cart) {
		t.Fatalf("staleness must be scoped per user")
	}

	tr.MarkFresh("u1", Cart)
	if tr.IsStale("u1", Cart) {
		t.Fatalf("cart should be fresh after MarkFresh")
	}
	if !tr.IsStale("u1", Orders) {
		t.Fatalf("orders should stay stale")
	}
}

func TestTrackerDropUser(t *testing.T) {
	tr := NewTracker()
	tr.Invalidate("u1", Cart, Wishlist)
	tr.Invalidate("u2", Cart)

	tr.DropUser("u1")
	if tr.IsStale("u1", Cart) || tr.IsStale("u1", Wishlist) {
		t.Fatalf("u1 state should be gone")
	}
	if !tr.IsStale("u2", Cart) {
		t.Fatalf("u2 state must survive")
	}
}
