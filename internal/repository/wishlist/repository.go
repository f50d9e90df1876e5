package wishlist

import (
	"context"

	"heven-store/internal/domain"
)

// Entry is a wishlist item joined with its product record, so listing the
// wishlist never issues per-card product lookups.
type Entry struct {
	Item    domain.WishlistItem `json:"item"`
	Product domain.Product      `json:"product"`
}

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	// Add inserts the (user, product) pair. Adding an existing pair is a
	// no-op; the returned flag reports whether a row was created.
	Add(ctx context.Context, userID, productID string) (bool, error)
	// Remove deletes the pair; removing an absent pair is a no-op. The
	// returned flag reports whether a row was deleted.
	Remove(ctx context.Context, userID, productID string) (bool, error)
}
