package cartitem

import (
	"context"

	"heven-store/internal/domain"
)

type Repository interface {
	// ListByUser returns the user's cart items joined with their live
	// product records, oldest first.
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	// Upsert inserts the item or, when the (user, product, size, color)
	// combination already exists, adds the quantity to the existing row.
	Upsert(ctx context.Context, item domain.CartItem) (*domain.CartItem, error)
	// UpdateQuantity sets the quantity of the caller's item. Returns
	// domain.ErrNotFound when the item does not belong to the user.
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	// Delete removes the caller's item. Returns domain.ErrNotFound when no
	// row was deleted.
	Delete(ctx context.Context, userID, itemID string) error
}
