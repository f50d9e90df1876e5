package order

import (
	"context"

	"heven-store/internal/domain"
)

// CreateInput is everything checkout persists as one atomic unit: the order,
// its item snapshots, the coupon redemption and the purchased cart rows.
type CreateInput struct {
	Order       domain.Order
	Items       []domain.OrderItem
	CouponID    *string
	CartItemIDs []string
}

// Metrics aggregates the numbers the admin dashboard shows.
type Metrics struct {
	TotalOrders  int                        `json:"totalOrders"`
	RevenueCents int64                      `json:"revenueCents"`
	ByStatus     map[domain.OrderStatus]int `json:"byStatus"`
}

type Repository interface {
	// Create persists the order and its items in a single transaction,
	// generating the order number, bumping the coupon usage count and
	// clearing the purchased cart items. On any failure nothing is visible.
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// GetByID returns the order only when it belongs to userID.
	GetByID(ctx context.Context, userID, id string) (*domain.Order, error)
	// GetAnyByID looks an order up without an ownership check, for the
	// admin surface.
	GetAnyByID(ctx context.Context, id string) (*domain.Order, error)
	// SetStatusIf moves the order from one status to another; it returns
	// domain.ErrNotFound when the order is no longer in the from status.
	SetStatusIf(ctx context.Context, id string, from, to domain.OrderStatus) error
	Metrics(ctx context.Context) (*Metrics, error)
}
