package coupon

import (
	"context"

	"heven-store/internal/domain"
)

type Repository interface {
	// GetByCode looks a coupon up by its case-sensitive code.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}
