package coupon

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heven-store/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const q = `
SELECT id::text, code, description, discount_type, discount_value, min_order_cents, max_discount_cents,
       valid_from, valid_until, usage_limit, used_count, is_active, created_at
FROM coupons
WHERE code = $1
`
	var c domain.Coupon
	var discountType string
	if err := r.pool.QueryRow(ctx, q, code).Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&discountType,
		&c.DiscountValue,
		&c.MinOrderCents,
		&c.MaxDiscountCents,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.UsageLimit,
		&c.UsedCount,
		&c.IsActive,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.DiscountType = domain.DiscountType(discountType)
	return &c, nil
}
