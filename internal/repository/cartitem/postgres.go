package cartitem

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"heven-store/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
SELECT ci.id::text, ci.user_id::text, ci.product_id::text, ci.quantity, ci.size, ci.color, ci.created_at,
       p.id::text, p.category_id::text, p.name, p.sku, p.description, p.price_cents, p.discount_price_cents,
       p.stock_quantity, p.sizes, p.colors, p.featured, p.is_active, p.created_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(
			&l.Item.ID,
			&l.Item.UserID,
			&l.Item.ProductID,
			&l.Item.Quantity,
			&l.Item.Size,
			&l.Item.Color,
			&l.Item.CreatedAt,
			&l.Product.ID,
			&l.Product.CategoryID,
			&l.Product.Name,
			&l.Product.SKU,
			&l.Product.Description,
			&l.Product.PriceCents,
			&l.Product.DiscountPriceCents,
			&l.Product.StockQuantity,
			&l.Product.Sizes,
			&l.Product.Colors,
			&l.Product.Featured,
			&l.Product.IsActive,
			&l.Product.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
	// The unique index on (user_id, product_id, COALESCE(size, ''),
	// COALESCE(color, '')) resolves concurrent adds by summing quantities.
	const q = `
INSERT INTO cart_items (user_id, product_id, quantity, size, color)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, product_id, COALESCE(size, ''), COALESCE(color, ''))
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id::text, user_id::text, product_id::text, quantity, size, color, created_at
`
	var out domain.CartItem
	if err := r.pool.QueryRow(ctx, q, item.UserID, item.ProductID, item.Quantity, item.Size, item.Color).Scan(
		&out.ID,
		&out.UserID,
		&out.ProductID,
		&out.Quantity,
		&out.Size,
		&out.Color,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	const q = `
UPDATE cart_items
SET quantity = $1
WHERE id = $2 AND user_id = $3
`
	cmd, err := r.pool.Exec(ctx, q, quantity, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, itemID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
