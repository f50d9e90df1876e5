package wishlist

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	const q = `
SELECT wi.id::text, wi.user_id::text, wi.product_id::text, wi.created_at,
       p.id::text, p.category_id::text, p.name, p.sku, p.description, p.price_cents, p.discount_price_cents,
       p.stock_quantity, p.sizes, p.colors, p.featured, p.is_active, p.created_at
FROM wishlist_items wi
JOIN products p ON p.id = wi.product_id
WHERE wi.user_id = $1
ORDER BY wi.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.Item.ID,
			&e.Item.UserID,
			&e.Item.ProductID,
			&e.Item.CreatedAt,
			&e.Product.ID,
			&e.Product.CategoryID,
			&e.Product.Name,
			&e.Product.SKU,
			&e.Product.Description,
			&e.Product.PriceCents,
			&e.Product.DiscountPriceCents,
			&e.Product.StockQuantity,
			&e.Product.Sizes,
			&e.Product.Colors,
			&e.Product.Featured,
			&e.Product.IsActive,
			&e.Product.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Add(ctx context.Context, userID, productID string) (bool, error) {
	const q = `
INSERT INTO wishlist_items (user_id, product_id)
VALUES ($1, $2)
ON CONFLICT (user_id, product_id) DO NOTHING
`
	cmd, err := r.pool.Exec(ctx, q, userID, productID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
