package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heven-store/internal/domain"
)

const productColumns = `id::text, category_id::text, name, sku, description, price_cents, discount_price_cents,
       stock_quantity, sizes, colors, featured, is_active, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE is_active
`
	args := []interface{}{}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		q += fmt.Sprintf(" AND featured = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		q += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	q += `
ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (category_id, name, sku, description, price_cents, discount_price_cents,
                      stock_quantity, sizes, colors, featured, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (sku) DO UPDATE SET
    category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    discount_price_cents = EXCLUDED.discount_price_cents,
    stock_quantity = EXCLUDED.stock_quantity,
    sizes = EXCLUDED.sizes,
    colors = EXCLUDED.colors,
    featured = EXCLUDED.featured,
    is_active = EXCLUDED.is_active
RETURNING ` + productColumns + `
`
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	return scanProduct(r.pool.QueryRow(ctx, q,
		p.CategoryID, p.Name, p.SKU, p.Description, p.PriceCents, p.DiscountPriceCents,
		p.StockQuantity, sizes, colors, p.Featured, p.IsActive,
	))
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.SKU,
		&p.Description,
		&p.PriceCents,
		&p.DiscountPriceCents,
		&p.StockQuantity,
		&p.Sizes,
		&p.Colors,
		&p.Featured,
		&p.IsActive,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
