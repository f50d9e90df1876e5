package category

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

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id::text, name, slug, is_active, created_at
FROM categories
WHERE is_active
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, slug, is_active)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, is_active = EXCLUDED.is_active
RETURNING id::text, name, slug, is_active, created_at
`
	var out domain.Category
	if err := r.pool.QueryRow(ctx, q, c.Name, c.Slug, c.IsActive).Scan(
		&out.ID, &out.Name, &out.Slug, &out.IsActive, &out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
