package category

import (
	"context"

	"heven-store/internal/domain"
)

type Repository interface {
	// ListActive returns active categories ordered by name.
	ListActive(ctx context.Context) ([]domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
