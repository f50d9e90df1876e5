package product

import (
	"context"

	"heven-store/internal/domain"
)

// ListFilter narrows List to the subsets the storefront pages request.
// Only active products are ever listed.
type ListFilter struct {
	Featured   *bool
	CategoryID *string
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
