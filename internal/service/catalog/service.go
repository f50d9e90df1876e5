package catalog

import (
	"context"
	"errors"
	"strings"

	"heven-store/internal/domain"
	categoryrepo "heven-store/internal/repository/category"
	productrepo "heven-store/internal/repository/product"
)

// Service exposes the read side of the catalog plus the back-office product
// upsert. The storefront never sees inactive products.
type Service struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
}

func New(products productrepo.Repository, categories categoryrepo.Repository) *Service {
	return &Service{products: products, categories: categories}
}

func (s *Service) List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListActive(ctx)
}

// UpsertProduct validates and saves a product, keyed by SKU.
func (s *Service) UpsertProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("name required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return nil, errors.New("sku required")
	}
	if p.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}
	if p.DiscountPriceCents != nil && (*p.DiscountPriceCents < 0 || *p.DiscountPriceCents >= p.PriceCents) {
		return nil, errors.New("discount price must be below the base price")
	}
	if p.StockQuantity < 0 {
		return nil, errors.New("stock must not be negative")
	}
	return s.products.Upsert(ctx, p)
}
