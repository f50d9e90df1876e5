package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heven-store/internal/cache"
	"heven-store/internal/domain"
	"heven-store/internal/pricing"
	cartitemrepo "heven-store/internal/repository/cartitem"
	couponrepo "heven-store/internal/repository/coupon"
	productrepo "heven-store/internal/repository/product"
)

// Service is the cart aggregate: it validates mutations against the live
// catalog and derives totals from a freshly loaded snapshot every time.
type Service struct {
	items    itemRepo
	products productRepo
	coupons  couponRepo
	tracker  *cache.Tracker
	cfg      pricing.Config
	now      func() time.Time
}

type itemRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	Upsert(ctx context.Context, item domain.CartItem) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Delete(ctx context.Context, userID, itemID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

func New(items cartitemrepo.Repository, products productrepo.Repository, coupons couponrepo.Repository, tracker *cache.Tracker, cfg pricing.Config) *Service {
	return &Service{
		items:    items,
		products: products,
		coupons:  coupons,
		tracker:  tracker,
		cfg:      cfg,
		now:      time.Now,
	}
}

type AddInput struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

// Totals is the priced cart view. Lines whose product is inactive or out of
// stock are excluded from the amounts and listed for a UI warning; the user
// removes them explicitly.
type Totals struct {
	pricing.Totals
	ItemCount   int               `json:"itemCount"`
	Unavailable []domain.CartLine `json:"unavailable,omitempty"`
}

// Add upserts a cart item keyed by (user, product, size, color), adding to
// the quantity when the combination already exists.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.CartItem, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if in.ProductID == "" {
		return nil, errors.New("productId required")
	}
	if in.Quantity < 0 {
		return nil, errors.New("quantity must be positive")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.ErrNotFound
	}
	if product.StockQuantity == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrOutOfStock, product.Name)
	}

	item, err := s.items.Upsert(ctx, domain.CartItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Size:      in.Size,
		Color:     in.Color,
	})
	if err != nil {
		return nil, err
	}
	s.tracker.Invalidate(userID, cache.Cart)
	return item, nil
}

// UpdateQuantity sets an item's quantity, clamped to a minimum of 1. Removal
// goes through Remove, never through a zero quantity.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if quantity < 1 {
		quantity = 1
	}
	if err := s.items.UpdateQuantity(ctx, userID, itemID, quantity); err != nil {
		return err
	}
	s.tracker.Invalidate(userID, cache.Cart)
	return nil
}

// Remove deletes an item. It is idempotent: removing an absent item reports
// found=false instead of failing.
func (s *Service) Remove(ctx context.Context, userID, itemID string) (found bool, err error) {
	if userID == "" {
		return false, domain.ErrUnauthenticated
	}
	if err := s.items.Delete(ctx, userID, itemID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	s.tracker.Invalidate(userID, cache.Cart)
	return true, nil
}

// Lines returns the user's cart joined with live product data.
func (s *Service) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	lines, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.tracker.MarkFresh(userID, cache.Cart)
	return lines, nil
}

// ComputeTotals re-reads the cart and prices it. Totals are always derived
// from a fresh snapshot, never patched incrementally, so the displayed
// amounts cannot drift from persisted state.
func (s *Service) ComputeTotals(ctx context.Context, userID, couponCode string) (*Totals, error) {
	lines, err := s.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &Totals{}
	var priced []pricing.Line
	for _, l := range lines {
		if !l.Available() {
			out.Unavailable = append(out.Unavailable, l)
			continue
		}
		priced = append(priced, pricing.Line{Quantity: l.Item.Quantity, UnitPriceCents: l.Product.UnitPriceCents()})
		out.ItemCount += l.Item.Quantity
	}

	var coupon *domain.Coupon
	if couponCode != "" {
		coupon, err = s.coupons.GetByCode(ctx, couponCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown code %s", domain.ErrCouponInvalid, couponCode)
			}
			return nil, err
		}
	}

	totals, err := pricing.Quote(priced, coupon, s.now(), s.cfg)
	if err != nil {
		return nil, err
	}
	out.Totals = totals
	return out, nil
}
