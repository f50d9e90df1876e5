package checkout

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
	orderrepo "heven-store/internal/repository/order"
)

var (
	// ErrEmptyCart is returned when checkout finds nothing to purchase.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition is returned for a disallowed status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Service turns a validated cart into an immutable order. Everything the
// order records is snapshotted at this moment; later catalog edits never
// reach back into it.
type Service struct {
	items   itemRepo
	coupons couponRepo
	orders  orderRepo
	tracker *cache.Tracker
	cfg     pricing.Config
	now     func() time.Time
}

type itemRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Order, error)
	GetAnyByID(ctx context.Context, id string) (*domain.Order, error)
	SetStatusIf(ctx context.Context, id string, from, to domain.OrderStatus) error
	Metrics(ctx context.Context) (*orderrepo.Metrics, error)
}

func New(items cartitemrepo.Repository, coupons couponrepo.Repository, orders orderrepo.Repository, tracker *cache.Tracker, cfg pricing.Config) *Service {
	return &Service{
		items:   items,
		coupons: coupons,
		orders:  orders,
		tracker: tracker,
		cfg:     cfg,
		now:     time.Now,
	}
}

type CheckoutInput struct {
	CouponCode      *string              `json:"couponCode,omitempty"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	ShippingAddress *domain.Address      `json:"shippingAddress,omitempty"`
	BillingAddress  *domain.Address      `json:"billingAddress,omitempty"`
}

// Checkout prices the full cart and persists the order atomically. It does
// not partially succeed: any stale product, short stock or inapplicable
// coupon fails the whole call and leaves cart and orders untouched.
func (s *Service) Checkout(ctx context.Context, userID string, in CheckoutInput) (*domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if !in.PaymentMethod.Valid() {
		return nil, errors.New("unsupported payment method")
	}

	lines, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Step 1: re-validate every line against the live catalog.
	priced := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		if !l.Product.IsActive {
			return nil, fmt.Errorf("%w: %s is no longer available", domain.ErrInsufficientStock, l.Product.Name)
		}
		if l.Product.StockQuantity < l.Item.Quantity {
			return nil, fmt.Errorf("%w: %s has %d left", domain.ErrInsufficientStock, l.Product.Name, l.Product.StockQuantity)
		}
		priced = append(priced, pricing.Line{Quantity: l.Item.Quantity, UnitPriceCents: l.Product.UnitPriceCents()})
	}

	// Step 2: re-validate the coupon against the fresh subtotal. An
	// inapplicable coupon fails checkout instead of silently dropping the
	// discount.
	var coupon *domain.Coupon
	if in.CouponCode != nil && *in.CouponCode != "" {
		coupon, err = s.coupons.GetByCode(ctx, *in.CouponCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown code %s", domain.ErrCouponInvalid, *in.CouponCode)
			}
			return nil, err
		}
	}

	totals, err := pricing.Quote(priced, coupon, s.now(), s.cfg)
	if err != nil {
		return nil, err
	}

	// Steps 3-5: snapshot the lines and persist order + items + coupon
	// redemption + cart clear as one transaction.
	order := domain.Order{
		UserID:          userID,
		SubtotalCents:   totals.SubtotalCents,
		DiscountCents:   totals.DiscountCents,
		ShippingCents:   totals.ShippingCents,
		TaxCents:        totals.TaxCents,
		TotalCents:      totals.TotalCents,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
	}
	var couponID *string
	if coupon != nil {
		order.CouponCode = &coupon.Code
		couponID = &coupon.ID
	}

	items := make([]domain.OrderItem, 0, len(lines))
	cartItemIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		productID := l.Product.ID
		unit := l.Product.UnitPriceCents()
		items = append(items, domain.OrderItem{
			ProductID:       &productID,
			ProductName:     l.Product.Name,
			ProductSKU:      l.Product.SKU,
			Quantity:        l.Item.Quantity,
			Size:            l.Item.Size,
			Color:           l.Item.Color,
			UnitPriceCents:  unit,
			TotalPriceCents: unit * int64(l.Item.Quantity),
		})
		cartItemIDs = append(cartItemIDs, l.Item.ID)
	}

	created, err := s.orders.Create(ctx, orderrepo.CreateInput{
		Order:       order,
		Items:       items,
		CouponID:    couponID,
		CartItemIDs: cartItemIDs,
	})
	if err != nil {
		return nil, err
	}

	s.tracker.Invalidate(userID, cache.Cart, cache.Orders)
	return created, nil
}

func (s *Service) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.tracker.MarkFresh(userID, cache.Orders)
	return orders, nil
}

func (s *Service) Order(ctx context.Context, userID, id string) (*domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.orders.GetByID(ctx, userID, id)
}

// UpdateStatus advances an order along the status machine. The repository
// applies the change only while the order is still in the observed status,
// so a raced transition fails instead of jumping states.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	current, err := s.orders.GetAnyByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}
	if err := s.orders.SetStatusIf(ctx, orderID, current.Status, next); err != nil {
		return nil, err
	}
	s.tracker.Invalidate(current.UserID, cache.Orders)
	current.Status = next
	return current, nil
}

func (s *Service) Metrics(ctx context.Context) (*orderrepo.Metrics, error) {
	return s.orders.Metrics(ctx)
}
