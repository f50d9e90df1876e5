package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"heven-store/internal/cache"
	"heven-store/internal/domain"
	"heven-store/internal/pricing"
	orderrepo "heven-store/internal/repository/order"
)

type stubItemRepo struct {
	lines []domain.CartLine
	err   error
}

func (s *stubItemRepo) ListByUser(_ context.Context, _ string) ([]domain.CartLine, error) {
	return s.lines, s.err
}

type stubCouponRepo struct {
	coupon *domain.Coupon
}

func (s *stubCouponRepo) GetByCode(_ context.Context, _ string) (*domain.Coupon, error) {
	if s.coupon == nil {
		return nil, domain.ErrNotFound
	}
	return s.coupon, nil
}

type stubOrderRepo struct {
	created     *orderrepo.CreateInput
	createErr   error
	order       *domain.Order
	getErr      error
	statusErr   error
	lastFrom    domain.OrderStatus
	lastTo      domain.OrderStatus
	statusCalls int
}

func (s *stubOrderRepo) Create(_ context.Context, in orderrepo.CreateInput) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &in
	out := in.Order
	out.ID = "order-1"
	out.OrderNumber = "ORD-20260901-000001"
	out.Status = domain.OrderPending
	out.Items = in.Items
	return &out, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []domain.Order{*s.order}, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, _, _ string) (*domain.Order, error) {
	if s.order == nil {
		return nil, domain.ErrNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) GetAnyByID(_ context.Context, _ string) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.order == nil {
		return nil, domain.ErrNotFound
	}
	cp := *s.order
	return &cp, nil
}

func (s *stubOrderRepo) SetStatusIf(_ context.Context, _ string, from, to domain.OrderStatus) error {
	s.statusCalls++
	s.lastFrom = from
	s.lastTo = to
	return s.statusErr
}

func (s *stubOrderRepo) Metrics(_ context.Context) (*orderrepo.Metrics, error) {
	return &orderrepo.Metrics{}, nil
}

func testConfig() pricing.Config {
	return pricing.Config{
		ShippingFlatCents:          1000,
		FreeShippingThresholdCents: 10000,
		TaxRatePercent:             decimal.NewFromInt(8),
	}
}

func newTestService(items *stubItemRepo, coupons *stubCouponRepo, orders *stubOrderRepo) *Service {
	return &Service{
		items:   items,
		coupons: coupons,
		orders:  orders,
		tracker: cache.NewTracker(),
		cfg:     testConfig(),
		now:     time.Now,
	}
}

func line(id, productID string, qty, stock int, priceCents int64) domain.CartLine {
	return domain.CartLine{
		Item: domain.CartItem{ID: id, ProductID: productID, Quantity: qty},
		Product: domain.Product{
			ID:            productID,
			Name:          "Linen Shirt",
			SKU:           "SKU-" + productID,
			PriceCents:    priceCents,
			StockQuantity: stock,
			IsActive:      true,
		},
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	svc := newTestService(&stubItemRepo{}, &stubCouponRepo{}, &stubOrderRepo{})
	_, err := svc.Checkout(context.Background(), "", CheckoutInput{PaymentMethod: domain.PaymentCOD})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	svc := newTestService(&stubItemRepo{}, &stubCouponRepo{}, &stubOrderRepo{})
	if _, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{PaymentMethod: "barter"}); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newTestService(&stubItemRepo{}, &stubCouponRepo{}, &stubOrderRepo{})
	_, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{PaymentMethod: domain.PaymentCOD})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutInsufficientStockPersistsNothing(t *testing.T) {
	orders := &stubOrderRepo{}
	items := &stubItemRepo{lines: []domain.CartLine{
		line("i1", "p1", 2, 10, 5000),
		line("i2", "p2", 5, 3, 2000),
	}}
	svc := newTestService(items, &stubCouponRepo{}, orders)

	_, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{PaymentMethod: domain.PaymentCOD})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if orders.created != nil {
		t.Fatal("expected no order to be created")
	}
}

func TestCheckoutInactiveProductFails(t *testing.T) {
	l := line("i1", "p1", 1, 10, 5000)
	l.Product.IsActive = false
	svc := newTestService(&stubItemRepo{lines: []domain.CartLine{l}}, &stubCouponRepo{}, &stubOrderRepo{})

	_, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{PaymentMethod: domain.PaymentCOD})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestCheckoutUnknownCoupon(t *testing.T) {
	items := &stubItemRepo{lines: []domain.CartLine{line("i1", "p1", 1, 10, 5000)}}
	svc := newTestService(items, &stubCouponRepo{}, &stubOrderRepo{})

	code := "NOPE"
	_, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{
		PaymentMethod: domain.PaymentCOD,
		CouponCode:    &code,
	})
	if !errors.Is(err, domain.ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid, got %v", err)
	}
}

func TestCheckoutSnapshotsLinesAndTotals(t *testing.T) {
	orders := &stubOrderRepo{}
	items := &stubItemRepo{lines: []domain.CartLine{line("i1", "p1", 3, 10, 9900)}}
	svc := newTestService(items, &stubCouponRepo{}, orders)

	order, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{PaymentMethod: domain.PaymentRazorpay})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.SubtotalCents != 29700 || order.TaxCents != 2376 || order.TotalCents != 32076 {
		t.Fatalf("unexpected totals %+v", order)
	}
	if order.ShippingCents != 0 {
		t.Fatalf("expected free shipping at threshold, got %d", order.ShippingCents)
	}
	if len(orders.created.Items) != 1 {
		t.Fatalf("expected 1 item snapshot, got %d", len(orders.created.Items))
	}
	it := orders.created.Items[0]
	if it.ProductName != "Linen Shirt" || it.ProductSKU != "SKU-p1" {
		t.Fatalf("expected snapshot of product name and sku, got %+v", it)
	}
	if it.UnitPriceCents != 9900 || it.TotalPriceCents != 29700 {
		t.Fatalf("unexpected snapshot prices %+v", it)
	}
	if len(orders.created.CartItemIDs) != 1 || orders.created.CartItemIDs[0] != "i1" {
		t.Fatalf("expected purchased cart ids, got %v", orders.created.CartItemIDs)
	}
}

func TestCheckoutUsesDiscountPrice(t *testing.T) {
	orders := &stubOrderRepo{}
	l := line("i1", "p1", 1, 10, 5000)
	discounted := int64(4000)
	l.Product.DiscountPriceCents = &discounted
	svc := newTestService(&stubItemRepo{lines: []domain.CartLine{l}}, &stubCouponRepo{}, orders)

	order, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{PaymentMethod: domain.PaymentCOD})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.SubtotalCents != 4000 {
		t.Fatalf("expected discounted subtotal 4000, got %d", order.SubtotalCents)
	}
	if orders.created.Items[0].UnitPriceCents != 4000 {
		t.Fatalf("expected snapshot to carry discounted unit price, got %d", orders.created.Items[0].UnitPriceCents)
	}
}

func TestCheckoutRecordsCouponRedemption(t *testing.T) {
	orders := &stubOrderRepo{}
	items := &stubItemRepo{lines: []domain.CartLine{line("i1", "p1", 1, 10, 20000)}}
	coupons := &stubCouponRepo{coupon: &domain.Coupon{
		ID:            "c1",
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
	}}
	svc := newTestService(items, coupons, orders)

	code := "SAVE10"
	order, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{
		PaymentMethod: domain.PaymentWallet,
		CouponCode:    &code,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.DiscountCents != 2000 {
		t.Fatalf("expected discount 2000, got %d", order.DiscountCents)
	}
	if order.CouponCode == nil || *order.CouponCode != "SAVE10" {
		t.Fatalf("expected coupon code on order, got %v", order.CouponCode)
	}
	if orders.created.CouponID == nil || *orders.created.CouponID != "c1" {
		t.Fatalf("expected coupon id passed to repository, got %v", orders.created.CouponID)
	}
}

func TestUpdateStatusAllowedTransition(t *testing.T) {
	orders := &stubOrderRepo{order: &domain.Order{ID: "order-1", UserID: "user-1", Status: domain.OrderPending}}
	svc := newTestService(&stubItemRepo{}, &stubCouponRepo{}, orders)

	updated, err := svc.UpdateStatus(context.Background(), "order-1", domain.OrderConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.OrderConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}
	if orders.lastFrom != domain.OrderPending || orders.lastTo != domain.OrderConfirmed {
		t.Fatalf("expected conditional update pending->confirmed, got %s->%s", orders.lastFrom, orders.lastTo)
	}
}

func TestUpdateStatusRejectsBackwardAndTerminal(t *testing.T) {
	cases := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
	}{
		{domain.OrderShipped, domain.OrderPending},
		{domain.OrderShipped, domain.OrderCancelled},
		{domain.OrderDelivered, domain.OrderCancelled},
		{domain.OrderDelivered, domain.OrderShipped},
		{domain.OrderCancelled, domain.OrderConfirmed},
		{domain.OrderPending, domain.OrderShipped},
	}
	for _, tc := range cases {
		orders := &stubOrderRepo{order: &domain.Order{ID: "order-1", Status: tc.from}}
		svc := newTestService(&stubItemRepo{}, &stubCouponRepo{}, orders)
		_, err := svc.UpdateStatus(context.Background(), "order-1", tc.to)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", tc.from, tc.to, err)
		}
		if orders.statusCalls != 0 {
			t.Fatalf("%s -> %s: repository must not be called", tc.from, tc.to)
		}
	}
}

func TestUpdateStatusCancelFromPending(t *testing.T) {
	orders := &stubOrderRepo{order: &domain.Order{ID: "order-1", Status: domain.OrderPending}}
	svc := newTestService(&stubItemRepo{}, &stubCouponRepo{}, orders)

	updated, err := svc.UpdateStatus(context.Background(), "order-1", domain.OrderCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.OrderCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
}
