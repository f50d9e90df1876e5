package order

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"heven-store/internal/domain"
	"heven-store/internal/migrate"
)

func TestPostgres_CreateClearsCartAndNumbersOrder(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	userID := insertUser(ctx, t, pool, "buyer@example.com")
	productID := insertProduct(ctx, t, pool, "SKU-ORDER-1", 9900, 10)
	cartItemID := insertCartItem(ctx, t, pool, userID, productID, 3)

	repo := NewPostgres(pool)
	created, err := repo.Create(ctx, CreateInput{
		Order: domain.Order{
			UserID:        userID,
			SubtotalCents: 29700,
			TaxCents:      2376,
			TotalCents:    32076,
			PaymentMethod: domain.PaymentCOD,
			ShippingAddress: &domain.Address{
				FirstName: "Ada", Line1: "1 Main St", City: "Pune", State: "MH", PostalCode: "411001",
			},
		},
		Items: []domain.OrderItem{{
			ProductID:       &productID,
			ProductName:     "Linen Shirt",
			ProductSKU:      "SKU-ORDER-1",
			Quantity:        3,
			UnitPriceCents:  9900,
			TotalPriceCents: 29700,
		}},
		CartItemIDs: []string{cartItemID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != domain.OrderPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if !strings.HasPrefix(created.OrderNumber, "ORD-") {
		t.Fatalf("unexpected order number %q", created.OrderNumber)
	}
	if len(created.Items) != 1 || created.Items[0].ProductName != "Linen Shirt" {
		t.Fatalf("unexpected items %+v", created.Items)
	}
	if created.ShippingAddress == nil || created.ShippingAddress.City != "Pune" {
		t.Fatalf("expected shipping address round-trip, got %+v", created.ShippingAddress)
	}

	var remaining int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM cart_items WHERE user_id = $1`, userID).Scan(&remaining); err != nil {
		t.Fatalf("count cart items: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected cart cleared, %d items remain", remaining)
	}
}

func TestPostgres_CreateExhaustedCouponRollsBack(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	userID := insertUser(ctx, t, pool, "buyer2@example.com")
	productID := insertProduct(ctx, t, pool, "SKU-ORDER-2", 5000, 10)
	cartItemID := insertCartItem(ctx, t, pool, userID, productID, 1)

	var couponID string
	err := pool.QueryRow(ctx, `
INSERT INTO coupons (code, discount_type, discount_value, usage_limit, used_count)
VALUES ('USEDUP', 'fixed', 500, 1, 1)
RETURNING id::text`).Scan(&couponID)
	if err != nil {
		t.Fatalf("insert coupon: %v", err)
	}

	repo := NewPostgres(pool)
	code := "USEDUP"
	_, err = repo.Create(ctx, CreateInput{
		Order: domain.Order{
			UserID:        userID,
			SubtotalCents: 5000,
			DiscountCents: 500,
			ShippingCents: 1000,
			TaxCents:      400,
			TotalCents:    5900,
			CouponCode:    &code,
			PaymentMethod: domain.PaymentWallet,
		},
		Items: []domain.OrderItem{{
			ProductName: "Thing", ProductSKU: "SKU-ORDER-2",
			Quantity: 1, UnitPriceCents: 5000, TotalPriceCents: 5000,
		}},
		CouponID:    &couponID,
		CartItemIDs: []string{cartItemID},
	})
	if !errors.Is(err, domain.ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid, got %v", err)
	}

	// Nothing from the failed checkout is visible.
	var orderCount, cartCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orderCount); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM cart_items WHERE user_id = $1`, userID).Scan(&cartCount); err != nil {
		t.Fatalf("count cart items: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders persisted, got %d", orderCount)
	}
	if cartCount != 1 {
		t.Fatalf("expected cart untouched, got %d items", cartCount)
	}
}

func TestPostgres_SetStatusIfAndOwnership(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	buyer := insertUser(ctx, t, pool, "buyer3@example.com")
	other := insertUser(ctx, t, pool, "other@example.com")

	repo := NewPostgres(pool)
	created, err := repo.Create(ctx, CreateInput{
		Order: domain.Order{
			UserID:        buyer,
			SubtotalCents: 1000,
			ShippingCents: 1000,
			TaxCents:      80,
			TotalCents:    2080,
			PaymentMethod: domain.PaymentRazorpay,
		},
		Items: []domain.OrderItem{{
			ProductName: "Thing", ProductSKU: "SKU-X",
			Quantity: 1, UnitPriceCents: 1000, TotalPriceCents: 1000,
		}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByID(ctx, other, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign order, got %v", err)
	}
	if _, err := repo.GetByID(ctx, buyer, created.ID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if err := repo.SetStatusIf(ctx, created.ID, domain.OrderPending, domain.OrderConfirmed); err != nil {
		t.Fatalf("SetStatusIf: %v", err)
	}
	// Stale observed status loses the race.
	if err := repo.SetStatusIf(ctx, created.ID, domain.OrderPending, domain.OrderCancelled); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for stale transition, got %v", err)
	}

	fetched, err := repo.GetAnyByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAnyByID: %v", err)
	}
	if fetched.Status != domain.OrderConfirmed {
		t.Fatalf("expected confirmed, got %s", fetched.Status)
	}
}

func TestPostgres_MetricsExcludesCancelledRevenue(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	buyer := insertUser(ctx, t, pool, "buyer4@example.com")
	repo := NewPostgres(pool)

	mk := func(total int64) *domain.Order {
		o, err := repo.Create(ctx, CreateInput{
			Order: domain.Order{
				UserID:        buyer,
				SubtotalCents: total,
				TotalCents:    total,
				PaymentMethod: domain.PaymentCOD,
			},
			Items: []domain.OrderItem{{
				ProductName: "Thing", ProductSKU: "SKU-M",
				Quantity: 1, UnitPriceCents: total, TotalPriceCents: total,
			}},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return o
	}
	first := mk(10000)
	mk(20000)
	if err := repo.SetStatusIf(ctx, first.ID, domain.OrderPending, domain.OrderCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	metrics, err := repo.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if metrics.TotalOrders != 2 {
		t.Fatalf("expected 2 orders, got %d", metrics.TotalOrders)
	}
	if metrics.RevenueCents != 20000 {
		t.Fatalf("expected revenue 20000, got %d", metrics.RevenueCents)
	}
	if metrics.ByStatus[domain.OrderCancelled] != 1 {
		t.Fatalf("expected 1 cancelled, got %+v", metrics.ByStatus)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, wishlist_items, coupons, products, categories, tokens, profiles, identities RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `INSERT INTO identities (email, password_hash) VALUES ($1, 'x') RETURNING id::text`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert identity: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO profiles (id) VALUES ($1)`, id); err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	return id
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, sku string, priceCents int64, stock int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx,
		`INSERT INTO products (name, sku, price_cents, stock_quantity) VALUES ($1, $1, $2, $3) RETURNING id::text`,
		sku, priceCents, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func insertCartItem(ctx context.Context, t *testing.T, pool *pgxpool.Pool, userID, productID string, qty int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id::text`,
		userID, productID, qty).Scan(&id)
	if err != nil {
		t.Fatalf("insert cart item: %v", err)
	}
	return id
}
