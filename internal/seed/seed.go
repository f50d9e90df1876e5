package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type categorySeed struct {
	Name string
	Slug string
}

type productSeed struct {
	CategorySlug       string
	Name               string
	SKU                string
	Description        string
	PriceCents         int64
	DiscountPriceCents *int64
	Stock              int
	Sizes              []string
	Colors             []string
	Featured           bool
}

type couponSeed struct {
	Code             string
	Description      string
	DiscountType     string
	DiscountValue    int64
	MinOrderCents    *int64
	MaxDiscountCents *int64
}

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []categorySeed{
		{Name: "Shirts", Slug: "shirts"},
		{Name: "Dresses", Slug: "dresses"},
		{Name: "Accessories", Slug: "accessories"},
	}
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		id, err := upsertCategory(ctx, pool, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = id
	}

	sale := int64(7900)
	products := []productSeed{
		{
			CategorySlug: "shirts",
			Name:         "Linen Shirt",
			SKU:          "SKU-LINEN-SHIRT",
			Description:  "Relaxed fit shirt in washed linen",
			PriceCents:   9900,
			Stock:        40,
			Sizes:        []string{"S", "M", "L", "XL"},
			Colors:       []string{"white", "sand"},
			Featured:     true,
		},
		{
			CategorySlug:       "dresses",
			Name:               "Midi Wrap Dress",
			SKU:                "SKU-MIDI-WRAP",
			Description:        "Printed wrap dress with tie waist",
			PriceCents:         8900,
			DiscountPriceCents: &sale,
			Stock:              25,
			Sizes:              []string{"XS", "S", "M", "L"},
			Colors:             []string{"navy", "rust"},
			Featured:           true,
		},
		{
			CategorySlug: "accessories",
			Name:         "Woven Belt",
			SKU:          "SKU-WOVEN-BELT",
			Description:  "Braided leather belt",
			PriceCents:   2900,
			Stock:        60,
			Colors:       []string{"tan", "black"},
		},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, categoryIDs[p.CategorySlug], p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	tenOff := int64(1500)
	minOrder := int64(5000)
	coupons := []couponSeed{
		{
			Code:             "SAVE10",
			Description:      "10% off, capped at 15.00",
			DiscountType:     "percentage",
			DiscountValue:    10,
			MaxDiscountCents: &tenOff,
		},
		{
			Code:          "FLAT5",
			Description:   "5.00 off orders of 50.00 or more",
			DiscountType:  "fixed",
			DiscountValue: 500,
			MinOrderCents: &minOrder,
		},
	}
	for _, c := range coupons {
		if err := upsertCoupon(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert coupon %s: %w", c.Code, err)
		}
	}

	if err := ensureAdmin(ctx, pool, "admin@heven.local", "admin-password"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	return nil
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) (string, error) {
	const q = `
INSERT INTO categories (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, c.Name, c.Slug).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	const q = `
INSERT INTO products (category_id, name, sku, description, price_cents, discount_price_cents,
                      stock_quantity, sizes, colors, featured)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (sku) DO UPDATE
SET category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    discount_price_cents = EXCLUDED.discount_price_cents,
    stock_quantity = EXCLUDED.stock_quantity,
    sizes = EXCLUDED.sizes,
    colors = EXCLUDED.colors,
    featured = EXCLUDED.featured
`
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	_, err := pool.Exec(ctx, q, categoryID, p.Name, p.SKU, p.Description, p.PriceCents,
		p.DiscountPriceCents, p.Stock, sizes, colors, p.Featured)
	return err
}

func upsertCoupon(ctx context.Context, pool *pgxpool.Pool, c couponSeed) error {
	const q = `
INSERT INTO coupons (code, description, discount_type, discount_value, min_order_cents, max_discount_cents)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code) DO UPDATE
SET description = EXCLUDED.description,
    discount_type = EXCLUDED.discount_type,
    discount_value = EXCLUDED.discount_value,
    min_order_cents = EXCLUDED.min_order_cents,
    max_discount_cents = EXCLUDED.max_discount_cents
`
	_, err := pool.Exec(ctx, q, c.Code, c.Description, c.DiscountType, c.DiscountValue,
		c.MinOrderCents, c.MaxDiscountCents)
	return err
}

// ensureAdmin creates the back-office account on first run. The password is
// only set on insert; an existing identity keeps whatever it was changed to.
func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const identityQ = `
INSERT INTO identities (email, password_hash)
VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, identityQ, email, string(hashed)).Scan(&id); err != nil {
		return err
	}
	const profileQ = `
INSERT INTO profiles (id, first_name, role)
VALUES ($1, 'Admin', 'admin')
ON CONFLICT (id) DO UPDATE SET role = 'admin'
`
	_, err = pool.Exec(ctx, profileQ, id)
	return err
}
