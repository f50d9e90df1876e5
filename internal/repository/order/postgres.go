package order

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heven-store/internal/domain"
)

const orderColumns = `id::text, user_id::text, order_number, status, subtotal_cents, discount_cents,
       shipping_cents, tax_cents, total_cents, coupon_code, payment_method,
       shipping_address, billing_address, created_at`

const itemColumns = `id::text, order_id::text, product_id::text, product_name, product_sku,
       quantity, size, color, unit_price_cents, total_price_cents`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	shipJSON, err := marshalAddress(in.Order.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billJSON, err := marshalAddress(in.Order.BillingAddress)
	if err != nil {
		return nil, err
	}

	const insertOrder = `
INSERT INTO orders (user_id, order_number, status, subtotal_cents, discount_cents, shipping_cents,
                    tax_cents, total_cents, coupon_code, payment_method, shipping_address, billing_address)
VALUES ($1, generate_order_number(), 'pending', $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns + `
`
	created, err := scanOrder(tx.QueryRow(ctx, insertOrder,
		in.Order.UserID,
		in.Order.SubtotalCents,
		in.Order.DiscountCents,
		in.Order.ShippingCents,
		in.Order.TaxCents,
		in.Order.TotalCents,
		in.Order.CouponCode,
		string(in.Order.PaymentMethod),
		shipJSON,
		billJSON,
	))
	if err != nil {
		return nil, err
	}

	const insertItem = `
INSERT INTO order_items (order_id, product_id, product_name, product_sku, quantity, size, color,
                         unit_price_cents, total_price_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + itemColumns + `
`
	for _, item := range in.Items {
		row := tx.QueryRow(ctx, insertItem,
			created.ID,
			item.ProductID,
			item.ProductName,
			item.ProductSKU,
			item.Quantity,
			item.Size,
			item.Color,
			item.UnitPriceCents,
			item.TotalPriceCents,
		)
		saved, err := scanItem(row)
		if err != nil {
			return nil, err
		}
		created.Items = append(created.Items, *saved)
	}

	if in.CouponID != nil {
		// The usage limit is re-checked under the row lock so two racing
		// checkouts cannot both redeem the last slot.
		cmd, err := tx.Exec(ctx, `
UPDATE coupons
SET used_count = used_count + 1
WHERE id = $1 AND is_active AND (usage_limit IS NULL OR used_count < usage_limit)
`, *in.CouponID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, domain.ErrCouponInvalid
		}
	}

	if len(in.CartItemIDs) > 0 {
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1 AND id = ANY($2::uuid[])
`, in.Order.UserID, in.CartItemIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1 AND id = $2
`
	return r.fetchOrder(ctx, q, userID, id)
}

func (r *postgresRepo) GetAnyByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	return r.fetchOrder(ctx, q, id)
}

func (r *postgresRepo) SetStatusIf(ctx context.Context, id string, from, to domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $1
WHERE id = $2 AND status = $3
`, string(to), id, string(from))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Metrics(ctx context.Context) (*Metrics, error) {
	rows, err := r.pool.Query(ctx, `
SELECT status, COUNT(*), COALESCE(SUM(total_cents), 0)
FROM orders
GROUP BY status
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &Metrics{ByStatus: make(map[domain.OrderStatus]int)}
	for rows.Next() {
		var status string
		var count int
		var revenue int64
		if err := rows.Scan(&status, &count, &revenue); err != nil {
			return nil, err
		}
		out.ByStatus[domain.OrderStatus(status)] = count
		out.TotalOrders += count
		if domain.OrderStatus(status) != domain.OrderCancelled {
			out.RevenueCents += revenue
		}
	}
	return out, rows.Err()
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, args ...interface{}) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	orders := []domain.Order{*o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *postgresRepo) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	index := make(map[string]*domain.Order, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
		index[orders[i].ID] = &orders[i]
	}

	const q = `
SELECT ` + itemColumns + `
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return err
		}
		if o, ok := index[item.OrderID]; ok {
			o.Items = append(o.Items, *item)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status, payment string
	var shipJSON, billJSON []byte
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&status,
		&o.SubtotalCents,
		&o.DiscountCents,
		&o.ShippingCents,
		&o.TaxCents,
		&o.TotalCents,
		&o.CouponCode,
		&payment,
		&shipJSON,
		&billJSON,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentMethod = domain.PaymentMethod(payment)
	var err error
	if o.ShippingAddress, err = unmarshalAddress(shipJSON); err != nil {
		return nil, err
	}
	if o.BillingAddress, err = unmarshalAddress(billJSON); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanItem(row pgx.Row) (*domain.OrderItem, error) {
	var item domain.OrderItem
	if err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.ProductName,
		&item.ProductSKU,
		&item.Quantity,
		&item.Size,
		&item.Color,
		&item.UnitPriceCents,
		&item.TotalPriceCents,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func marshalAddress(a *domain.Address) (*string, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}

func unmarshalAddress(raw []byte) (*domain.Address, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var a domain.Address
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
