package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows moving to next.
// Statuses advance one direction only; cancellation is reachable from pending
// or confirmed, never from shipped or delivered.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderConfirmed || next == OrderCancelled
	case OrderConfirmed:
		return next == OrderShipped || next == OrderCancelled
	case OrderShipped:
		return next == OrderDelivered
	}
	return false
}

type PaymentMethod string

const (
	PaymentRazorpay PaymentMethod = "razorpay"
	PaymentCOD      PaymentMethod = "cod"
	PaymentWallet   PaymentMethod = "wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentRazorpay, PaymentCOD, PaymentWallet:
		return true
	}
	return false
}

// Address is the shipping/billing snapshot stored with an order.
type Address struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Order is immutable once persisted; only Status changes afterwards, and only
// along the transitions OrderStatus.CanTransitionTo allows.
type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"-"`
	OrderNumber     string        `json:"orderNumber"`
	Status          OrderStatus   `json:"status"`
	SubtotalCents   int64         `json:"subtotalCents"`
	DiscountCents   int64         `json:"discountCents"`
	ShippingCents   int64         `json:"shippingCents"`
	TaxCents        int64         `json:"taxCents"`
	TotalCents      int64         `json:"totalCents"`
	CouponCode      *string       `json:"couponCode,omitempty"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	ShippingAddress *Address      `json:"shippingAddress,omitempty"`
	BillingAddress  *Address      `json:"billingAddress,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	Items           []OrderItem   `json:"items,omitempty"`
}

// OrderItem carries product name, SKU and unit price copied at purchase time.
// Later catalog edits never touch these rows.
type OrderItem struct {
	ID              string  `json:"id"`
	OrderID         string  `json:"orderId"`
	ProductID       *string `json:"productId,omitempty"`
	ProductName     string  `json:"productName"`
	ProductSKU      string  `json:"productSku"`
	Quantity        int     `json:"quantity"`
	Size            *string `json:"size,omitempty"`
	Color           *string `json:"color,omitempty"`
	UnitPriceCents  int64   `json:"unitPriceCents"`
	TotalPriceCents int64   `json:"totalPriceCents"`
}
