package domain

import "time"

type Product struct {
	ID                 string    `json:"id"`
	CategoryID         *string   `json:"categoryId,omitempty"`
	Name               string    `json:"name"`
	SKU                string    `json:"sku"`
	Description        string    `json:"description,omitempty"`
	PriceCents         int64     `json:"priceCents"`
	DiscountPriceCents *int64    `json:"discountPriceCents,omitempty"`
	StockQuantity      int       `json:"stockQuantity"`
	Sizes              []string  `json:"sizes,omitempty"`
	Colors             []string  `json:"colors,omitempty"`
	Featured           bool      `json:"featured"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
}

// UnitPriceCents returns the price a buyer pays for one unit: the discount
// price when present, the base price otherwise.
func (p Product) UnitPriceCents() int64 {
	if p.DiscountPriceCents != nil {
		return *p.DiscountPriceCents
	}
	return p.PriceCents
}

// Purchasable reports whether the product can currently be bought.
func (p Product) Purchasable() bool {
	return p.IsActive && p.StockQuantity > 0
}
