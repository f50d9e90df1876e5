package domain

import "time"

type DiscountType string

const (
	// DiscountPercentage applies Value as a percent of the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies Value as a fixed amount in cents.
	DiscountFixed DiscountType = "fixed"
)

type Coupon struct {
	ID               string       `json:"id"`
	Code             string       `json:"code"`
	Description      string       `json:"description,omitempty"`
	DiscountType     DiscountType `json:"discountType"`
	DiscountValue    int64        `json:"discountValue"`
	MinOrderCents    *int64       `json:"minOrderCents,omitempty"`
	MaxDiscountCents *int64       `json:"maxDiscountCents,omitempty"`
	ValidFrom        *time.Time   `json:"validFrom,omitempty"`
	ValidUntil       *time.Time   `json:"validUntil,omitempty"`
	UsageLimit       *int         `json:"usageLimit,omitempty"`
	UsedCount        int          `json:"usedCount"`
	IsActive         bool         `json:"isActive"`
	CreatedAt        time.Time    `json:"createdAt"`
}
