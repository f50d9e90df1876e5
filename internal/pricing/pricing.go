package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"heven-store/internal/domain"
)

// Config holds the storefront pricing knobs. Amounts are cents; the tax rate
// is a percent of the subtotal.
type Config struct {
	ShippingFlatCents          int64
	FreeShippingThresholdCents int64
	TaxRatePercent             decimal.Decimal
}

// Line is one priced entry: a quantity and the unit price selected when the
// line was built. The selection (discount price vs base price) happens once,
// at that point, so order snapshots stay stable.
type Line struct {
	Quantity       int
	UnitPriceCents int64
}

type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	DiscountCents int64 `json:"discountCents"`
	ShippingCents int64 `json:"shippingCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Subtotal sums quantity times unit price over all lines. Exact integer math;
// no rounding happens here.
func Subtotal(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += int64(l.Quantity) * l.UnitPriceCents
	}
	return sum
}

// Quote prices a set of lines with an optional coupon. An inapplicable coupon
// is an error, never a silently skipped discount. The invariant
// total = subtotal - discount + shipping + tax holds exactly.
func Quote(lines []Line, coupon *domain.Coupon, now time.Time, cfg Config) (Totals, error) {
	subtotal := Subtotal(lines)
	if coupon != nil {
		if err := CheckApplicable(*coupon, subtotal, now); err != nil {
			return Totals{}, err
		}
	}
	if subtotal == 0 {
		return Totals{}, nil
	}

	var discount int64
	if coupon != nil {
		discount = discountFor(*coupon, subtotal)
	}

	var shipping int64
	if subtotal < cfg.FreeShippingThresholdCents {
		shipping = cfg.ShippingFlatCents
	}

	// env parsing already rejects negative rates; clamp here as well so the
	// half-up rounding below only ever sees non-negative amounts
	rate := cfg.TaxRatePercent
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	tax := roundToCents(decimal.NewFromInt(subtotal).Mul(rate).Div(decimal.NewFromInt(100)))

	return Totals{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal - discount + shipping + tax,
	}, nil
}

// CheckApplicable verifies the combined applicability rules: active flag,
// validity window, usage limit and minimum order amount. Every violation is
// domain.ErrCouponInvalid with the reason attached.
func CheckApplicable(c domain.Coupon, subtotalCents int64, now time.Time) error {
	if !c.IsActive {
		return fmt.Errorf("%w: code %s is inactive", domain.ErrCouponInvalid, c.Code)
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return fmt.Errorf("%w: code %s is not yet valid", domain.ErrCouponInvalid, c.Code)
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return fmt.Errorf("%w: code %s has expired", domain.ErrCouponInvalid, c.Code)
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return fmt.Errorf("%w: code %s usage limit reached", domain.ErrCouponInvalid, c.Code)
	}
	if c.MinOrderCents != nil && subtotalCents < *c.MinOrderCents {
		return fmt.Errorf("%w: code %s requires a minimum order of %d cents", domain.ErrCouponInvalid, c.Code, *c.MinOrderCents)
	}
	return nil
}

func discountFor(c domain.Coupon, subtotalCents int64) int64 {
	var discount int64
	switch c.DiscountType {
	case domain.DiscountPercentage:
		discount = roundToCents(decimal.NewFromInt(subtotalCents).
			Mul(decimal.NewFromInt(c.DiscountValue)).
			Div(decimal.NewFromInt(100)))
	case domain.DiscountFixed:
		discount = c.DiscountValue
	}
	if c.MaxDiscountCents != nil && discount > *c.MaxDiscountCents {
		discount = *c.MaxDiscountCents
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// roundToCents rounds half-up to whole cents. decimal.Round rounds half away
// from zero, which matches half-up for the non-negative amounts handled here.
func roundToCents(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
