package domain

import "time"

type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Size      *string   `json:"size,omitempty"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartLine is a cart item joined with its live product record. Unavailable
// lines stay in the cart but are excluded from totals until the user removes
// them.
type CartLine struct {
	Item    CartItem `json:"item"`
	Product Product  `json:"product"`
}

// Available reports whether the line counts toward totals.
func (l CartLine) Available() bool {
	return l.Product.Purchasable()
}
