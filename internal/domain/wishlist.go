package domain

import "time"

type WishlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}
