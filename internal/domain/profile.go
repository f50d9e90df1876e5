package domain

import "time"

type Role string

const (
	RoleCustomer       Role = "customer"
	RoleAdmin          Role = "admin"
	RoleProductManager Role = "product_manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleProductManager:
		return true
	}
	return false
}

// Profile holds the business-side attributes of a user. Its ID is shared with
// the identity record; role is mutable independently of authentication.
type Profile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is the authentication record owned by the identity provider.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
