package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found or does not
	// belong to the caller.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated indicates the operation requires a signed-in user.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrOutOfStock indicates the product has no stock left.
	ErrOutOfStock = errors.New("out of stock")
	// ErrInsufficientStock indicates the requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrCouponInvalid indicates the coupon failed an applicability check.
	ErrCouponInvalid = errors.New("coupon invalid")
	// ErrTransient indicates a collaborator timed out or was unavailable;
	// the operation is safe to retry with the same inputs.
	ErrTransient = errors.New("transient failure")
)
