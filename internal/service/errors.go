package service

import (
	"github.com/hallgrim/vanir/internal/domain"
)

// Lookup errors - domain.ENOTFOUND
var (
	ErrUserNotFound     = domain.Errorf(domain.ENOTFOUND, "", "User not found")
	ErrProfileNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Profile not found")
	ErrProductNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
	ErrCategoryNotFound = domain.Errorf(domain.ENOTFOUND, "", "Category not found")
	ErrCartNotFound     = domain.Errorf(domain.ENOTFOUND, "", "Cart not found")
	ErrCartItemNotFound = domain.Errorf(domain.ENOTFOUND, "", "Cart item not found")
	ErrOrderNotFound    = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
	ErrSessionNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Session not found")
)

// Validation errors - domain.EINVALID
var (
	ErrInvalidQuantity   = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrEmptyCart         = domain.Errorf(domain.EINVALID, "", "Cart is empty")
	ErrInvalidMetadata   = domain.Errorf(domain.EINVALID, "", "Payment metadata is missing or malformed")
	ErrInvalidID         = domain.Errorf(domain.EINVALID, "", "Invalid identifier")
	ErrProductInUse      = domain.Errorf(domain.ECONFLICT, "", "Product is referenced by carts or orders")
	ErrCategoryNotEmpty  = domain.Errorf(domain.ECONFLICT, "", "Category still has products")
	ErrDuplicateEmail    = domain.Errorf(domain.ECONFLICT, "", "An account with this email already exists")
	ErrDuplicateCategory = domain.Errorf(domain.ECONFLICT, "", "A category with this name already exists")
	ErrDuplicateCartItem = domain.Errorf(domain.ECONFLICT, "", "Product is already in the cart")
)

// Auth errors
var (
	ErrInvalidCredentials = domain.Errorf(domain.EUNAUTHORIZED, "", "Invalid email or password")
	ErrSessionExpired     = domain.Errorf(domain.EUNAUTHORIZED, "", "Session has expired")
)

// Payment errors
var (
	ErrPaymentNotSucceeded = domain.Errorf(domain.EPAYMENT, "", "Payment has not succeeded")
)
