package service

import "errors"

// Domain errors. The messages are the wire-visible envelope messages the
// clients already match on, so they must not be reworded casually.
var (
	ErrMissingProductID = errors.New("Please send product ID")
	ErrInvalidProductID = errors.New("Invalid product ID")
	ErrMissingQuantity  = errors.New("Please send product ID and quantity")
	ErrInvalidQuantity  = errors.New("Quantity must be a positive number")
	ErrUserNotFound     = errors.New("User not found")
	ErrItemNotInCart    = errors.New("Product not found in cart")

	ErrEmptyCart     = errors.New("Cart is empty")
	ErrInvalidTotal  = errors.New("Invalid total amount")
	ErrTotalMismatch = errors.New("Total does not match item prices")
	ErrOrderNotFound = errors.New("Order not found")
	ErrInvalidStatus = errors.New("Invalid order status")

	ErrMissingFields      = errors.New("All fields are required")
	ErrInvalidEmail       = errors.New("Invalid email format")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters long")
	ErrPasswordMismatch   = errors.New("Passwords do not match")
	ErrEmailExists        = errors.New("User with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

// IsDomainError reports whether err is one of the errors above, i.e. safe
// to surface verbatim in the response envelope.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrMissingProductID, ErrInvalidProductID, ErrMissingQuantity, ErrInvalidQuantity,
		ErrUserNotFound, ErrItemNotInCart,
		ErrEmptyCart, ErrInvalidTotal, ErrTotalMismatch, ErrOrderNotFound, ErrInvalidStatus,
		ErrMissingFields, ErrInvalidEmail, ErrPasswordTooShort, ErrPasswordMismatch,
		ErrEmailExists, ErrInvalidCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
