package services

import "errors"

var (
	ErrNotFoundUser          = errors.New("user not found")
	ErrNotFoundProduct       = errors.New("product not found")
	ErrNotFoundCart          = errors.New("cart item not found")
	ErrInsufficientInventory = errors.New("requested quantity exceeds available inventory")
	ErrInvalidSortCode       = errors.New("unknown sort code")
	ErrAuthorizationDenied   = errors.New("no purchase found for this product")

	ErrDuplicateUser       = errors.New("login id already registered")
	ErrInvalidCredentials  = errors.New("invalid login id or password")
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
)
