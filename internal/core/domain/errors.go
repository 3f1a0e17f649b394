package domain

import "errors"

var (
	ErrIncompleteSelection = errors.New("select a value for every specification")
	ErrNoMatchingSKU       = errors.New("no sku matches the selection")
	ErrOutOfStock          = errors.New("not enough stock")
	ErrInvalidQuantity     = errors.New("invalid quantity")

	ErrUnauthenticated = errors.New("login required")
	ErrAuthExpired     = errors.New("login expired, please log in again")
	ErrAmbiguousToken  = errors.New("auth token in header and body differ")

	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingField     = errors.New("missing required field")

	ErrNotFound = errors.New("not found")
)
