package entity

import "errors"

var (
	// ErrNotFound is returned when a symbol is absent from the store.
	ErrNotFound = errors.New("stock not found")

	// ErrDuplicateSymbol is returned when adding a symbol that already exists.
	ErrDuplicateSymbol = errors.New("symbol already exists")

	// ErrInvalidInput is returned when a holding fails validation before
	// persistence.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable is returned when the persistence layer cannot be
	// reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrQuoteUnavailable is returned when a current quote cannot be fetched.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrHistoryUnavailable is returned when historical bars cannot be fetched.
	ErrHistoryUnavailable = errors.New("history unavailable")
)
