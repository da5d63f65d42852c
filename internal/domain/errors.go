package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product ID is not in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrStoreNotFound is returned when a store ID is not in the directory
	ErrStoreNotFound = errors.New("store not found")

	// ErrItemNotFound is returned when a product is not on the shopping list
	ErrItemNotFound = errors.New("item not on shopping list")

	// ErrEmptyList is returned when an operation needs at least one list item
	ErrEmptyList = errors.New("shopping list is empty")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidQuantity is returned for list quantities outside 1..MaxItemQuantity
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 9999")

	// ErrNegativePrice is returned when a price edit contains a negative value
	ErrNegativePrice = errors.New("price must not be negative")

	// ErrInvalidColor is returned when a store color is not a hex triplet
	ErrInvalidColor = errors.New("color must be a hex value such as #14B8A6")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrPriceFeedFailure is returned when the remote price feed request fails
	ErrPriceFeedFailure = errors.New("price feed request failed")
)
