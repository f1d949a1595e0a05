package product

import "errors"

var (
	// -- Catalog seed --
	ErrEmptyCatalog       = errors.New("catalog has no products")
	ErrDuplicateProductID = errors.New("duplicate product id")
	ErrInvalidProduct     = errors.New("invalid product")

	// -- Lookup --
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidSort     = errors.New("invalid sort option")
)
