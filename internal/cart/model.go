package cart

import "montraa-store/internal/product"

// Line is one product in the cart. Size and Color are informational and
// are not checked against the product.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"selectedSize,omitempty"`
	Color    string          `json:"selectedColor,omitempty"`
}

// Subtotal is price times quantity for the line.
func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// Options carries the variant attributes picked on the details page.
type Options struct {
	Size  string
	Color string
}
