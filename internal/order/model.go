package order

import "montraa-store/internal/cart"

type Status string

const (
	StatusDelivered  Status = "Delivered"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
)

// Order is a snapshot of cart lines at placement time. It does not follow
// later catalog changes.
type Order struct {
	ID     string      `json:"id"`
	Date   string      `json:"date"`
	Total  float64     `json:"total"`
	Status Status      `json:"status"`
	Items  []cart.Line `json:"items"`
}

// Clone copies the item slice so the caller can't alias the original.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]cart.Line, len(o.Items))
	for i, l := range o.Items {
		l.Product = l.Product.Clone()
		c.Items[i] = l
	}
	return c
}
