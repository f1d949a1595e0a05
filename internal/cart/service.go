package cart

import "montraa-store/internal/product"

// Service owns the cart lines. It is not safe for concurrent use; the store
// serialises access.
type Service interface {
	Add(p product.Product, quantity int)
	AddWithOptions(p product.Product, quantity int, opts Options)
	Remove(productID int)
	UpdateQuantity(productID, delta int)
	Clear()
	Total() float64
	Count() int
	Lines() []Line
}

type service struct {
	lines []Line
}

func NewService() Service {
	return &service{}
}

// Add increments the existing line for p or appends a new one.
func (s *service) Add(p product.Product, quantity int) {
	s.AddWithOptions(p, quantity, Options{})
}

// AddWithOptions is Add with variant attributes. Options only apply when a
// new line is created.
func (s *service) AddWithOptions(p product.Product, quantity int, opts Options) {
	if quantity < 1 {
		quantity = 1
	}

	if i := s.index(p.ID); i >= 0 {
		s.lines[i].Quantity += quantity
		return
	}

	s.lines = append(s.lines, Line{
		Product:  p.Clone(),
		Quantity: quantity,
		Size:     opts.Size,
		Color:    opts.Color,
	})
}

// Remove deletes the line for productID. Unknown IDs are ignored.
func (s *service) Remove(productID int) {
	i := s.index(productID)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

// UpdateQuantity shifts the line quantity by delta, never below 1. A line is
// only ever removed by Remove.
func (s *service) UpdateQuantity(productID, delta int) {
	i := s.index(productID)
	if i < 0 {
		return
	}
	s.lines[i].Quantity = max(1, s.lines[i].Quantity+delta)
}

func (s *service) Clear() {
	s.lines = nil
}

// Total is recomputed from the lines on every call.
func (s *service) Total() float64 {
	var total float64
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of units across all lines.
func (s *service) Count() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *service) Lines() []Line {
	out := make([]Line, len(s.lines))
	for i, l := range s.lines {
		l.Product = l.Product.Clone()
		out[i] = l
	}
	return out
}

func (s *service) index(productID int) int {
	for i, l := range s.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
