package navigation

import "montraa-store/internal/product"

// Service holds the current view and the last selected product.
// It is not safe for concurrent use; the store serialises access.
type Service interface {
	View() View
	SetView(v View)
	SelectedProduct() *product.Product
	SetSelectedProduct(p *product.Product)
	OpenProduct(p product.Product)
}

type service struct {
	view     View
	selected *product.Product
}

func NewService() Service {
	return &service{view: MustScreen(KindHome)}
}

func (s *service) View() View {
	return s.view
}

// SetView overwrites the current view.
func (s *service) SetView(v View) {
	s.view = v
}

// SelectedProduct returns a copy of the last selected product, or nil.
func (s *service) SelectedProduct() *product.Product {
	if s.selected == nil {
		return nil
	}
	c := s.selected.Clone()
	return &c
}

// SetSelectedProduct keeps a copy of p; nil clears the selection.
func (s *service) SetSelectedProduct(p *product.Product) {
	if p == nil {
		s.selected = nil
		return
	}
	c := p.Clone()
	s.selected = &c
}

// OpenProduct selects p and then shows its details view.
func (s *service) OpenProduct(p product.Product) {
	s.SetSelectedProduct(&p)
	s.SetView(ProductDetails(p))
}
