package user

import (
	"montraa-store/internal/order"
	"montraa-store/internal/product"
)

// Options controls session behaviour that the demo relaxes.
type Options struct {
	// AutoLogin provisions a demo session when an anonymous visitor touches
	// the wishlist. When false those calls return ErrUserNotAuthenticated.
	AutoLogin bool
}

// Service is the anonymous/authenticated session plus the wishlist.
// It is not safe for concurrent use; the store serialises access.
type Service interface {
	Login() User
	Logout()
	User() *User
	Authenticated() bool
	ToggleWishlist(productID int) (bool, error)
	IsInWishlist(productID int) bool
	RecordOrder(o order.Order) bool
}

type service struct {
	catalog *product.Catalog
	opts    Options
	current *User
}

func NewService(catalog *product.Catalog, opts Options) Service {
	return &service{catalog: catalog, opts: opts}
}

// Login always succeeds and replaces any current session with a fresh demo profile.
func (s *service) Login() User {
	u := DemoProfile(s.catalog)
	s.current = &u
	return u.Clone()
}

func (s *service) Logout() {
	s.current = nil
}

// User returns a copy of the session user, or nil when anonymous.
func (s *service) User() *User {
	if s.current == nil {
		return nil
	}
	u := s.current.Clone()
	return &u
}

func (s *service) Authenticated() bool {
	return s.current != nil
}

// ToggleWishlist ensures a session, then applies the wishlist action. If the
// session was created by this call the action is an add, since an anonymous
// visitor had nothing in the wishlist to remove. It reports whether the
// product is in the wishlist afterwards.
func (s *service) ToggleWishlist(productID int) (bool, error) {
	provisioned, err := s.ensureSession()
	if err != nil {
		return false, err
	}

	if provisioned {
		s.current.Wishlist[productID] = struct{}{}
		return true, nil
	}
	return s.current.Wishlist.Toggle(productID), nil
}

func (s *service) ensureSession() (bool, error) {
	if s.current != nil {
		return false, nil
	}
	if !s.opts.AutoLogin {
		return false, ErrUserNotAuthenticated
	}
	s.Login()
	return true, nil
}

func (s *service) IsInWishlist(productID int) bool {
	return s.current != nil && s.current.Wishlist.Has(productID)
}

// RecordOrder appends o to the user's history. It reports false when anonymous.
func (s *service) RecordOrder(o order.Order) bool {
	if s.current == nil {
		return false
	}
	s.current.Orders = append(s.current.Orders, o.Clone())
	return true
}
