package navigation

import (
	"errors"
	"fmt"

	"montraa-store/internal/product"
)

// Kind names a top-level screen.
type Kind string

const (
	KindHome           Kind = "home"
	KindShop           Kind = "shop"
	KindProductDetails Kind = "product-details"
	KindCart           Kind = "cart"
	KindCheckout       Kind = "checkout"
	KindAdmin          Kind = "admin"
	KindProfile        Kind = "profile"
	KindCreateShop     Kind = "create-shop"
	KindLogin          Kind = "login"
	KindSignup         Kind = "signup"
)

var kinds = map[Kind]struct{}{
	KindHome: {}, KindShop: {}, KindProductDetails: {}, KindCart: {}, KindCheckout: {},
	KindAdmin: {}, KindProfile: {}, KindCreateShop: {}, KindLogin: {}, KindSignup: {},
}

var (
	ErrUnknownView   = errors.New("unknown view")
	ErrViewNeedsItem = errors.New("product-details view needs a product")
)

// ParseKind accepts the wire names above.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
	return k, nil
}

// View is the active screen. The product-details variant carries its
// product, so a details view without one cannot be built. The zero View is home.
type View struct {
	kind    Kind
	product *product.Product
}

// Screen builds a view that carries no payload.
func Screen(k Kind) (View, error) {
	if k == KindProductDetails {
		return View{}, ErrViewNeedsItem
	}
	if _, ok := kinds[k]; !ok {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownView, k)
	}
	return View{kind: k}, nil
}

// MustScreen is Screen for constant kinds.
func MustScreen(k Kind) View {
	v, err := Screen(k)
	if err != nil {
		panic(err)
	}
	return v
}

// ProductDetails builds the details view for p.
func ProductDetails(p product.Product) View {
	c := p.Clone()
	return View{kind: KindProductDetails, product: &c}
}

func (v View) Kind() Kind {
	if v.kind == "" {
		return KindHome
	}
	return v.kind
}

// Product returns the payload of a details view.
func (v View) Product() (product.Product, bool) {
	if v.product == nil {
		return product.Product{}, false
	}
	return v.product.Clone(), true
}

func (v View) String() string {
	if p, ok := v.Product(); ok {
		return fmt.Sprintf("%s(%d)", v.Kind(), p.ID)
	}
	return string(v.Kind())
}
