package api

import (
	"time"

	"montraa-store/internal/assistant"
	"montraa-store/internal/cart"
	"montraa-store/internal/product"
	"montraa-store/internal/store"
	"montraa-store/internal/user"
)

// -- Requests --

type addToCartRequest struct {
	ProductID int    `json:"productId" binding:"required,gt=0"`
	Quantity  int    `json:"quantity" binding:"omitempty,gt=0"`
	Size      string `json:"selectedSize"`
	Color     string `json:"selectedColor"`
}

// Delta is a pointer so a missing field is rejected while zero is allowed.
type updateQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type setViewRequest struct {
	View      string `json:"view" binding:"required"`
	ProductID int    `json:"productId" binding:"omitempty,gt=0"`
}

type setSearchRequest struct {
	Query string `json:"query"`
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// -- Responses --

type viewResponse struct {
	Kind      string `json:"kind"`
	ProductID int    `json:"productId,omitempty"`
}

type stateResponse struct {
	Cart              []cart.Line  `json:"cart"`
	CartTotal         float64      `json:"cartTotal"`
	CartCount         int          `json:"cartCount"`
	View              viewResponse `json:"view"`
	SelectedProductID int          `json:"selectedProductId,omitempty"`
	User              *user.User   `json:"user"`
	DarkMode          bool         `json:"darkMode"`
	SearchQuery       string       `json:"searchQuery"`
	CheckoutStep      string       `json:"checkoutStep"`
}

type productResponse struct {
	Product product.Product   `json:"product"`
	Related []product.Product `json:"related"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Failure   string    `json:"failure,omitempty"`
}

func toStateResponse(s store.Snapshot) stateResponse {
	resp := stateResponse{
		Cart:         s.Cart,
		CartTotal:    s.CartTotal,
		CartCount:    s.CartCount,
		View:         viewResponse{Kind: string(s.View.Kind())},
		User:         s.User,
		DarkMode:     s.DarkMode,
		SearchQuery:  s.SearchQuery,
		CheckoutStep: s.CheckoutStep.String(),
	}
	if resp.Cart == nil {
		resp.Cart = []cart.Line{}
	}
	if p, ok := s.View.Product(); ok {
		resp.View.ProductID = p.ID
	}
	if s.Selected != nil {
		resp.SelectedProductID = s.Selected.ID
	}
	return resp
}

func toMessageResponse(m assistant.Message) messageResponse {
	resp := messageResponse{
		ID:        m.ID,
		Role:      string(m.Role),
		Text:      m.Text,
		Timestamp: m.Timestamp,
	}
	if m.Failure != assistant.KindNone {
		resp.Failure = m.Failure.String()
	}
	return resp
}
