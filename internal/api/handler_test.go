package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"montraa-store/internal/assistant"
	"montraa-store/internal/product"
	"montraa-store/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replierFunc func(ctx context.Context, history []assistant.Turn, message string) assistant.Reply

func (f replierFunc) Reply(ctx context.Context, history []assistant.Turn, message string) assistant.Reply {
	return f(ctx, history, message)
}

func setupRouter(t *testing.T, r assistant.Replier) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := product.LoadCatalog()
	require.NoError(t, err)

	if r == nil {
		r = replierFunc(func(context.Context, []assistant.Turn, string) assistant.Reply {
			return assistant.Reply{Text: "Try the Wireless Headphones!"}
		})
	}

	s := store.New(catalog, store.Options{WishlistAutoLogin: true})
	router := gin.New()
	NewHandler(s, assistant.NewConversation(r)).SetupRoutes(router)
	return router, s
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	w = do(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestListProducts(t *testing.T) {
	router, _ := setupRouter(t, nil)

	t.Run("All products", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/api/products", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Count int `json:"count"`
		}](t, w)
		assert.Equal(t, 6, resp.Count)
	})

	t.Run("Filtered and sorted", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/api/products?category=Electronics&sort=price-asc&max_price=200", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Products []product.Product `json:"products"`
		}](t, w)
		require.NotEmpty(t, resp.Products)
		for i, p := range resp.Products {
			assert.Equal(t, product.CategoryElectronics, p.Category)
			assert.LessOrEqual(t, p.Price, 200.0)
			if i > 0 {
				assert.LessOrEqual(t, resp.Products[i-1].Price, p.Price)
			}
		}
	})

	t.Run("Bad sort", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/api/products?sort=cheapest", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Bad max price", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/api/products?max_price=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetProduct(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := do(t, router, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[productResponse](t, w)
	assert.Equal(t, 1, resp.Product.ID)
	for _, r := range resp.Related {
		assert.NotEqual(t, 1, r.ID)
	}

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/products/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/products/abc", nil).Code)
}

func TestCartEndpoints(t *testing.T) {
	router, s := setupRouter(t, nil)
	price := s.Catalog().MustByID(1).Price

	w := do(t, router, http.MethodPost, "/api/cart", gin.H{"productId": 1, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodPost, "/api/cart", gin.H{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	state := decode[stateResponse](t, w)
	require.Len(t, state.Cart, 1)
	assert.Equal(t, 3, state.Cart[0].Quantity)
	assert.InDelta(t, 3*price, state.CartTotal, 1e-9)

	w = do(t, router, http.MethodPatch, "/api/cart/1", gin.H{"delta": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[stateResponse](t, w).Cart[0].Quantity)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPatch, "/api/cart/1", gin.H{}).Code)

	w = do(t, router, http.MethodPatch, "/api/cart/1", gin.H{"delta": -5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[stateResponse](t, w).Cart[0].Quantity)

	w = do(t, router, http.MethodDelete, "/api/cart/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[stateResponse](t, w).Cart)

	w = do(t, router, http.MethodPost, "/api/cart", gin.H{"productId": 42})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[stateResponse](t, w).Cart)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/cart", gin.H{}).Code)

	do(t, router, http.MethodPost, "/api/cart", gin.H{"productId": 2, "selectedSize": "M"})
	w = do(t, router, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[stateResponse](t, w).Cart)
}

func TestWishlistAndSession(t *testing.T) {
	router, _ := setupRouter(t, nil)

	type toggleResponse struct {
		InWishlist bool          `json:"inWishlist"`
		State      stateResponse `json:"state"`
	}

	w := do(t, router, http.MethodPost, "/api/wishlist/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[toggleResponse](t, w)
	assert.True(t, resp.InWishlist)
	require.NotNil(t, resp.State.User)
	assert.Equal(t, "Alex Doe", resp.State.User.Name)

	w = do(t, router, http.MethodPost, "/api/wishlist/5", nil)
	resp = decode[toggleResponse](t, w)
	assert.False(t, resp.InWishlist)
	assert.NotNil(t, resp.State.User)

	do(t, router, http.MethodPut, "/api/view", gin.H{"view": "profile"})
	w = do(t, router, http.MethodPost, "/api/session/logout", nil)
	state := decode[stateResponse](t, w)
	assert.Nil(t, state.User)
	assert.Equal(t, "home", state.View.Kind)

	w = do(t, router, http.MethodPost, "/api/session/login", nil)
	state = decode[stateResponse](t, w)
	require.NotNil(t, state.User)
	assert.Len(t, state.User.Orders, 2)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/wishlist/abc", nil).Code)
}

func TestToggleWishlist_UnknownProductIsIgnored(t *testing.T) {
	router, s := setupRouter(t, nil)

	w := do(t, router, http.MethodPost, "/api/wishlist/999", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		InWishlist bool          `json:"inWishlist"`
		State      stateResponse `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.InWishlist)
	assert.Nil(t, resp.State.User)
	assert.Nil(t, s.User())
	assert.False(t, s.IsInWishlist(999))
}

func TestSetView(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := do(t, router, http.MethodPut, "/api/view", gin.H{"view": "product-details", "productId": 3})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[stateResponse](t, w)
	assert.Equal(t, "product-details", state.View.Kind)
	assert.Equal(t, 3, state.View.ProductID)
	assert.Equal(t, 3, state.SelectedProductID)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/view", gin.H{"view": "product-details"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/view", gin.H{"view": "settings"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPut, "/api/view", gin.H{"view": "product-details", "productId": 50}).Code)
}

func TestThemeAndSearch(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := do(t, router, http.MethodPost, "/api/theme/toggle", nil)
	assert.True(t, decode[stateResponse](t, w).DarkMode)

	w = do(t, router, http.MethodPut, "/api/search", gin.H{"query": "watch"})
	assert.Equal(t, "watch", decode[stateResponse](t, w).SearchQuery)
}

func TestCheckoutFlow(t *testing.T) {
	router, _ := setupRouter(t, nil)

	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, "/api/checkout/place", nil).Code)

	do(t, router, http.MethodPost, "/api/session/login", nil)
	do(t, router, http.MethodPost, "/api/cart", gin.H{"productId": 4, "quantity": 2})
	w := do(t, router, http.MethodPut, "/api/view", gin.H{"view": "checkout"})
	assert.Equal(t, "shipping", decode[stateResponse](t, w).CheckoutStep)

	w = do(t, router, http.MethodPost, "/api/checkout/next", nil)
	assert.Equal(t, "payment", decode[stateResponse](t, w).CheckoutStep)

	w = do(t, router, http.MethodPost, "/api/checkout/place", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Order struct {
			ID     string  `json:"id"`
			Total  float64 `json:"total"`
			Status string  `json:"status"`
		} `json:"order"`
		State stateResponse `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^#ORD-\d{4}-[0-9A-F]{8}$`, resp.Order.ID)
	assert.InDelta(t, 2*149.99, resp.Order.Total, 1e-9)
	assert.Equal(t, "Processing", resp.Order.Status)
	assert.Empty(t, resp.State.Cart)
	assert.Equal(t, "home", resp.State.View.Kind)
	require.NotNil(t, resp.State.User)
	assert.Len(t, resp.State.User.Orders, 3)
}

func TestChatEndpoints(t *testing.T) {
	var histories [][]assistant.Turn
	router, _ := setupRouter(t, replierFunc(func(_ context.Context, history []assistant.Turn, message string) assistant.Reply {
		histories = append(histories, history)
		if message == "fail" {
			return assistant.Reply{Text: assistant.KindRateLimited.Message(), Failure: assistant.KindRateLimited}
		}
		return assistant.Reply{Text: "echo: " + message}
	}))

	w := do(t, router, http.MethodPost, "/api/chat", gin.H{"message": "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	msg := decode[messageResponse](t, w)
	assert.Equal(t, "model", msg.Role)
	assert.Equal(t, "echo: hello", msg.Text)
	assert.Empty(t, msg.Failure)

	w = do(t, router, http.MethodPost, "/api/chat", gin.H{"message": "fail"})
	require.Equal(t, http.StatusOK, w.Code)
	msg = decode[messageResponse](t, w)
	assert.Equal(t, assistant.MessageRateLimited, msg.Text)
	assert.Equal(t, "rate_limited", msg.Failure)
	require.Len(t, histories, 2)
	assert.Len(t, histories[1], 2)

	w = do(t, router, http.MethodGet, "/api/chat", nil)
	transcript := decode[struct {
		Messages []messageResponse `json:"messages"`
	}](t, w)
	require.Len(t, transcript.Messages, 4)
	assert.Equal(t, "user", transcript.Messages[0].Role)
	assert.Equal(t, "hello", transcript.Messages[0].Text)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/chat", gin.H{"message": "   "}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/chat", gin.H{}).Code)

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/api/chat", nil).Code)
	w = do(t, router, http.MethodGet, "/api/chat", nil)
	assert.Contains(t, w.Body.String(), `"messages":[]`)
}
