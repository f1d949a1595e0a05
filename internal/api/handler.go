package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"montraa-store/internal/assistant"
	"montraa-store/internal/cart"
	"montraa-store/internal/logger"
	"montraa-store/internal/metrics"
	"montraa-store/internal/navigation"
	"montraa-store/internal/order"
	"montraa-store/internal/product"
	"montraa-store/internal/store"
	"montraa-store/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const relatedLimit = 4

// Chat is the conversation surface the handler drives.
type Chat interface {
	Send(ctx context.Context, text string) (assistant.Message, error)
	Messages() []assistant.Message
	Reset()
}

// Handler contains HTTP handlers
type Handler struct {
	store *store.Store
	chat  Chat
}

// NewHandler creates a new HTTP handler
func NewHandler(s *store.Store, chat Chat) *Handler {
	return &Handler{store: s, chat: chat}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/categories", h.listCategories)

		api.GET("/state", h.getState)

		api.POST("/cart", h.addToCart)
		api.PATCH("/cart/:id", h.updateQuantity)
		api.DELETE("/cart/:id", h.removeFromCart)
		api.DELETE("/cart", h.clearCart)

		api.POST("/session/login", h.login)
		api.POST("/session/logout", h.logout)
		api.POST("/wishlist/:id", h.toggleWishlist)

		api.PUT("/view", h.setView)
		api.POST("/theme/toggle", h.toggleTheme)
		api.PUT("/search", h.setSearch)

		api.POST("/checkout/next", h.advanceCheckout)
		api.POST("/checkout/place", h.placeOrder)

		api.GET("/chat", h.chatTranscript)
		api.POST("/chat", h.sendChat)
		api.DELETE("/chat", h.resetChat)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"time":     time.Now().Unix(),
		"products": h.store.Catalog().Len(),
	})
}

// -- Catalog --

func (h *Handler) listProducts(c *gin.Context) {
	q := product.Query{
		Text:     c.Query("q"),
		Category: product.Category(c.Query("category")),
		Sort:     product.SortOption(c.Query("sort")),
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
			return
		}
		q.MaxPrice = maxPrice
	}

	products, err := h.store.Catalog().Search(q)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (h *Handler) getProduct(c *gin.Context) {
	p, ok := h.productParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, productResponse{
		Product: p,
		Related: h.store.Catalog().Related(p.ID, relatedLimit),
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": product.Categories})
}

// -- State --

func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.store.Snapshot()))
}

// -- Cart --

func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	p, ok := h.store.Catalog().ByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusOK, toStateResponse(h.store.Snapshot()))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	snap := h.store.AddToCartWithOptions(p, req.Quantity, cart.Options{Size: req.Size, Color: req.Color})
	c.JSON(http.StatusOK, toStateResponse(snap))
}

func (h *Handler) updateQuantity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toStateResponse(h.store.UpdateQuantity(id, *req.Delta)))
}

func (h *Handler) removeFromCart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toStateResponse(h.store.RemoveFromCart(id)))
}

func (h *Handler) clearCart(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.store.ClearCart()))
}

// -- Session --

func (h *Handler) login(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.store.Login()))
}

func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.store.Logout()))
}

// toggleWishlist ignores ids that are not in the catalog, like the cart routes.
func (h *Handler) toggleWishlist(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if _, found := h.store.Catalog().ByID(id); !found {
		snap := h.store.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"inWishlist": false,
			"state":      toStateResponse(snap),
		})
		return
	}

	snap, err := h.store.ToggleWishlist(id)
	if errors.Is(err, user.ErrUserNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("toggle wishlist failed", zap.Int("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inWishlist": snap.User != nil && snap.User.Wishlist.Has(id),
		"state":      toStateResponse(snap),
	})
}

// -- Navigation, theme, search --

func (h *Handler) setView(c *gin.Context) {
	var req setViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	kind, err := navigation.ParseKind(req.View)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if kind == navigation.KindProductDetails {
		if req.ProductID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": navigation.ErrViewNeedsItem.Error()})
			return
		}
		p, ok := h.store.Catalog().ByID(req.ProductID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": product.ErrProductNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, toStateResponse(h.store.OpenProduct(p)))
		return
	}

	view, err := navigation.Screen(kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toStateResponse(h.store.SetView(view)))
}

func (h *Handler) toggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.store.ToggleTheme()))
}

func (h *Handler) setSearch(c *gin.Context) {
	var req setSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, toStateResponse(h.store.SetSearchQuery(req.Query)))
}

// -- Checkout --

func (h *Handler) advanceCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.store.AdvanceCheckout()))
}

func (h *Handler) placeOrder(c *gin.Context) {
	placed, snap, err := h.store.PlaceOrder()
	if errors.Is(err, order.ErrCartEmpty) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("place order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": placed,
		"state": toStateResponse(snap),
	})
}

// -- Assistant --

func (h *Handler) chatTranscript(c *gin.Context) {
	messages := h.chat.Messages()
	out := make([]messageResponse, len(messages))
	for i, m := range messages {
		out[i] = toMessageResponse(m)
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

// sendChat always answers 200 with a displayable reply. Upstream failures
// show up in the failure field, not in the status code.
func (h *Handler) sendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	reply, err := h.chat.Send(c.Request.Context(), req.Message)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("chat send failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, toMessageResponse(reply))
}

func (h *Handler) resetChat(c *gin.Context) {
	h.chat.Reset()
	c.Status(http.StatusNoContent)
}

// -- Helpers --

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return id, true
}

func (h *Handler) productParam(c *gin.Context) (product.Product, bool) {
	id, ok := idParam(c)
	if !ok {
		return product.Product{}, false
	}

	p, found := h.store.Catalog().ByID(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": product.ErrProductNotFound.Error()})
		return product.Product{}, false
	}
	return p, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
