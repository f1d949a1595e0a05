package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"montraa-store/internal/api"
	"montraa-store/internal/assistant"
	"montraa-store/internal/config"
	"montraa-store/internal/logger"
	"montraa-store/internal/middleware"
	"montraa-store/internal/product"
	"montraa-store/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	log := logger.L()

	catalog, err := product.LoadCatalog()
	if err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}

	s := store.New(catalog, store.Options{WishlistAutoLogin: cfg.WishlistAutoLogin})

	gemini := assistant.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel)
	gateway := assistant.NewGateway(gemini, catalog, assistant.Options{Timeout: cfg.AssistantTimeout})
	chat := assistant.NewConversation(gateway)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter()
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           setupRouter(api.NewHandler(s, chat), limiter, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("storefront server running",
			zap.String("addr", srv.Addr),
			zap.Int("products", catalog.Len()),
			zap.String("model", cfg.GeminiModel),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Leave room for an in-flight assistant call to finish.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.AssistantTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// setupRouter wraps the gin routes in the net/http middleware chain.
// Request IDs are assigned first so every later log line carries one.
func setupRouter(h *api.Handler, limiter *middleware.RateLimiter, origins []string) http.Handler {
	router := gin.New()
	h.SetupRoutes(router)

	var handler http.Handler = router
	handler = middleware.CORSWithOrigins(origins...)(handler)
	handler = limiter.Middleware(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}
