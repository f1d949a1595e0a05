package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"montraa-store/internal/assistant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestCors(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := CORS(nextHandler)

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/state", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/state", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Listed origin is echoed", func(t *testing.T) {
		h := CORSWithOrigins("http://localhost:3000", "http://localhost:5173")(nextHandler)
		req := httptest.NewRequest("GET", "/api/state", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestResolveRateTier(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		header string
		limit  rate.Limit
		tier   string
	}{
		{"chat send is strict", http.MethodPost, "/api/chat", "", limitStrict, "strict"},
		{"login is strict", http.MethodPost, "/api/session/login", "", limitStrict, "strict"},
		{"chat transcript is general", http.MethodGet, "/api/chat", "", limitGeneral, "general"},
		{"frontend heavy", http.MethodGet, "/api/products", "frontend-heavy", limitFrontend, "frontend"},
		{"default", http.MethodGet, "/api/products", "", limitGeneral, "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("X-Client-Type", tt.header)
			}

			limit, _, tier := resolveRateTier(req)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.tier, tier)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote, device string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.RemoteAddr = remote
		if device != "" {
			req.Header.Set("X-Device-ID", device)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("Blocks after strict burst", func(t *testing.T) {
		for i := 0; i < burstStrict; i++ {
			assert.Equal(t, http.StatusOK, send("10.0.0.1:1234", ""))
		}
		assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1234", ""))
	})

	t.Run("Other clients keep their quota", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send("10.0.0.2:1234", ""))
		assert.Equal(t, http.StatusOK, send("10.0.0.1:1234", "device-a"))
	})

	t.Run("Tiers are separate buckets", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestClientIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "ip:192.168.1.5", clientIdentity(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "ip:no-port", clientIdentity(req))

	req.Header.Set("X-Device-ID", "abc")
	assert.Equal(t, "device:abc", clientIdentity(req))
}

func TestRateLimitMiddleware_ChatGetsDisplayableReply(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var w *httptest.ResponseRecorder
	for i := 0; i <= burstStrict; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.RemoteAddr = "10.9.9.9:1234"
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var msg struct {
		ID      string `json:"id"`
		Role    string `json:"role"`
		Text    string `json:"text"`
		Failure string `json:"failure"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "model", msg.Role)
	assert.Equal(t, assistant.MessageRateLimited, msg.Text)
	assert.Equal(t, "rate_limited", msg.Failure)

	login := httptest.NewRequest(http.MethodPost, "/api/session/login", nil)
	login.RemoteAddr = "10.9.9.9:1234"
	for i := 0; i <= burstStrict; i++ {
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, login)
	}
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too Many Requests")
}
