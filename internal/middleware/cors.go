package middleware

import (
	"net/http"
	"strings"
)

const defaultOrigin = "http://localhost:3000"

var (
	allowedMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	allowedHeaders = "Content-Type, X-Request-ID, X-Device-ID, X-Client-Type"
)

// CORS allows the local storefront UI to call the API.
func CORS(next http.Handler) http.Handler {
	return CORSWithOrigins(defaultOrigin)(next)
}

// CORSWithOrigins echoes the request origin when it is listed. The first
// origin is used for requests that send none.
func CORSWithOrigins(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{defaultOrigin}
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = origins[0]
			}
			if _, ok := allowed[origin]; ok {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", allowedMethods)
				h.Set("Access-Control-Allow-Headers", allowedHeaders)
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
