package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Logging wraps a handler with request logging. Each request gets a short
// id so concurrent request lines can be correlated.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()[:8]

		next.ServeHTTP(w, r)

		log.Printf("[%s] %s %s %s", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}

// CORS allows cross-origin calls from any origin. The front end is served
// separately and the public API carries no credentials.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Middleware holds dependencies for route middleware
type Middleware struct {
	tokenSecret []byte
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokenSecret string) *Middleware {
	return &Middleware{tokenSecret: []byte(tokenSecret)}
}

// RequireAdmin guards operator routes with a bearer token minted by the
// admin login endpoint
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(m.tokenSecret) == 0 {
			respondWithError(w, http.StatusUnauthorized, "Admin API not configured", "", nil)
			return
		}

		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing bearer token", "", nil)
			return
		}

		parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
		_, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return m.tokenSecret, nil
		})
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid token", "Admin token rejected", err)
			return
		}

		next(w, r)
	}
}
