package server

import (
	"net/http"
	"strings"
)

// SecurityConfig controls the hardening headers and CORS behavior applied to
// every response.
type SecurityConfig struct {
	// EnableCORS turns on Access-Control-* headers for allowed origins.
	EnableCORS bool
	// AllowedOrigins lists the origins CORS requests may come from; "*"
	// matches any origin.
	AllowedOrigins []string
	// AllowedMethods lists the HTTP methods advertised to CORS clients.
	AllowedMethods []string
}

// DefaultSecurityConfig returns the configuration the daemon ships with:
// permissive CORS for the read-only dashboard, GET and OPTIONS only.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}
}

// corsOrigin resolves the Access-Control-Allow-Origin value for a request
// origin, or "" when the origin is not allowed.
func (c SecurityConfig) corsOrigin(origin string) string {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if origin != "" && allowed == origin {
			return origin
		}
	}
	return ""
}

// SecurityMiddleware applies security headers and CORS handling before
// delegating to next. OPTIONS preflight requests are answered directly with
// 204 No Content.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin := config.corsOrigin(r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}
