package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const localDevOrigin = "http://localhost:5173"

// CORS returns middleware allowing the configured web client origins.
func CORS(origins ...string) func(http.Handler) http.Handler {
	allowed := []string{localDevOrigin}
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" && origin != localDevOrigin {
			allowed = append(allowed, origin)
		}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
