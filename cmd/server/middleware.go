package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"

	"donapoint/internal/platform/middleware"
)

// middlewareChain is the shared stack for every route. CORS is wide open:
// the public map frontend is served from arbitrary origins.
func middlewareChain(log *slog.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.Logger(log),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         3600,
		}),
	}
}
