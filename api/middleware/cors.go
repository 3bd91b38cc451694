package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the storefront UI origins to call the API and read the request id.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", ProfileHeader, UserHeader, RequestIDHeader, IdempotencyHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
