package middleware

import (
	"net/http"

	"github.com/rejdeboer/collab-server/internal/configuration"
	"github.com/rs/cors"
)

func WithMiddleware(handler http.Handler, settings configuration.ApplicationSettings) http.Handler {
	return WithLogging(WithCors(handler, settings.CorsOrigins))
}

func WithCors(next http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	}).Handler(next)
}
