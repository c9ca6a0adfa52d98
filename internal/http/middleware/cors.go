package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/straye-as/client-admin/internal/config"
	"go.uber.org/zap"
)

// CORS lets the configured browser origins call the console. A "*" origin
// is honoured only in development; elsewhere it is ignored with a warning.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	dev := environment == "development" || environment == "local" || environment == ""
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	wildcard := false
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		origins = append(origins, o)
	}

	switch {
	case wildcard && dev:
		options.AllowOriginFunc = func(_ *http.Request, origin string) bool { return origin != "" }
	case len(origins) > 0:
		if wildcard {
			logger.Warn("ignoring wildcard CORS origin outside development", zap.String("environment", environment))
		}
		options.AllowedOrigins = origins
	default:
		// an empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
		logger.Warn("no CORS origins allowed", zap.String("environment", environment))
	}

	return cors.Handler(options)
}
