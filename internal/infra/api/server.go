package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter assembles the HTTP surface: middleware chain, versioned API
// mount, health and metrics endpoints.
func NewRouter(logger *zerolog.Logger, jwtSecret string, mount func(chi.Router)) *chi.Mux {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return Chain(next,
			TraceID(logger),
			Recover(logger),
			RequestLog(logger),
			Timeout(15*time.Second),
			Auth(jwtSecret),
		)
	})

	mount(r)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
