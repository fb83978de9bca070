/*
ASA-graph sensor REST API

Version: 1.0.0
BasePath: /api/v1

SecurityDefinitions:
  - ApiKeyAuth:
    type: apiKey
    in: header
    name: X-API-Key

swagger:meta
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/neurago/asagraph/pkg/registry"
)

// NewRouter builds the chi router for the given server.
func NewRouter(server *Server) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		if server.metrics != nil {
			r.Use(server.metrics.Middleware)
		}
		r.Use(requireAPIKey(server.config.APIKey))

		r.Get("/health", server.handleHealth)

		r.Get("/sensors", server.handleListSensors)
		r.Get("/sensors/{name}", server.handleSensorStats)
		r.Get("/sensors/{name}/tree", server.handleTree)
		r.Post("/sensors/{name}/values", server.handleInsert)
		r.Get("/sensors/{name}/values/{value}", server.handleSearch)
		r.Post("/sensors/{name}/activate", server.handleActivate)
		r.Post("/sensors/{name}/deactivate", server.handleDeactivate)
		r.Post("/sensors/{name}/reset", server.handleReset)
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", server.config.Port)),
	))

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(reg *registry.Manager, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(reg, config, metrics)
	r := NewRouter(server)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting ASA-graph REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, r)
}
