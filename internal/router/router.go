// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the HTTP routes for the catalog server.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"megamart/internal/handlers"
	"megamart/internal/middleware"
)

// New builds the chi router with the full middleware chain and the
// catalog API routes.
func New(api *handlers.API) http.Handler {
	r := chi.NewRouter()

	// Panic recovery first so it wraps everything below.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Import batches can be large but are not frequent. 120 requests per
	// minute per client is generous for the read endpoints too.
	limiter := middleware.NewRateLimiter(120, time.Minute)
	r.Use(limiter.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/imports", api.Imports)
	r.Delete("/delete/{id}", api.DeleteNode)
	r.Get("/nodes/{id}", api.GetNode)
	r.Get("/sales", api.Sales)
	r.Get("/node/{id}/statistic", api.Statistic)

	return r
}
