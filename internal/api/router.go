// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Package api assembles the HTTP surface: the websocket console endpoint,
// health and readiness probes, and the Prometheus scrape endpoint.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartbag/smartbag/internal/config"
)

// Pinger reports backend storage health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router wires middleware and routes around the console gate.
type Router struct {
	cfg  *config.ServerConfig
	gate http.Handler
	db   Pinger
}

func NewRouter(cfg *config.ServerConfig, gate http.Handler, db Pinger) *Router {
	return &Router{cfg: cfg, gate: gate, db: db}
}

// Handler builds the full chi handler tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if !rt.cfg.RateLimitDisabled {
		r.Use(httprate.Limit(rt.cfg.RateLimitReqs, rt.cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP)))
	}

	r.Get("/healthz", rt.healthz)
	r.Get("/readyz", rt.readyz)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/ws", rt.gate)

	return r
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (rt *Router) readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := rt.db.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
