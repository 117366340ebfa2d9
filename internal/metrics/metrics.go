// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Package metrics exposes the Prometheus instrumentation for the console
// fabric and its supporting stores. Collectors are registered once at init
// via promauto and referenced directly from the owning packages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Console session metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_sessions_active",
			Help: "Current number of connected admin console sessions",
		},
	)

	SessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_sessions_total",
			Help: "Total number of admitted admin console sessions",
		},
	)

	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_auth_failures_total",
			Help: "Total number of rejected console handshakes",
		},
		[]string{"reason"}, // "invalid_credentials", "not_admin", "token_expired", "token_invalid", "user_not_found"
	)

	// Message dispatch metrics
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_messages_total",
			Help: "Total number of inbound console messages by type",
		},
		[]string{"type"},
	)

	HandlerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_handler_errors_total",
			Help: "Total number of handler failures surfaced as error frames",
		},
		[]string{"type"},
	)

	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_handler_duration_seconds",
			Help:    "Handler execution time per message type",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"type"},
	)

	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_broadcasts_total",
			Help: "Total number of snapshot broadcasts by channel",
		},
		[]string{"channel"},
	)

	// Media host metrics
	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Total number of media host upload attempts",
		},
		[]string{"folder", "outcome"}, // outcome: "ok", "error", "unavailable"
	)

	// Document store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "MongoDB operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of MongoDB operation failures",
		},
		[]string{"operation", "collection"},
	)

	// HTTP surface metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveHandler records one handler execution.
func ObserveHandler(msgType string, start time.Time, err error) {
	HandlerDuration.WithLabelValues(msgType).Observe(time.Since(start).Seconds())
	if err != nil {
		HandlerErrorsTotal.WithLabelValues(msgType).Inc()
	}
}

// ObserveStoreQuery records one document store operation.
func ObserveStoreQuery(operation, collection string, start time.Time, err error) {
	StoreQueryDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreErrorsTotal.WithLabelValues(operation, collection).Inc()
	}
}
