// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package api

import (
	"net/http"
	"strconv"

	"github.com/smartbag/smartbag/internal/metrics"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestMetrics counts requests by method, path, and status. The websocket
// endpoint is skipped because hijacked connections never write a status and
// the recorder would break the http.Hijacker upgrade.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}
