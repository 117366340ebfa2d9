// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveHandlerCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(HandlerErrorsTotal.WithLabelValues("add_product"))

	ObserveHandler("add_product", time.Now().Add(-5*time.Millisecond), nil)
	ObserveHandler("add_product", time.Now().Add(-5*time.Millisecond), errors.New("boom"))

	after := testutil.ToFloat64(HandlerErrorsTotal.WithLabelValues("add_product"))
	if after-before != 1 {
		t.Errorf("handler errors delta = %v, want 1", after-before)
	}
}

func TestObserveStoreQueryCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(StoreErrorsTotal.WithLabelValues("find", "products"))

	ObserveStoreQuery("find", "products", time.Now(), nil)
	ObserveStoreQuery("find", "products", time.Now(), errors.New("timeout"))

	after := testutil.ToFloat64(StoreErrorsTotal.WithLabelValues("find", "products"))
	if after-before != 1 {
		t.Errorf("store errors delta = %v, want 1", after-before)
	}
}

func TestSessionGaugeMoves(t *testing.T) {
	SessionsActive.Set(3)
	if got := testutil.ToFloat64(SessionsActive); got != 3 {
		t.Errorf("sessions gauge = %v, want 3", got)
	}
	SessionsActive.Set(0)
}
