// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/smartbag/smartbag/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.MediaConfig{
		BaseURL: baseURL,
		APIKey:  "key",
		Timeout: 2 * time.Second,
	})
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/assets" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Folder != "brands" || req.PublicID != "brand_abc" {
			t.Errorf("unexpected folder/public_id: %q/%q", req.Folder, req.PublicID)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Asset{
			PublicID:     "brand_abc",
			URL:          "https://cdn.example.com/brand_abc.png",
			ThumbnailURL: "https://cdn.example.com/brand_abc_thumb.png",
		})
	}))
	defer srv.Close()

	asset, err := newTestClient(srv.URL).Upload(context.Background(), "brands", "brand_abc", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if asset.URL != "https://cdn.example.com/brand_abc.png" {
		t.Errorf("url = %q", asset.URL)
	}
	if asset.ThumbnailURL == "" {
		t.Error("thumbnail url missing")
	}
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Upload(context.Background(), "products", "p_1", []byte("x")); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestDeleteTreatsNotFoundAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).Delete(context.Background(), "gone"); err != nil {
		t.Errorf("Delete of missing asset should succeed, got %v", err)
	}
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	for i := 0; i < 10; i++ {
		_, _ = c.Upload(context.Background(), "brands", "b", []byte("x"))
	}

	// By now the breaker has tripped; the failure surfaces as ErrUnavailable
	// without hitting the host.
	_, err := c.Upload(context.Background(), "brands", "b", []byte("x"))
	if err == nil {
		t.Fatal("expected error after repeated failures")
	}
}
