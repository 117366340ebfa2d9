// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Package media implements the client for the remote media host: upload a
// binary blob, get back a stable public id plus size-variant URLs, delete by
// public id. All calls run behind a circuit breaker so a down media host
// degrades to "entity without media" instead of hanging every write handler.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/smartbag/smartbag/internal/config"
	"github.com/smartbag/smartbag/internal/logging"
)

// ErrUnavailable reports that the media host is unreachable or the circuit is
// open. Callers treat it as a partial-success condition, never as a mutation
// failure.
var ErrUnavailable = errors.New("media host unavailable")

// Asset is the media host's record of one uploaded blob.
type Asset struct {
	PublicID     string `json:"public_id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Client talks to the media host over HTTP.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client
	cb        *gobreaker.CircuitBreaker[*Asset]
}

// NewClient creates a media host client. Circuit breaker configuration:
// opens after 60% failure rate with minimum 5 requests, waits 1 minute before
// attempting recovery, allows 2 probe requests in half-open state.
func NewClient(cfg *config.MediaConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*Asset](gobreaker.Settings{
		Name:        "media-host",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("media host circuit breaker state transition")
		},
	})

	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		http:      &http.Client{Timeout: timeout},
		cb:        cb,
	}
}

// uploadRequest is the media host's upload payload.
type uploadRequest struct {
	Folder   string `json:"folder"`
	PublicID string `json:"public_id"`
	Data     []byte `json:"data"`
}

// Upload pushes a blob to the media host under the given folder and public
// id, returning the stored asset record. The public id is deterministic so a
// re-upload replaces the prior variant set.
func (c *Client) Upload(ctx context.Context, folder, publicID string, data []byte) (*Asset, error) {
	asset, err := c.cb.Execute(func() (*Asset, error) {
		body, err := json.Marshal(uploadRequest{Folder: folder, PublicID: publicID, Data: data})
		if err != nil {
			return nil, fmt.Errorf("failed to encode upload request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/assets", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build upload request: %w", err)
		}
		c.authorize(req)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("media host request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, fmt.Errorf("media host returned status %d", resp.StatusCode)
		}

		var asset Asset
		if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
			return nil, fmt.Errorf("failed to decode media host response: %w", err)
		}
		if asset.PublicID == "" {
			asset.PublicID = publicID
		}
		return &asset, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Str("public_id", publicID).Msg("media upload rejected, circuit open")
			return nil, ErrUnavailable
		}
		return nil, err
	}
	return asset, nil
}

// Delete removes an asset by its public id. A 404 from the host counts as
// success: the asset is already gone.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	_, err := c.cb.Execute(func() (*Asset, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
			c.baseURL+"/v1/assets/"+url.PathEscape(publicID), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build delete request: %w", err)
		}
		c.authorize(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("media host request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent &&
			resp.StatusCode != http.StatusNotFound {
			return nil, fmt.Errorf("media host returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return ErrUnavailable
		}
		return err
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.SetBasicAuth(c.apiKey, c.apiSecret)
	}
}
