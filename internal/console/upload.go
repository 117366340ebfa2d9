// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/smartbag/smartbag/internal/logging"
	"github.com/smartbag/smartbag/internal/media"
	"github.com/smartbag/smartbag/internal/metrics"
	"github.com/smartbag/smartbag/internal/models"
)

// Decoded image payload bounds.
const (
	minImageBytes = 1024
	maxImageBytes = 10 << 20
)

// Uploader is the slice of the media client the handlers need. Tests
// substitute an in-memory fake.
type Uploader interface {
	Upload(ctx context.Context, folder, publicID string, data []byte) (*media.Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// hasImagePayload reports whether a raw media field carries new data. Any
// value not starting with "data:" means keep the existing media untouched.
func hasImagePayload(raw string) bool {
	return strings.HasPrefix(raw, "data:")
}

// decodeImagePayload decodes a data-URI base64 image and enforces the size
// bounds on the decoded bytes.
func decodeImagePayload(raw string) ([]byte, error) {
	idx := strings.Index(raw, ";base64,")
	if !strings.HasPrefix(raw, "data:") || idx < 0 {
		return nil, fmt.Errorf("image payload is not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(raw[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("image payload is not valid base64: %w", err)
	}
	if len(data) < minImageBytes {
		return nil, fmt.Errorf("image too small: %d bytes, minimum is %d", len(data), minImageBytes)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image too large: %d bytes, maximum is %d", len(data), maxImageBytes)
	}
	return data, nil
}

// uploadImages pushes N decoded payloads to the media host, emitting a
// progress frame per step to the initiating session. A failed upload is
// logged and skipped: the caller persists the entity with whatever assets
// succeeded. The returned slice is in payload order with failures omitted.
func uploadImages(ctx context.Context, s *Session, up Uploader, folder, publicIDPrefix string, payloads [][]byte) []models.ImageAsset {
	n := len(payloads)
	assets := make([]models.ImageAsset, 0, n)
	failed := 0

	for i, data := range payloads {
		publicID := publicIDPrefix
		if n > 1 {
			publicID = fmt.Sprintf("%s_image_%d", publicIDPrefix, i)
		}
		progress := (i + 1) * 100 / n
		_ = s.Send(progressFrame(fmt.Sprintf("Uploading image %d of %d", i+1, n), progress))

		asset, err := up.Upload(ctx, folder, publicID, data)
		if err != nil {
			failed++
			metrics.MediaUploadsTotal.WithLabelValues(folder, uploadOutcome(err)).Inc()
			logging.Warn().
				Err(err).
				Str("folder", folder).
				Str("public_id", publicID).
				Msg("media upload failed, continuing without asset")
			continue
		}
		metrics.MediaUploadsTotal.WithLabelValues(folder, "ok").Inc()
		assets = append(assets, models.ImageAsset{
			URL:          asset.URL,
			ThumbnailURL: asset.ThumbnailURL,
			PublicID:     asset.PublicID,
		})
	}

	if failed > 0 {
		_ = s.Send(progressFrame(
			fmt.Sprintf("Upload finished: %d of %d images stored", n-failed, n), 100))
	}
	return assets
}

func uploadOutcome(err error) string {
	if errors.Is(err, media.ErrUnavailable) {
		return "unavailable"
	}
	return "error"
}

// deleteAssets issues best-effort deletes for recorded media objects.
// Failures are logged and ignored; an orphan asset on the media host is
// acceptable, a blocked mutation is not.
func deleteAssets(ctx context.Context, up Uploader, assets ...models.ImageAsset) {
	for _, a := range assets {
		if a.PublicID == "" {
			continue
		}
		if err := up.Delete(ctx, a.PublicID); err != nil {
			logging.Warn().Err(err).Str("public_id", a.PublicID).Msg("media delete failed")
		}
	}
}
