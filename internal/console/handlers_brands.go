// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartbag/smartbag/internal/models"
)

func (h *Handlers) getBrands(ctx context.Context, s *Session, _ *Envelope) error {
	brands, err := h.store.ListBrands(ctx)
	if err != nil {
		return fmt.Errorf("failed to load brands: %w", err)
	}
	return s.Send(Frame{"type": TypeBrandsData, "data": brands})
}

func (h *Handlers) createBrand(ctx context.Context, s *Session, env *Envelope) error {
	name, err := requiredStr(env.Data, "name")
	if err != nil {
		return err
	}

	// Decode before mutating so an out-of-bounds payload rejects the whole
	// request instead of leaving a half-written brand.
	var logoData []byte
	if raw := strField(env.Data, "logo"); hasImagePayload(raw) {
		if logoData, err = decodeImagePayload(raw); err != nil {
			return err
		}
	}

	status, active := normalizeStatus(strField(env.Data, "status"))
	actor := actorEmail(s.Identity())
	now := time.Now().UTC()
	brand := &models.Brand{
		Name:        name,
		Description: strField(env.Data, "description"),
		Status:      status,
		IsActive:    active,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.InsertBrand(ctx, brand); err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}

	if logoData != nil {
		assets := uploadImages(ctx, s, h.media, "brands", "brand_"+brand.ID.Hex(), [][]byte{logoData})
		if len(assets) > 0 {
			brand.Logo = &assets[0]
			if err := h.store.UpdateBrand(ctx, brand); err != nil {
				return fmt.Errorf("failed to attach brand logo: %w", err)
			}
		}
	}

	if err := s.Send(Frame{"type": "brand_created", "data": brand}); err != nil {
		return err
	}
	h.broadcastBrands(ctx)
	return nil
}

func (h *Handlers) updateBrand(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}

	var logoData []byte
	if raw := strField(env.Data, "logo"); hasImagePayload(raw) {
		if logoData, err = decodeImagePayload(raw); err != nil {
			return err
		}
	}

	brand, err := h.store.GetBrand(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("brand not found")
		}
		return fmt.Errorf("failed to load brand: %w", err)
	}

	if name := strField(env.Data, "name"); name != "" {
		brand.Name = name
	}
	if _, present := env.Data["description"]; present {
		brand.Description = strField(env.Data, "description")
	}
	if raw := strField(env.Data, "status"); raw != "" {
		brand.Status, brand.IsActive = normalizeStatus(raw)
	}

	if logoData != nil {
		if brand.Logo != nil {
			deleteAssets(ctx, h.media, *brand.Logo)
		}
		assets := uploadImages(ctx, s, h.media, "brands", "brand_"+brand.ID.Hex(), [][]byte{logoData})
		if len(assets) > 0 {
			brand.Logo = &assets[0]
		}
	}

	brand.UpdatedBy = actorEmail(s.Identity())
	brand.UpdatedAt = time.Now().UTC()
	if err := h.store.UpdateBrand(ctx, brand); err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}

	if err := s.Send(Frame{"type": "brand_updated", "data": brand}); err != nil {
		return err
	}
	h.broadcastBrands(ctx)
	return nil
}

// deleteBrand removes the document and best-effort deletes its logo asset.
// Product references do not block deletion on the admin path.
func (h *Handlers) deleteBrand(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}

	brand, err := h.store.GetBrand(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("brand not found")
		}
		return fmt.Errorf("failed to load brand: %w", err)
	}

	if err := h.store.DeleteBrand(ctx, id); err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	if brand.Logo != nil {
		deleteAssets(ctx, h.media, *brand.Logo)
	}

	if err := s.Send(Frame{"type": "brand_deleted", "data": Frame{"_id": id.Hex()}}); err != nil {
		return err
	}
	h.broadcastBrands(ctx)
	return nil
}
