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

func (h *Handlers) getCategories(ctx context.Context, s *Session, _ *Envelope) error {
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	return s.Send(Frame{"type": TypeCategoriesData, "data": categories})
}

func (h *Handlers) createCategory(ctx context.Context, s *Session, env *Envelope) error {
	name, err := requiredStr(env.Data, "name")
	if err != nil {
		return err
	}
	parentID, err := objectIDField(env.Data, "parent_id")
	if err != nil {
		return err
	}

	var imageData []byte
	if raw := strField(env.Data, "image"); hasImagePayload(raw) {
		if imageData, err = decodeImagePayload(raw); err != nil {
			return err
		}
	}

	status, active := normalizeStatus(strField(env.Data, "status"))
	actor := actorEmail(s.Identity())
	now := time.Now().UTC()
	category := &models.Category{
		Name:        name,
		Description: strField(env.Data, "description"),
		Status:      status,
		IsActive:    active,
		ParentID:    parentID,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.InsertCategory(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	if imageData != nil {
		assets := uploadImages(ctx, s, h.media, "categories", "category_"+category.ID.Hex(), [][]byte{imageData})
		if len(assets) > 0 {
			category.Image = &assets[0]
			if err := h.store.UpdateCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to attach category image: %w", err)
			}
		}
	}

	if err := s.Send(Frame{"type": "category_created", "data": category}); err != nil {
		return err
	}
	h.broadcastCategories(ctx)
	return nil
}

func (h *Handlers) updateCategory(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}

	var imageData []byte
	if raw := strField(env.Data, "image"); hasImagePayload(raw) {
		if imageData, err = decodeImagePayload(raw); err != nil {
			return err
		}
	}

	category, err := h.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("category not found")
		}
		return fmt.Errorf("failed to load category: %w", err)
	}

	if name := strField(env.Data, "name"); name != "" {
		category.Name = name
	}
	if _, present := env.Data["description"]; present {
		category.Description = strField(env.Data, "description")
	}
	if raw := strField(env.Data, "status"); raw != "" {
		category.Status, category.IsActive = normalizeStatus(raw)
	}
	if _, present := env.Data["parent_id"]; present {
		parentID, err := objectIDField(env.Data, "parent_id")
		if err != nil {
			return err
		}
		category.ParentID = parentID
	}

	if imageData != nil {
		if category.Image != nil {
			deleteAssets(ctx, h.media, *category.Image)
		}
		assets := uploadImages(ctx, s, h.media, "categories", "category_"+category.ID.Hex(), [][]byte{imageData})
		if len(assets) > 0 {
			category.Image = &assets[0]
		}
	}

	category.UpdatedBy = actorEmail(s.Identity())
	category.UpdatedAt = time.Now().UTC()
	if err := h.store.UpdateCategory(ctx, category); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	if err := s.Send(Frame{"type": "category_updated", "data": category}); err != nil {
		return err
	}
	h.broadcastCategories(ctx)
	return nil
}

// deleteCategory refuses to delete a category that still has child
// categories referencing it as parent.
func (h *Handlers) deleteCategory(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}

	category, err := h.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("category not found")
		}
		return fmt.Errorf("failed to load category: %w", err)
	}

	children, err := h.store.CountChildCategories(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check child categories: %w", err)
	}
	if children > 0 {
		return fmt.Errorf("cannot delete category: %d child categories reference it", children)
	}

	if err := h.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if category.Image != nil {
		deleteAssets(ctx, h.media, *category.Image)
	}

	if err := s.Send(Frame{"type": "category_deleted", "data": Frame{"_id": id.Hex()}}); err != nil {
		return err
	}
	h.broadcastCategories(ctx)
	return nil
}
