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

// productsFrame builds the products_data frame. The catalog's categories and
// brands ride along so clients can render the product form without extra
// round-trips.
func (h *Handlers) productsFrame(ctx context.Context) (Frame, error) {
	products, err := h.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	brands, err := h.store.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load brands: %w", err)
	}
	return Frame{
		"type":       TypeProductsData,
		"data":       products,
		"categories": categories,
		"brands":     brands,
	}, nil
}

func (h *Handlers) getProducts(ctx context.Context, s *Session, _ *Envelope) error {
	frame, err := h.productsFrame(ctx)
	if err != nil {
		return err
	}
	return s.Send(frame)
}

// splitImagePayloads partitions a raw images list into existing assets to
// keep and new data-URI payloads to upload. Existing assets arrive as
// {url, thumbnail_url, public_id} objects or bare URL strings.
func splitImagePayloads(raw any) (kept []models.ImageAsset, uploads [][]byte, err error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, nil, nil
	}
	for _, item := range list {
		switch v := item.(type) {
		case string:
			if hasImagePayload(v) {
				data, err := decodeImagePayload(v)
				if err != nil {
					return nil, nil, err
				}
				uploads = append(uploads, data)
			} else if v != "" {
				kept = append(kept, models.ImageAsset{URL: v})
			}
		case map[string]any:
			if url, _ := v["url"].(string); url != "" {
				thumb, _ := v["thumbnail_url"].(string)
				publicID, _ := v["public_id"].(string)
				kept = append(kept, models.ImageAsset{URL: url, ThumbnailURL: thumb, PublicID: publicID})
			}
		}
	}
	return kept, uploads, nil
}

func (h *Handlers) createProduct(ctx context.Context, s *Session, env *Envelope) error {
	name, err := requiredStr(env.Data, "name")
	if err != nil {
		return err
	}
	price, ok := floatField(env.Data, "price")
	if !ok {
		return fmt.Errorf("price is required")
	}
	stock, _ := intField(env.Data, "stock")
	categoryID, err := objectIDField(env.Data, "category_id")
	if err != nil {
		return err
	}
	brandID, err := objectIDField(env.Data, "brand_id")
	if err != nil {
		return err
	}

	_, uploads, err := splitImagePayloads(env.Data["images"])
	if err != nil {
		return err
	}
	if len(uploads) > models.MaxProductImages {
		return fmt.Errorf("a product accepts at most %d images", models.MaxProductImages)
	}

	status, active := normalizeStatus(strField(env.Data, "status"))
	actor := actorEmail(s.Identity())
	now := time.Now().UTC()
	product := &models.Product{
		Name:        name,
		Description: strField(env.Data, "description"),
		Price:       price,
		Stock:       stock,
		CategoryID:  categoryID,
		BrandID:     brandID,
		Status:      status,
		IsActive:    active,
		Images:      []models.ImageAsset{},
		Keywords:    dedupeKeywords(env.Data["keywords"], maxProductKeywords),
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.InsertProduct(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if len(uploads) > 0 {
		assets := uploadImages(ctx, s, h.media, "products", "product_"+product.ID.Hex(), uploads)
		if len(assets) > 0 {
			product.Images = assets
			if err := h.store.UpdateProduct(ctx, product); err != nil {
				return fmt.Errorf("failed to attach product images: %w", err)
			}
		}
	}

	if err := s.Send(Frame{"type": "product_created", "data": product}); err != nil {
		return err
	}
	h.broadcastProducts(ctx)
	return nil
}

func (h *Handlers) updateProduct(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}

	product, err := h.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("product not found")
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	if name := strField(env.Data, "name"); name != "" {
		product.Name = name
	}
	if _, present := env.Data["description"]; present {
		product.Description = strField(env.Data, "description")
	}
	if price, ok := floatField(env.Data, "price"); ok {
		product.Price = price
	}
	if stock, ok := intField(env.Data, "stock"); ok {
		product.Stock = stock
	}
	if raw := strField(env.Data, "status"); raw != "" {
		product.Status, product.IsActive = normalizeStatus(raw)
	}
	if _, present := env.Data["category_id"]; present {
		if product.CategoryID, err = objectIDField(env.Data, "category_id"); err != nil {
			return err
		}
	}
	if _, present := env.Data["brand_id"]; present {
		if product.BrandID, err = objectIDField(env.Data, "brand_id"); err != nil {
			return err
		}
	}
	if _, present := env.Data["keywords"]; present {
		product.Keywords = dedupeKeywords(env.Data["keywords"], maxProductKeywords)
	}

	if _, present := env.Data["images"]; present {
		kept, uploads, err := splitImagePayloads(env.Data["images"])
		if err != nil {
			return err
		}
		if len(kept)+len(uploads) > models.MaxProductImages {
			return fmt.Errorf("a product accepts at most %d images", models.MaxProductImages)
		}

		// Assets recorded on the document but absent from the kept list are
		// replaced: delete them from the media host before uploading.
		keptIDs := make(map[string]struct{}, len(kept))
		for _, a := range kept {
			if a.PublicID != "" {
				keptIDs[a.PublicID] = struct{}{}
			}
		}
		var dropped []models.ImageAsset
		for _, a := range product.Images {
			if _, keep := keptIDs[a.PublicID]; !keep {
				dropped = append(dropped, a)
			}
		}
		deleteAssets(ctx, h.media, dropped...)

		images := kept
		if len(uploads) > 0 {
			prefix := fmt.Sprintf("product_%s_%d", product.ID.Hex(), time.Now().Unix())
			images = append(images, uploadImages(ctx, s, h.media, "products", prefix, uploads)...)
		}
		product.Images = images
	}

	product.UpdatedBy = actorEmail(s.Identity())
	product.UpdatedAt = time.Now().UTC()
	if err := h.store.UpdateProduct(ctx, product); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if err := s.Send(Frame{"type": "product_updated", "data": product}); err != nil {
		return err
	}
	h.broadcastProducts(ctx)
	return nil
}

// deleteProduct removes the document and cascades a best-effort delete of
// every recorded media object.
func (h *Handlers) deleteProduct(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}

	product, err := h.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("product not found")
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	if err := h.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	deleteAssets(ctx, h.media, product.Images...)

	if err := s.Send(Frame{"type": "product_deleted", "data": Frame{"_id": id.Hex()}}); err != nil {
		return err
	}
	h.broadcastProducts(ctx)
	return nil
}
