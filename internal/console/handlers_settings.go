// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smartbag/smartbag/internal/models"
)

// inventoryFrame builds the low-stock view: items below the threshold in
// ascending stock order, plus the total product count for context.
func (h *Handlers) inventoryFrame(ctx context.Context) (Frame, error) {
	lowStock, err := h.store.LowStockProducts(ctx, lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock products: %w", err)
	}
	total, err := h.store.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return Frame{
		"type":           TypeInventoryData,
		"data":           lowStock,
		"total_products": total,
	}, nil
}

func (h *Handlers) getInventoryStatus(ctx context.Context, s *Session, _ *Envelope) error {
	frame, err := h.inventoryFrame(ctx)
	if err != nil {
		return err
	}
	return s.Send(frame)
}

// analyticsWindow resolves a period token into a concrete UTC window ending
// now.
func analyticsWindow(period string, now time.Time) (from time.Time, normalized string, err error) {
	switch period {
	case "", "day":
		return now.Truncate(24 * time.Hour), "day", nil
	case "week":
		return now.AddDate(0, 0, -7), "week", nil
	case "month":
		return now.AddDate(0, -1, 0), "month", nil
	default:
		return time.Time{}, "", fmt.Errorf("invalid analytics period: %s", period)
	}
}

func (h *Handlers) getAnalytics(ctx context.Context, s *Session, env *Envelope) error {
	now := time.Now().UTC()
	from, period, err := analyticsWindow(strings.TrimSpace(strField(env.Data, "period")), now)
	if err != nil {
		return err
	}

	summary, err := h.store.AnalyticsSummary(ctx, from, now)
	if err != nil {
		return fmt.Errorf("failed to compute analytics: %w", err)
	}
	summary.Period = period
	summary.From = from
	summary.To = now

	return s.Send(Frame{"type": "analytics_data", "data": summary})
}

func (h *Handlers) getPricingConfig(ctx context.Context, s *Session, _ *Envelope) error {
	cfg, err := h.activePricing(ctx)
	if err != nil {
		return err
	}
	return s.Send(Frame{"type": "pricing_config_data", "data": cfg})
}

func (h *Handlers) updatePricingConfig(ctx context.Context, s *Session, env *Envelope) error {
	cfg, err := h.activePricing(ctx)
	if err != nil {
		return err
	}

	if v, ok := floatField(env.Data, "delivery_fee"); ok {
		cfg.DeliveryFee = v
	}
	if v, ok := floatField(env.Data, "free_delivery_threshold"); ok {
		cfg.FreeDeliveryThreshold = v
	}
	if v, ok := floatField(env.Data, "handling_fee"); ok {
		cfg.HandlingFee = v
	}
	if v, ok := floatField(env.Data, "surge_multiplier"); ok {
		cfg.SurgeMultiplier = v
	}
	if v, ok := boolField(env.Data, "surge_enabled"); ok {
		cfg.SurgeEnabled = v
	}

	cfg.UpdatedBy = actorEmail(s.Identity())
	cfg.UpdatedAt = time.Now().UTC()
	if err := h.store.SavePricing(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save pricing config: %w", err)
	}

	return s.Send(Frame{"type": "pricing_config_updated", "data": cfg})
}

// activePricing returns the single active pricing document, seeding the
// default on first access.
func (h *Handlers) activePricing(ctx context.Context) (*models.PricingConfig, error) {
	cfg, err := h.store.GetActivePricing(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load pricing config: %w", err)
	}

	cfg = models.DefaultPricingConfig()
	if err := h.store.SavePricing(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to seed pricing config: %w", err)
	}
	return cfg, nil
}
