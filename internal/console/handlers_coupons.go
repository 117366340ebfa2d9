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

func (h *Handlers) getDiscountCoupons(ctx context.Context, s *Session, _ *Envelope) error {
	coupons, err := h.store.ListCoupons(ctx)
	if err != nil {
		return fmt.Errorf("failed to load coupons: %w", err)
	}
	return s.Send(Frame{"type": TypeCouponsData, "data": coupons})
}

func (h *Handlers) createDiscountCoupon(ctx context.Context, s *Session, env *Envelope) error {
	code, err := requiredStr(env.Data, "code")
	if err != nil {
		return err
	}
	discountType, err := requiredStr(env.Data, "discount_type")
	if err != nil {
		return err
	}
	discountValue, ok := floatField(env.Data, "discount_value")
	if !ok {
		return fmt.Errorf("discount_value is required")
	}

	active := true
	if v, ok := boolField(env.Data, "is_active"); ok {
		active = v
	}
	minOrder, _ := floatField(env.Data, "min_order_amount")
	usageLimit, _ := intField(env.Data, "usage_limit")

	actor := actorEmail(s.Identity())
	now := time.Now().UTC()
	coupon := &models.Coupon{
		Code:           code,
		Description:    strField(env.Data, "description"),
		DiscountType:   discountType,
		DiscountValue:  discountValue,
		MinOrderAmount: minOrder,
		UsageLimit:     usageLimit,
		TargetAudience: strField(env.Data, "target_audience"),
		IsActive:       active,
		ExpiresAt:      timeField(env.Data, "expires_at"),
		CreatedBy:      actor,
		UpdatedBy:      actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.store.InsertCoupon(ctx, coupon); err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	if err := s.Send(Frame{"type": "coupon_created", "data": coupon}); err != nil {
		return err
	}
	h.broadcastCoupons(ctx)
	return nil
}

func (h *Handlers) updateDiscountCoupon(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}

	coupon, err := h.store.GetCoupon(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("coupon not found")
		}
		return fmt.Errorf("failed to load coupon: %w", err)
	}

	if code := strField(env.Data, "code"); code != "" {
		coupon.Code = code
	}
	if _, present := env.Data["description"]; present {
		coupon.Description = strField(env.Data, "description")
	}
	if v := strField(env.Data, "discount_type"); v != "" {
		coupon.DiscountType = v
	}
	if v, ok := floatField(env.Data, "discount_value"); ok {
		coupon.DiscountValue = v
	}
	if v, ok := floatField(env.Data, "min_order_amount"); ok {
		coupon.MinOrderAmount = v
	}
	if v, ok := intField(env.Data, "usage_limit"); ok {
		coupon.UsageLimit = v
	}
	if v := strField(env.Data, "target_audience"); v != "" {
		coupon.TargetAudience = v
	}
	if v, ok := boolField(env.Data, "is_active"); ok {
		coupon.IsActive = v
	}
	if _, present := env.Data["expires_at"]; present {
		coupon.ExpiresAt = timeField(env.Data, "expires_at")
	}

	coupon.UpdatedBy = actorEmail(s.Identity())
	coupon.UpdatedAt = time.Now().UTC()
	if err := h.store.UpdateCoupon(ctx, coupon); err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	if err := s.Send(Frame{"type": "coupon_updated", "data": coupon}); err != nil {
		return err
	}
	h.broadcastCoupons(ctx)
	return nil
}

func (h *Handlers) deleteDiscountCoupon(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}
	if err := h.store.DeleteCoupon(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("coupon not found")
		}
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	if err := s.Send(Frame{"type": "coupon_deleted", "data": Frame{"_id": id.Hex()}}); err != nil {
		return err
	}
	h.broadcastCoupons(ctx)
	return nil
}

func (h *Handlers) toggleCouponStatus(ctx context.Context, s *Session, env *Envelope) error {
	id, err := documentID(env.Data)
	if err != nil {
		return err
	}
	active, ok := boolField(env.Data, "is_active")
	if !ok {
		return fmt.Errorf("is_active is required")
	}

	coupon, err := h.store.GetCoupon(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("coupon not found")
		}
		return fmt.Errorf("failed to load coupon: %w", err)
	}

	coupon.IsActive = active
	coupon.UpdatedBy = actorEmail(s.Identity())
	coupon.UpdatedAt = time.Now().UTC()
	if err := h.store.UpdateCoupon(ctx, coupon); err != nil {
		return fmt.Errorf("failed to toggle coupon: %w", err)
	}

	if err := s.Send(Frame{"type": "coupon_toggled", "data": coupon}); err != nil {
		return err
	}
	h.broadcastCoupons(ctx)
	return nil
}

// getUserSuggestions returns customer product requests, newest first.
func (h *Handlers) getUserSuggestions(ctx context.Context, s *Session, _ *Envelope) error {
	suggestions, err := h.store.ListSuggestions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load suggestions: %w", err)
	}
	return s.Send(Frame{"type": "user_suggestions_data", "data": suggestions})
}
