// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon target audiences. Validation of these against a cart happens in the
// customer API; the admin console only persists them.
const (
	AudienceAllUsers      = "all_users"
	AudienceSpecificUsers = "specific_users"
	AudienceNewUsers      = "new_users"
)

// Coupon is a discount coupon document.
type Coupon struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Code           string             `bson:"code" json:"code"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType   string             `bson:"discount_type" json:"discount_type"`
	DiscountValue  float64            `bson:"discount_value" json:"discount_value"`
	MinOrderAmount float64            `bson:"min_order_amount,omitempty" json:"min_order_amount,omitempty"`
	UsageLimit     int                `bson:"usage_limit,omitempty" json:"usage_limit,omitempty"`
	TargetAudience string             `bson:"target_audience,omitempty" json:"target_audience,omitempty"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	ExpiresAt      *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedBy      string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy      string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
