// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PricingConfig is the single active pricing document. A default is seeded on
// first access.
type PricingConfig struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeliveryFee           float64            `bson:"delivery_fee" json:"delivery_fee"`
	FreeDeliveryThreshold float64            `bson:"free_delivery_threshold" json:"free_delivery_threshold"`
	HandlingFee           float64            `bson:"handling_fee" json:"handling_fee"`
	SurgeMultiplier       float64            `bson:"surge_multiplier" json:"surge_multiplier"`
	SurgeEnabled          bool               `bson:"surge_enabled" json:"surge_enabled"`
	IsActive              bool               `bson:"is_active" json:"is_active"`
	UpdatedBy             string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updated_at"`
}

// DefaultPricingConfig is the document seeded when no active pricing record
// exists yet.
func DefaultPricingConfig() *PricingConfig {
	return &PricingConfig{
		DeliveryFee:           25,
		FreeDeliveryThreshold: 199,
		HandlingFee:           5,
		SurgeMultiplier:       1.0,
		SurgeEnabled:          false,
		IsActive:              true,
		UpdatedBy:             "system",
		UpdatedAt:             time.Now().UTC(),
	}
}

// AnalyticsSummary is the aggregate returned by get_analytics for one period.
type AnalyticsSummary struct {
	Period       string    `json:"period"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	TotalOrders  int64     `json:"total_orders"`
	TotalRevenue float64   `json:"total_revenue"`
	NewUsers     int64     `json:"new_users"`
	NewTickets   int64     `json:"new_tickets"`
}
