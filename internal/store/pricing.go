// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartbag/smartbag/internal/metrics"
	"github.com/smartbag/smartbag/internal/models"
)

func (s *Store) GetActivePricing(ctx context.Context) (*models.PricingConfig, error) {
	start := time.Now()
	var cfg models.PricingConfig
	err := s.db.Collection(colPricing).FindOne(ctx, bson.M{"is_active": true}).Decode(&cfg)
	metrics.ObserveStoreQuery("find_one", colPricing, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &cfg, nil
}

// SavePricing upserts the pricing document so the first save seeds it.
func (s *Store) SavePricing(ctx context.Context, cfg *models.PricingConfig) error {
	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
	}
	start := time.Now()
	_, err := s.db.Collection(colPricing).ReplaceOne(ctx, bson.M{"_id": cfg.ID}, cfg,
		options.Replace().SetUpsert(true))
	metrics.ObserveStoreQuery("replace_one", colPricing, start, err)
	if err != nil {
		return fmt.Errorf("failed to save pricing config: %w", err)
	}
	return nil
}

// AnalyticsSummary computes order, revenue, user, and ticket aggregates for
// one reporting window. Cancelled orders are excluded from revenue.
func (s *Store) AnalyticsSummary(ctx context.Context, from, to time.Time) (*models.AnalyticsSummary, error) {
	window := bson.M{"created_at": bson.M{"$gte": from, "$lte": to}}
	summary := &models.AnalyticsSummary{From: from, To: to}

	start := time.Now()
	orders, err := s.db.Collection(colOrders).CountDocuments(ctx, window)
	metrics.ObserveStoreQuery("count", colOrders, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	summary.TotalOrders = orders

	start = time.Now()
	cursor, err := s.db.Collection(colOrders).Aggregate(ctx, bson.A{
		bson.M{"$match": bson.M{
			"created_at":   bson.M{"$gte": from, "$lte": to},
			"order_status": bson.M{"$ne": models.OrderStatusCancelled},
		}},
		bson.M{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total_amount"}}},
	})
	metrics.ObserveStoreQuery("aggregate", colOrders, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	var revenue []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &revenue); err != nil {
		return nil, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(revenue) > 0 {
		summary.TotalRevenue = revenue[0].Revenue
	}

	start = time.Now()
	users, err := s.db.Collection(colUsers).CountDocuments(ctx, window)
	metrics.ObserveStoreQuery("count", colUsers, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}
	summary.NewUsers = users

	start = time.Now()
	tickets, err := s.db.Collection(colTickets).CountDocuments(ctx, window)
	metrics.ObserveStoreQuery("count", colTickets, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to count new tickets: %w", err)
	}
	summary.NewTickets = tickets

	return summary, nil
}
