// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartbag/smartbag/internal/console"
	"github.com/smartbag/smartbag/internal/metrics"
	"github.com/smartbag/smartbag/internal/models"
)

// orderFilter translates a normalized query into a mongo filter document.
func orderFilter(q console.OrderQuery) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["order_status"] = q.Status
	}
	if q.From != nil || q.To != nil {
		window := bson.M{}
		if q.From != nil {
			window["$gte"] = *q.From
		}
		if q.To != nil {
			window["$lte"] = *q.To
		}
		filter["created_at"] = window
	}
	if q.MinAmount != nil || q.MaxAmount != nil {
		amount := bson.M{}
		if q.MinAmount != nil {
			amount["$gte"] = *q.MinAmount
		}
		if q.MaxAmount != nil {
			amount["$lte"] = *q.MaxAmount
		}
		filter["total_amount"] = amount
	}
	if q.Unassigned {
		// null matches both an explicit null and a missing field.
		filter["delivery_partner"] = nil
	} else if q.DeliveryPartner != nil {
		filter["delivery_partner"] = *q.DeliveryPartner
	}
	if q.OrderNumber != "" {
		filter["order_number"] = bson.M{
			"$regex": regexp.QuoteMeta(q.OrderNumber), "$options": "i",
		}
	}
	if len(q.CustomerIDs) > 0 {
		filter["user_id"] = bson.M{"$in": q.CustomerIDs}
	}
	return filter
}

func (s *Store) ListOrders(ctx context.Context, q console.OrderQuery) ([]models.Order, int64, error) {
	filter := orderFilter(q)

	start := time.Now()
	total, err := s.db.Collection(colOrders).CountDocuments(ctx, filter)
	metrics.ObserveStoreQuery("count", colOrders, start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if q.Limit > 0 {
		opts.SetSkip(int64((q.Page - 1) * q.Limit)).SetLimit(int64(q.Limit))
	}

	start = time.Now()
	cursor, err := s.db.Collection(colOrders).Find(ctx, filter, opts)
	metrics.ObserveStoreQuery("find", colOrders, start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, total, nil
}

func (s *Store) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	start := time.Now()
	var order models.Order
	err := s.db.Collection(colOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	metrics.ObserveStoreQuery("find_one", colOrders, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	start := time.Now()
	res, err := s.db.Collection(colOrders).ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	metrics.ObserveStoreQuery("replace_one", colOrders, start, err)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}
