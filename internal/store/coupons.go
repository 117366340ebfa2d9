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

	"github.com/smartbag/smartbag/internal/console"
	"github.com/smartbag/smartbag/internal/metrics"
	"github.com/smartbag/smartbag/internal/models"
)

func (s *Store) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	start := time.Now()
	cursor, err := s.db.Collection(colCoupons).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	metrics.ObserveStoreQuery("find", colCoupons, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	coupons := []models.Coupon{}
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("failed to decode coupons: %w", err)
	}
	return coupons, nil
}

func (s *Store) GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	start := time.Now()
	var coupon models.Coupon
	err := s.db.Collection(colCoupons).FindOne(ctx, bson.M{"_id": id}).Decode(&coupon)
	metrics.ObserveStoreQuery("find_one", colCoupons, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &coupon, nil
}

func (s *Store) InsertCoupon(ctx context.Context, coupon *models.Coupon) error {
	start := time.Now()
	res, err := s.db.Collection(colCoupons).InsertOne(ctx, coupon)
	metrics.ObserveStoreQuery("insert_one", colCoupons, start, err)
	if err != nil {
		return fmt.Errorf("failed to insert coupon: %w", err)
	}
	coupon.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) UpdateCoupon(ctx context.Context, coupon *models.Coupon) error {
	start := time.Now()
	res, err := s.db.Collection(colCoupons).ReplaceOne(ctx, bson.M{"_id": coupon.ID}, coupon)
	metrics.ObserveStoreQuery("replace_one", colCoupons, start, err)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if res.MatchedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCoupon(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	res, err := s.db.Collection(colCoupons).DeleteOne(ctx, bson.M{"_id": id})
	metrics.ObserveStoreQuery("delete_one", colCoupons, start, err)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if res.DeletedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	start := time.Now()
	cursor, err := s.db.Collection(colSuggestions).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	metrics.ObserveStoreQuery("find", colSuggestions, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	suggestions := []models.Suggestion{}
	if err := cursor.All(ctx, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	return suggestions, nil
}
