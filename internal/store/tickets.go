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

func (s *Store) ListTickets(ctx context.Context, q console.TicketQuery) ([]models.HelpTicket, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	start := time.Now()
	cursor, err := s.db.Collection(colTickets).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	metrics.ObserveStoreQuery("find", colTickets, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	tickets := []models.HelpTicket{}
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("failed to decode tickets: %w", err)
	}
	return tickets, nil
}

func (s *Store) GetTicket(ctx context.Context, id primitive.ObjectID) (*models.HelpTicket, error) {
	start := time.Now()
	var ticket models.HelpTicket
	err := s.db.Collection(colTickets).FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	metrics.ObserveStoreQuery("find_one", colTickets, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &ticket, nil
}

func (s *Store) UpdateTicket(ctx context.Context, ticket *models.HelpTicket) error {
	start := time.Now()
	res, err := s.db.Collection(colTickets).ReplaceOne(ctx, bson.M{"_id": ticket.ID}, ticket)
	metrics.ObserveStoreQuery("replace_one", colTickets, start, err)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	if res.MatchedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

// TicketStats aggregates totals, today's count, and the status histogram.
func (s *Store) TicketStats(ctx context.Context, todayStart time.Time) (*models.TicketStats, error) {
	stats := &models.TicketStats{ByStatus: make(map[string]int64)}

	start := time.Now()
	total, err := s.db.Collection(colTickets).CountDocuments(ctx, bson.M{})
	metrics.ObserveStoreQuery("count", colTickets, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	stats.Total = total

	start = time.Now()
	today, err := s.db.Collection(colTickets).CountDocuments(ctx,
		bson.M{"created_at": bson.M{"$gte": todayStart}})
	metrics.ObserveStoreQuery("count", colTickets, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's tickets: %w", err)
	}
	stats.Today = today

	start = time.Now()
	cursor, err := s.db.Collection(colTickets).Aggregate(ctx, bson.A{
		bson.M{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	})
	metrics.ObserveStoreQuery("aggregate", colTickets, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ticket statuses: %w", err)
	}
	var buckets []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode ticket status buckets: %w", err)
	}
	for _, b := range buckets {
		stats.ByStatus[b.Status] = b.Count
	}
	return stats, nil
}
