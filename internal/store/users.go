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

func userFilter(q console.UserQuery) bson.M {
	filter := bson.M{}
	if q.Role != "" {
		if q.Role == models.RoleCustomer {
			// Legacy accounts predate the role field; they are customers.
			filter["$or"] = []bson.M{
				{"role": models.RoleCustomer},
				{"role": bson.M{"$exists": false}},
			}
		} else {
			filter["role"] = q.Role
		}
	}
	if q.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
		filter["$and"] = []bson.M{
			{"$or": []bson.M{{"name": pattern}, {"email": pattern}}},
		}
	}
	if q.IsActive != nil {
		if *q.IsActive {
			// Documents that predate is_active count as active.
			filter["is_active"] = bson.M{"$ne": false}
		} else {
			filter["is_active"] = false
		}
	}
	return filter
}

func (s *Store) ListUsers(ctx context.Context, q console.UserQuery) ([]models.User, int64, error) {
	filter := userFilter(q)

	start := time.Now()
	total, err := s.db.Collection(colUsers).CountDocuments(ctx, filter)
	metrics.ObserveStoreQuery("count", colUsers, start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if q.Limit > 0 {
		opts.SetSkip(int64((q.Page - 1) * q.Limit)).SetLimit(int64(q.Limit))
	}

	start = time.Now()
	cursor, err := s.db.Collection(colUsers).Find(ctx, filter, opts)
	metrics.ObserveStoreQuery("find", colUsers, start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, total, nil
}

func (s *Store) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	start := time.Now()
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	metrics.ObserveStoreQuery("find_one", colUsers, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	metrics.ObserveStoreQuery("find_one", colUsers, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	start := time.Now()
	cursor, err := s.db.Collection(colUsers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	metrics.ObserveStoreQuery("find", colUsers, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load users by ids: %w", err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// FindUserIDsByName resolves a case-insensitive name fragment to user ids.
// Feeds the customer_name pre-query on the orders listing.
func (s *Store) FindUserIDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error) {
	start := time.Now()
	cursor, err := s.db.Collection(colUsers).Find(ctx,
		bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	metrics.ObserveStoreQuery("find", colUsers, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to search users by name: %w", err)
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode user ids: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id primitive.ObjectID, role string) error {
	start := time.Now()
	res, err := s.db.Collection(colUsers).UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}})
	metrics.ObserveStoreQuery("update_one", colUsers, start, err)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if res.MatchedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserStatus(ctx context.Context, id primitive.ObjectID, active bool) error {
	start := time.Now()
	res, err := s.db.Collection(colUsers).UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}})
	metrics.ObserveStoreQuery("update_one", colUsers, start, err)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if res.MatchedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) GetPartnerByUserID(ctx context.Context, userID primitive.ObjectID) (*models.DeliveryPartner, error) {
	start := time.Now()
	var partner models.DeliveryPartner
	err := s.db.Collection(colPartners).FindOne(ctx, bson.M{"user_id": userID}).Decode(&partner)
	metrics.ObserveStoreQuery("find_one", colPartners, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &partner, nil
}

func (s *Store) InsertPartner(ctx context.Context, partner *models.DeliveryPartner) error {
	start := time.Now()
	res, err := s.db.Collection(colPartners).InsertOne(ctx, partner)
	metrics.ObserveStoreQuery("insert_one", colPartners, start, err)
	if err != nil {
		return fmt.Errorf("failed to insert delivery partner: %w", err)
	}
	partner.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) PartnersByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]models.DeliveryPartner, error) {
	out := make(map[primitive.ObjectID]models.DeliveryPartner, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	start := time.Now()
	cursor, err := s.db.Collection(colPartners).Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	metrics.ObserveStoreQuery("find", colPartners, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery partners: %w", err)
	}
	var partners []models.DeliveryPartner
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode delivery partners: %w", err)
	}
	for _, p := range partners {
		out[p.UserID] = p
	}
	return out, nil
}
