// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Package store implements the MongoDB persistence layer. It satisfies the
// console package's store interfaces; every not-found condition surfaces as
// console.ErrNotFound so handlers branch on one sentinel.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/smartbag/smartbag/internal/auth"
	"github.com/smartbag/smartbag/internal/config"
	"github.com/smartbag/smartbag/internal/console"
	"github.com/smartbag/smartbag/internal/logging"
	"github.com/smartbag/smartbag/internal/models"
)

// Collection names.
const (
	colUsers       = "users"
	colBrands      = "brands"
	colCategories  = "categories"
	colProducts    = "products"
	colOrders      = "orders"
	colTickets     = "help_tickets"
	colCoupons     = "discount_coupons"
	colSuggestions = "product_suggestions"
	colPricing     = "pricing_config"
	colPartners    = "delivery_partners"
)

// Store is the MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ console.Store = (*Store)(nil)

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	logging.Info().Str("database", cfg.Database).Msg("connected to mongodb")
	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Ping verifies the connection is still healthy. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// notFound maps the driver's no-documents sentinel onto the store contract.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return console.ErrNotFound
	}
	return err
}

// SeedAdmin creates the bootstrap admin account when no admin exists yet.
// A blank email or password disables seeding.
func (s *Store) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	n, err := s.db.Collection(colUsers).CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	active := true
	now := time.Now().UTC()
	_, err = s.db.Collection(colUsers).InsertOne(ctx, &models.User{
		Email:          email,
		Name:           "Administrator",
		HashedPassword: hash,
		Role:           models.RoleAdmin,
		IsActive:       &active,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	logging.Info().Str("email", email).Msg("seeded bootstrap admin account")
	return nil
}
