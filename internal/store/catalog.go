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

func (s *Store) ListBrands(ctx context.Context) ([]models.Brand, error) {
	start := time.Now()
	cursor, err := s.db.Collection(colBrands).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	metrics.ObserveStoreQuery("find", colBrands, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	brands := []models.Brand{}
	if err := cursor.All(ctx, &brands); err != nil {
		return nil, fmt.Errorf("failed to decode brands: %w", err)
	}
	return brands, nil
}

func (s *Store) GetBrand(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	start := time.Now()
	var brand models.Brand
	err := s.db.Collection(colBrands).FindOne(ctx, bson.M{"_id": id}).Decode(&brand)
	metrics.ObserveStoreQuery("find_one", colBrands, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &brand, nil
}

func (s *Store) InsertBrand(ctx context.Context, brand *models.Brand) error {
	start := time.Now()
	res, err := s.db.Collection(colBrands).InsertOne(ctx, brand)
	metrics.ObserveStoreQuery("insert_one", colBrands, start, err)
	if err != nil {
		return fmt.Errorf("failed to insert brand: %w", err)
	}
	brand.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	start := time.Now()
	res, err := s.db.Collection(colBrands).ReplaceOne(ctx, bson.M{"_id": brand.ID}, brand)
	metrics.ObserveStoreQuery("replace_one", colBrands, start, err)
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	if res.MatchedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBrand(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	res, err := s.db.Collection(colBrands).DeleteOne(ctx, bson.M{"_id": id})
	metrics.ObserveStoreQuery("delete_one", colBrands, start, err)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	if res.DeletedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	start := time.Now()
	cursor, err := s.db.Collection(colCategories).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	metrics.ObserveStoreQuery("find", colCategories, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	start := time.Now()
	var category models.Category
	err := s.db.Collection(colCategories).FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	metrics.ObserveStoreQuery("find_one", colCategories, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (s *Store) InsertCategory(ctx context.Context, category *models.Category) error {
	start := time.Now()
	res, err := s.db.Collection(colCategories).InsertOne(ctx, category)
	metrics.ObserveStoreQuery("insert_one", colCategories, start, err)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	start := time.Now()
	res, err := s.db.Collection(colCategories).ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	metrics.ObserveStoreQuery("replace_one", colCategories, start, err)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	res, err := s.db.Collection(colCategories).DeleteOne(ctx, bson.M{"_id": id})
	metrics.ObserveStoreQuery("delete_one", colCategories, start, err)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) CountChildCategories(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	start := time.Now()
	n, err := s.db.Collection(colCategories).CountDocuments(ctx, bson.M{"parent_id": parentID})
	metrics.ObserveStoreQuery("count", colCategories, start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to count child categories: %w", err)
	}
	return n, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	start := time.Now()
	cursor, err := s.db.Collection(colProducts).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	metrics.ObserveStoreQuery("find", colProducts, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	start := time.Now()
	var product models.Product
	err := s.db.Collection(colProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	metrics.ObserveStoreQuery("find_one", colProducts, start, err)
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (s *Store) InsertProduct(ctx context.Context, product *models.Product) error {
	start := time.Now()
	res, err := s.db.Collection(colProducts).InsertOne(ctx, product)
	metrics.ObserveStoreQuery("insert_one", colProducts, start, err)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	start := time.Now()
	res, err := s.db.Collection(colProducts).ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	metrics.ObserveStoreQuery("replace_one", colProducts, start, err)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	res, err := s.db.Collection(colProducts).DeleteOne(ctx, bson.M{"_id": id})
	metrics.ObserveStoreQuery("delete_one", colProducts, start, err)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return console.ErrNotFound
	}
	return nil
}

func (s *Store) ProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	start := time.Now()
	cursor, err := s.db.Collection(colProducts).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	metrics.ObserveStoreQuery("find", colProducts, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load products by ids: %w", err)
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (s *Store) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	start := time.Now()
	cursor, err := s.db.Collection(colProducts).Find(ctx,
		bson.M{"stock": bson.M{"$lt": threshold}},
		options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
	metrics.ObserveStoreQuery("find", colProducts, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.db.Collection(colProducts).CountDocuments(ctx, bson.M{})
	metrics.ObserveStoreQuery("count", colProducts, start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
