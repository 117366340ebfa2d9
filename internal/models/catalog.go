// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageAsset is the canonical shape of a stored media reference: the original
// URL, the thumbnail variant, and the media host's public id (kept so the
// asset can later be deleted or replaced).
type ImageAsset struct {
	URL          string `bson:"url" json:"url"`
	ThumbnailURL string `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	PublicID     string `bson:"public_id,omitempty" json:"public_id,omitempty"`
}

// Brand is a brand document in the brands collection.
type Brand struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	Logo        *ImageAsset        `bson:"logo,omitempty" json:"logo,omitempty"`
	CreatedBy   string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy   string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Category is a category document. ParentID is nil for top-level categories.
type Category struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Status      string              `bson:"status" json:"status"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	Image       *ImageAsset         `bson:"image,omitempty" json:"image,omitempty"`
	ParentID    *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	CreatedBy   string              `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy   string              `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// Product is a product document. Images holds the ordered media list; at most
// MaxProductImages entries.
type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64             `bson:"price" json:"price"`
	Stock       int                 `bson:"stock" json:"stock"`
	CategoryID  *primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	BrandID     *primitive.ObjectID `bson:"brand_id,omitempty" json:"brand_id,omitempty"`
	Status      string              `bson:"status" json:"status"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	Images      []ImageAsset        `bson:"images" json:"images"`
	Keywords    []string            `bson:"keywords,omitempty" json:"keywords,omitempty"`
	CreatedBy   string              `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy   string              `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// MaxProductImages caps the media list on a single product.
const MaxProductImages = 10

// Suggestion is a customer product request shown in the admin console.
type Suggestion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	ProductName string             `bson:"product_name" json:"product_name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
