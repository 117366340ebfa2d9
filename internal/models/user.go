// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account may hold.
const (
	RoleAdmin           = "admin"
	RoleCustomer        = "customer"
	RoleDeliveryPartner = "delivery_partner"
	RoleVendor          = "vendor"
)

// ValidRoles is the closed set accepted by update_user_role.
var ValidRoles = []string{RoleAdmin, RoleCustomer, RoleDeliveryPartner, RoleVendor}

// User is an account document in the users collection.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	Name           string             `bson:"name,omitempty" json:"name"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	HashedPassword string             `bson:"hashed_password,omitempty" json:"-"`
	Role           string             `bson:"role,omitempty" json:"role"`
	IsActive       *bool              `bson:"is_active,omitempty" json:"is_active"`
	Status         string             `bson:"status,omitempty" json:"status"`
	CreatedAt      time.Time          `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at,omitempty" json:"updated_at"`
	JoinedAt       time.Time          `bson:"-" json:"joinedAt"`
}

// Sanitize strips sensitive fields and fills display defaults for admin reads:
// name falls back to email, role to customer, status mirrors is_active, and
// joinedAt echoes created_at.
func (u *User) Sanitize() {
	u.HashedPassword = ""
	if u.Name == "" {
		u.Name = u.Email
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	if u.IsActive == nil {
		active := true
		u.IsActive = &active
	}
	if *u.IsActive {
		u.Status = "active"
	} else {
		u.Status = "inactive"
	}
	u.JoinedAt = u.CreatedAt
}

// Active reports whether the account is active, defaulting to true when the
// document predates the is_active field.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// DeliveryPartner is the delivery-partner profile document, created the first
// time an account transitions into the delivery_partner role.
type DeliveryPartner struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	IsAvailable     bool               `bson:"is_available" json:"is_available"`
	Rating          float64            `bson:"rating" json:"rating"`
	TotalDeliveries int                `bson:"total_deliveries" json:"total_deliveries"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserPagination describes one page of a users listing.
type UserPagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalUsers  int64 `json:"total_users"`
	HasPrev     bool  `json:"has_prev"`
	HasNext     bool  `json:"has_next"`
	PageSize    int   `json:"page_size"`
}
