// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle states. accepted is entered when a delivery partner appends
// itself to accepted_partners; assigned when a single delivery_partner is set.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusAssigning      = "assigning"
	OrderStatusAccepted       = "accepted"
	OrderStatusAssigned       = "assigned"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// ValidOrderStatuses is the closed set accepted by update_order_status.
var ValidOrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
	OrderStatusAssigning, OrderStatusAccepted, OrderStatusAssigned,
	OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled,
}

// OrderItem is one line of an order. ProductName and ProductImage are
// populated by a batched product lookup at read time.
type OrderItem struct {
	ProductID    primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Price        float64            `bson:"price" json:"price"`
	ProductName  string             `bson:"-" json:"product_name,omitempty"`
	ProductImage string             `bson:"-" json:"product_image,omitempty"`
}

// OrderUserInfo is the customer snapshot attached to an order at read time.
type OrderUserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Order is an order document. UserInfo and DeliveryPartnerName are read-time
// enrichments, never persisted.
type Order struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderNumber         string               `bson:"order_number,omitempty" json:"order_number,omitempty"`
	UserID              primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Items               []OrderItem          `bson:"items" json:"items"`
	TotalAmount         float64              `bson:"total_amount" json:"total_amount"`
	DeliveryFee         float64              `bson:"delivery_fee,omitempty" json:"delivery_fee,omitempty"`
	Status              string               `bson:"order_status" json:"order_status"`
	DeliveryAddress     string               `bson:"delivery_address,omitempty" json:"delivery_address,omitempty"`
	DeliveryPartner     *primitive.ObjectID  `bson:"delivery_partner,omitempty" json:"delivery_partner,omitempty"`
	AcceptedPartners    []primitive.ObjectID `bson:"accepted_partners,omitempty" json:"accepted_partners,omitempty"`
	CreatedAt           time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at" json:"updated_at"`
	UserInfo            *OrderUserInfo       `bson:"-" json:"user_info,omitempty"`
	DeliveryPartnerName string               `bson:"-" json:"delivery_partner_name,omitempty"`
}

// OrderPagination describes one page of an orders listing.
type OrderPagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalOrders int64 `json:"total_orders"`
	HasPrev     bool  `json:"has_prev"`
	HasNext     bool  `json:"has_next"`
	PageSize    int   `json:"page_size"`
}
