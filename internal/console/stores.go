// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartbag/smartbag/internal/models"
)

// ErrNotFound is returned by store implementations when the target document
// does not exist. Handlers translate it into a not-found error frame.
var ErrNotFound = errors.New("not found")

// OrderQuery is a fully normalized orders filter. The handler resolves the
// raw filter payload (status, date window, amount window, partner token,
// search string, customer name) into this shape before the store sees it.
type OrderQuery struct {
	Status          string
	From            *time.Time
	To              *time.Time
	MinAmount       *float64
	MaxAmount       *float64
	Unassigned      bool
	DeliveryPartner *primitive.ObjectID
	OrderNumber     string
	CustomerIDs     []primitive.ObjectID
	Page            int
	Limit           int
}

// UserQuery is a normalized users filter.
type UserQuery struct {
	Role     string
	Search   string
	IsActive *bool
	Page     int
	Limit    int
}

// TicketQuery is a normalized help tickets filter. Empty fields disable the
// corresponding filter.
type TicketQuery struct {
	Status   string
	Priority string
	Category string
}

// BrandStore persists brand documents.
type BrandStore interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetBrand(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	InsertBrand(ctx context.Context, brand *models.Brand) error
	UpdateBrand(ctx context.Context, brand *models.Brand) error
	DeleteBrand(ctx context.Context, id primitive.ObjectID) error
}

// CategoryStore persists category documents.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	InsertCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
	CountChildCategories(ctx context.Context, parentID primitive.ObjectID) (int64, error)
}

// ProductStore persists product documents.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	InsertProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	ProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

// OrderStore persists order documents. ListOrders also returns the total
// match count for pagination.
type OrderStore interface {
	ListOrders(ctx context.Context, q OrderQuery) ([]models.Order, int64, error)
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
}

// UserStore persists account documents.
type UserStore interface {
	ListUsers(ctx context.Context, q UserQuery) ([]models.User, int64, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	FindUserIDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error)
	UpdateUserRole(ctx context.Context, id primitive.ObjectID, role string) error
	UpdateUserStatus(ctx context.Context, id primitive.ObjectID, active bool) error
}

// PartnerStore persists delivery-partner profile documents.
type PartnerStore interface {
	GetPartnerByUserID(ctx context.Context, userID primitive.ObjectID) (*models.DeliveryPartner, error)
	InsertPartner(ctx context.Context, partner *models.DeliveryPartner) error
	PartnersByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]models.DeliveryPartner, error)
}

// TicketStore persists help ticket documents.
type TicketStore interface {
	ListTickets(ctx context.Context, q TicketQuery) ([]models.HelpTicket, error)
	GetTicket(ctx context.Context, id primitive.ObjectID) (*models.HelpTicket, error)
	UpdateTicket(ctx context.Context, ticket *models.HelpTicket) error
	TicketStats(ctx context.Context, todayStart time.Time) (*models.TicketStats, error)
}

// CouponStore persists discount coupon documents.
type CouponStore interface {
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	InsertCoupon(ctx context.Context, coupon *models.Coupon) error
	UpdateCoupon(ctx context.Context, coupon *models.Coupon) error
	DeleteCoupon(ctx context.Context, id primitive.ObjectID) error
}

// SuggestionStore reads customer product suggestions.
type SuggestionStore interface {
	ListSuggestions(ctx context.Context) ([]models.Suggestion, error)
}

// PricingStore persists the single active pricing document.
type PricingStore interface {
	GetActivePricing(ctx context.Context) (*models.PricingConfig, error)
	SavePricing(ctx context.Context, cfg *models.PricingConfig) error
}

// AnalyticsStore computes order/user/ticket aggregates over a window.
type AnalyticsStore interface {
	AnalyticsSummary(ctx context.Context, from, to time.Time) (*models.AnalyticsSummary, error)
}

// Store aggregates every collection the console handlers touch. The mongo
// implementation in internal/store satisfies it; handler tests substitute
// fakes that embed the interface and override the methods they need.
type Store interface {
	BrandStore
	CategoryStore
	ProductStore
	OrderStore
	UserStore
	PartnerStore
	TicketStore
	CouponStore
	SuggestionStore
	PricingStore
	AnalyticsStore
}
