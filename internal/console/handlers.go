// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"

	"github.com/smartbag/smartbag/internal/logging"
)

const defaultPageSize = 20

// lowStockThreshold drives the inventory view: items with stock below this
// appear in inventory_data.
const lowStockThreshold = 10

// HandlerFunc processes one inbound envelope on behalf of a session.
// A returned error is surfaced to the originator as an error frame; it never
// tears the session down.
type HandlerFunc func(ctx context.Context, s *Session, env *Envelope) error

// Handlers is the admin command suite. Every mutating handler follows the
// same discipline: validate and normalize, mutate, reply to the originator,
// then broadcast the freshly re-read canonical listing.
type Handlers struct {
	store       Store
	media       Uploader
	broadcaster *Broadcaster
}

// NewHandlers wires the suite to its store, media client, and broadcaster.
func NewHandlers(store Store, media Uploader, broadcaster *Broadcaster) *Handlers {
	return &Handlers{store: store, media: media, broadcaster: broadcaster}
}

// Routes returns the dispatch table: inbound message type to handler.
func (h *Handlers) Routes() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"get_brands":   h.getBrands,
		"create_brand": h.createBrand,
		"update_brand": h.updateBrand,
		"delete_brand": h.deleteBrand,

		"get_categories":  h.getCategories,
		"create_category": h.createCategory,
		"update_category": h.updateCategory,
		"delete_category": h.deleteCategory,

		"get_products":   h.getProducts,
		"create_product": h.createProduct,
		"update_product": h.updateProduct,
		"delete_product": h.deleteProduct,

		"get_orders":                      h.getOrders,
		"update_order_status":             h.updateOrderStatus,
		"assign_delivery_partner":         h.assignDeliveryPartner,
		"get_delivery_requests_for_order": h.getDeliveryRequestsForOrder,

		"get_users":          h.getUsers,
		"update_user_role":   h.updateUserRole,
		"update_user_status": h.updateUserStatus,

		"get_help_tickets":     h.getHelpTickets,
		"get_ticket_detail":    h.getTicketDetail,
		"respond_to_ticket":    h.respondToTicket,
		"update_ticket_status": h.updateTicketStatus,
		"get_ticket_stats":     h.getTicketStats,

		"get_discount_coupons":   h.getDiscountCoupons,
		"create_discount_coupon": h.createDiscountCoupon,
		"update_discount_coupon": h.updateDiscountCoupon,
		"delete_discount_coupon": h.deleteDiscountCoupon,
		"toggle_coupon_status":   h.toggleCouponStatus,

		"get_user_suggestions": h.getUserSuggestions,

		"get_inventory_status":  h.getInventoryStatus,
		"get_analytics":         h.getAnalytics,
		"get_pricing_config":    h.getPricingConfig,
		"update_pricing_config": h.updatePricingConfig,
	}
}

// Seeds returns the seed-on-subscribe table: channel to the read handler
// whose reply gives the new subscriber its initial state.
func (h *Handlers) Seeds() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ChannelProducts:   h.getProducts,
		ChannelBrands:     h.getBrands,
		ChannelCategories: h.getCategories,
		ChannelOrders:     h.getOrders,
		ChannelUsers:      h.getUsers,
		ChannelCustomers:  h.seedCustomers,
		ChannelInventory:  h.getInventoryStatus,
	}
}

// Canonical-listing broadcasts. Each re-reads the full ordered listing and
// fans it out; a read failure is logged and the broadcast skipped, since the
// mutation that triggered it has already been acknowledged.

func (h *Handlers) broadcastBrands(ctx context.Context) {
	brands, err := h.store.ListBrands(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("brands broadcast read failed")
		return
	}
	h.broadcaster.ToChannel(ChannelBrands, Frame{"type": TypeBrandsData, "data": brands})
}

func (h *Handlers) broadcastCategories(ctx context.Context) {
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("categories broadcast read failed")
		return
	}
	h.broadcaster.ToChannel(ChannelCategories, Frame{"type": TypeCategoriesData, "data": categories})
}

// broadcastProducts pushes the catalog to products subscribers and refreshes
// the low-stock view for inventory subscribers, since any product write can
// change both.
func (h *Handlers) broadcastProducts(ctx context.Context) {
	frame, err := h.productsFrame(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("products broadcast read failed")
		return
	}
	h.broadcaster.ToChannel(ChannelProducts, frame)

	inv, err := h.inventoryFrame(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("inventory broadcast read failed")
		return
	}
	h.broadcaster.ToChannel(ChannelInventory, inv)
}

func (h *Handlers) broadcastOrders(ctx context.Context) {
	frame, err := h.ordersFrame(ctx, OrderQuery{Page: 1, Limit: defaultPageSize})
	if err != nil {
		logging.Error().Err(err).Msg("orders broadcast read failed")
		return
	}
	h.broadcaster.ToChannel(ChannelOrders, frame)
}

// broadcastUsers refreshes both user views: the full listing for users
// subscribers and the customer slice for customers subscribers.
func (h *Handlers) broadcastUsers(ctx context.Context) {
	frame, err := h.usersFrame(ctx, UserQuery{Page: 1, Limit: defaultPageSize})
	if err != nil {
		logging.Error().Err(err).Msg("users broadcast read failed")
		return
	}
	h.broadcaster.ToChannel(ChannelUsers, frame)

	customers, err := h.usersFrame(ctx, UserQuery{Role: "customer", Page: 1, Limit: defaultPageSize})
	if err != nil {
		logging.Error().Err(err).Msg("customers broadcast read failed")
		return
	}
	h.broadcaster.ToChannel(ChannelCustomers, customers)
}

// broadcastTickets and broadcastCoupons go to every session: neither domain
// has a channel in the closed subscription set.
func (h *Handlers) broadcastTickets(ctx context.Context) {
	tickets, err := h.enrichedTickets(ctx, TicketQuery{})
	if err != nil {
		logging.Error().Err(err).Msg("tickets broadcast read failed")
		return
	}
	h.broadcaster.ToAll(Frame{"type": TypeHelpTicketsData, "data": tickets})
}

func (h *Handlers) broadcastCoupons(ctx context.Context) {
	coupons, err := h.store.ListCoupons(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("coupons broadcast read failed")
		return
	}
	h.broadcaster.ToAll(Frame{"type": TypeCouponsData, "data": coupons})
}
