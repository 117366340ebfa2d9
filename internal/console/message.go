// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

// Subscription channels. The set is closed: subscribing to anything else is
// ignored.
const (
	ChannelProducts   = "products"
	ChannelOrders     = "orders"
	ChannelCustomers  = "customers"
	ChannelBrands     = "brands"
	ChannelCategories = "categories"
	ChannelUsers      = "users"
	ChannelInventory  = "inventory"
)

// validChannels is the closed channel set.
var validChannels = map[string]struct{}{
	ChannelProducts:   {},
	ChannelOrders:     {},
	ChannelCustomers:  {},
	ChannelBrands:     {},
	ChannelCategories: {},
	ChannelUsers:      {},
	ChannelInventory:  {},
}

// ValidChannel reports whether name is in the closed channel set.
func ValidChannel(name string) bool {
	_, ok := validChannels[name]
	return ok
}

// Control and infrastructure frame types. Domain request types are the keys
// of the dispatcher's route table.
const (
	TypePing              = "ping"
	TypePong              = "pong"
	TypeSubscribe         = "subscribe"
	TypeUnsubscribe       = "unsubscribe"
	TypeLogout            = "logout"
	TypeError             = "error"
	TypeAuthSuccess       = "auth_success"
	TypeUploadProgress    = "upload_progress"
	TypeAdminConnected    = "admin_connected"
	TypeAdminDisconnected = "admin_disconnected"
)

// Broadcast frame types, one per canonical listing.
const (
	TypeBrandsData      = "brands_data"
	TypeCategoriesData  = "categories_data"
	TypeProductsData    = "products_data"
	TypeOrdersData      = "orders_data"
	TypeUsersData       = "users_data"
	TypeHelpTicketsData = "help_tickets_data"
	TypeCouponsData     = "coupons_data"
	TypeInventoryData   = "inventory_data"
)

// Envelope is one inbound message. Every frame is a self-describing object
// with a mandatory type; the remaining fields are populated depending on the
// type. There is no positional framing.
type Envelope struct {
	Type     string         `json:"type"`
	Data     map[string]any `json:"data,omitempty"`
	Filters  map[string]any `json:"filters,omitempty"`
	Channel  string         `json:"channel,omitempty"`
	TicketID string         `json:"ticket_id,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Frame is one outbound message: a flat object carrying a "type" key plus
// type-specific fields.
type Frame map[string]any

// errorFrame builds the uniform error reply.
func errorFrame(message string) Frame {
	return Frame{"type": TypeError, "message": message}
}

// progressFrame builds one upload progress notice for the initiating session.
func progressFrame(message string, progress int) Frame {
	return Frame{"type": TypeUploadProgress, "message": message, "progress": progress}
}
