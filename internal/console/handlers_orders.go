// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartbag/smartbag/internal/models"
)

// timeField parses an optional date filter, accepting RFC 3339 or a bare
// yyyy-mm-dd day.
func timeField(data map[string]any, key string) *time.Time {
	raw := strings.TrimSpace(strField(data, key))
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// orderQueryFromFilters normalizes the raw filter payload. The second return
// is true when a customer_name filter matched no user, in which case the
// order query must not run at all and the listing is empty by construction.
func (h *Handlers) orderQueryFromFilters(ctx context.Context, filters map[string]any) (OrderQuery, bool, error) {
	q := OrderQuery{}
	q.Page, q.Limit = pagination(filters, defaultPageSize)

	if status := strings.TrimSpace(strField(filters, "status")); status != "" && status != "all" {
		q.Status = status
	}
	q.From = timeField(filters, "from_date")
	q.To = timeField(filters, "to_date")
	if v, ok := floatField(filters, "min_amount"); ok {
		q.MinAmount = &v
	}
	if v, ok := floatField(filters, "max_amount"); ok {
		q.MaxAmount = &v
	}

	if partner := strings.TrimSpace(strField(filters, "delivery_partner")); partner != "" && partner != "all" {
		if partner == "unassigned" {
			q.Unassigned = true
		} else {
			id, err := parseObjectID(partner)
			if err != nil {
				return q, false, err
			}
			q.DeliveryPartner = &id
		}
	}

	if search := strings.TrimSpace(strField(filters, "search")); search != "" {
		q.OrderNumber = strings.TrimPrefix(search, "#")
	}

	if name := strings.TrimSpace(strField(filters, "customer_name")); name != "" {
		ids, err := h.store.FindUserIDsByName(ctx, name)
		if err != nil {
			return q, false, fmt.Errorf("failed to resolve customer name: %w", err)
		}
		if len(ids) == 0 {
			return q, true, nil
		}
		q.CustomerIDs = ids
	}
	return q, false, nil
}

// enrichOrders fills the read-time fields of a page of orders with two
// batched lookups: one against users (customers and assigned partners), one
// against products for the line items.
func (h *Handlers) enrichOrders(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	userIDSet := make(map[primitive.ObjectID]struct{})
	productIDSet := make(map[primitive.ObjectID]struct{})
	for _, o := range orders {
		userIDSet[o.UserID] = struct{}{}
		if o.DeliveryPartner != nil {
			userIDSet[*o.DeliveryPartner] = struct{}{}
		}
		for _, item := range o.Items {
			productIDSet[item.ProductID] = struct{}{}
		}
	}

	userIDs := make([]primitive.ObjectID, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	users, err := h.store.UsersByIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("failed to load order customers: %w", err)
	}

	productIDs := make([]primitive.ObjectID, 0, len(productIDSet))
	for id := range productIDSet {
		productIDs = append(productIDs, id)
	}
	products, err := h.store.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return fmt.Errorf("failed to load order products: %w", err)
	}

	for i := range orders {
		o := &orders[i]
		if u, ok := users[o.UserID]; ok {
			name := u.Name
			if name == "" {
				name = u.Email
			}
			o.UserInfo = &models.OrderUserInfo{Name: name, Email: u.Email, Phone: u.Phone}
		}
		if o.DeliveryPartner != nil {
			if u, ok := users[*o.DeliveryPartner]; ok {
				if u.Name != "" {
					o.DeliveryPartnerName = u.Name
				} else {
					o.DeliveryPartnerName = u.Email
				}
			}
		}
		for j := range o.Items {
			if p, ok := products[o.Items[j].ProductID]; ok {
				o.Items[j].ProductName = p.Name
				if len(p.Images) > 0 {
					o.Items[j].ProductImage = p.Images[0].URL
				}
			}
		}
	}
	return nil
}

func (h *Handlers) ordersFrame(ctx context.Context, q OrderQuery) (Frame, error) {
	orders, total, err := h.store.ListOrders(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if err := h.enrichOrders(ctx, orders); err != nil {
		return nil, err
	}
	return Frame{
		"type":   TypeOrdersData,
		"orders": orders,
		"pagination": models.OrderPagination{
			CurrentPage: q.Page,
			TotalPages:  totalPages(total, q.Limit),
			TotalOrders: total,
			HasPrev:     q.Page > 1,
			HasNext:     int64(q.Page*q.Limit) < total,
			PageSize:    q.Limit,
		},
	}, nil
}

func (h *Handlers) getOrders(ctx context.Context, s *Session, env *Envelope) error {
	q, noMatch, err := h.orderQueryFromFilters(ctx, env.Filters)
	if err != nil {
		return err
	}
	if noMatch {
		// The customer-name pre-query matched nobody; reply empty without
		// touching the orders collection.
		return s.Send(Frame{
			"type":   TypeOrdersData,
			"orders": []models.Order{},
			"pagination": models.OrderPagination{
				CurrentPage: q.Page,
				TotalPages:  1,
				TotalOrders: 0,
				HasPrev:     false,
				HasNext:     false,
				PageSize:    q.Limit,
			},
		})
	}
	frame, err := h.ordersFrame(ctx, q)
	if err != nil {
		return err
	}
	return s.Send(frame)
}

func validOrderStatus(status string) bool {
	for _, v := range models.ValidOrderStatuses {
		if v == status {
			return true
		}
	}
	return false
}

func (h *Handlers) updateOrderStatus(ctx context.Context, s *Session, env *Envelope) error {
	raw := strField(env.Data, "order_id")
	if raw == "" {
		raw = strField(env.Data, "_id")
	}
	id, err := parseObjectID(raw)
	if err != nil {
		return err
	}
	status, err := requiredStr(env.Data, "status")
	if err != nil {
		return err
	}
	if !validOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}

	order, err := h.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("order not found")
		}
		return fmt.Errorf("failed to load order: %w", err)
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	if err := h.store.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if err := s.Send(Frame{"type": "order_updated", "data": order}); err != nil {
		return err
	}
	h.broadcastOrders(ctx)
	return nil
}

func (h *Handlers) assignDeliveryPartner(ctx context.Context, s *Session, env *Envelope) error {
	orderID, err := parseObjectID(strField(env.Data, "order_id"))
	if err != nil {
		return err
	}
	partnerID, err := parseObjectID(strField(env.Data, "partner_id"))
	if err != nil {
		return err
	}

	partner, err := h.store.GetUser(ctx, partnerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("delivery partner not found")
		}
		return fmt.Errorf("failed to load delivery partner: %w", err)
	}
	if partner.Role != models.RoleDeliveryPartner {
		return fmt.Errorf("user %s is not a delivery partner", partner.Email)
	}

	order, err := h.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("order not found")
		}
		return fmt.Errorf("failed to load order: %w", err)
	}

	order.DeliveryPartner = &partnerID
	order.Status = models.OrderStatusAssigned
	order.UpdatedAt = time.Now().UTC()
	if err := h.store.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to assign delivery partner: %w", err)
	}

	if err := s.Send(Frame{"type": "order_updated", "data": order}); err != nil {
		return err
	}
	h.broadcastOrders(ctx)
	return nil
}

// getDeliveryRequestsForOrder returns the partners who self-accepted the
// order, each joined with their profile stats.
func (h *Handlers) getDeliveryRequestsForOrder(ctx context.Context, s *Session, env *Envelope) error {
	orderID, err := parseObjectID(strField(env.Data, "order_id"))
	if err != nil {
		return err
	}

	order, err := h.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("order not found")
		}
		return fmt.Errorf("failed to load order: %w", err)
	}

	requests := make([]Frame, 0, len(order.AcceptedPartners))
	if len(order.AcceptedPartners) > 0 {
		users, err := h.store.UsersByIDs(ctx, order.AcceptedPartners)
		if err != nil {
			return fmt.Errorf("failed to load partner accounts: %w", err)
		}
		profiles, err := h.store.PartnersByUserIDs(ctx, order.AcceptedPartners)
		if err != nil {
			return fmt.Errorf("failed to load partner profiles: %w", err)
		}
		for _, id := range order.AcceptedPartners {
			req := Frame{"user_id": id.Hex()}
			if u, ok := users[id]; ok {
				req["name"] = u.Name
				req["email"] = u.Email
				req["phone"] = u.Phone
			}
			if p, ok := profiles[id]; ok {
				req["rating"] = p.Rating
				req["total_deliveries"] = p.TotalDeliveries
				req["is_available"] = p.IsAvailable
			}
			requests = append(requests, req)
		}
	}

	return s.Send(Frame{
		"type":     "delivery_requests_data",
		"order_id": orderID.Hex(),
		"data":     requests,
	})
}
