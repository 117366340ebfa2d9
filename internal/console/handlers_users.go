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

	"github.com/smartbag/smartbag/internal/models"
)

func (h *Handlers) usersFrame(ctx context.Context, q UserQuery) (Frame, error) {
	users, total, err := h.store.ListUsers(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for i := range users {
		users[i].Sanitize()
	}
	return Frame{
		"type":  TypeUsersData,
		"users": users,
		"pagination": models.UserPagination{
			CurrentPage: q.Page,
			TotalPages:  totalPages(total, q.Limit),
			TotalUsers:  total,
			HasPrev:     q.Page > 1,
			HasNext:     int64(q.Page*q.Limit) < total,
			PageSize:    q.Limit,
		},
	}, nil
}

func (h *Handlers) getUsers(ctx context.Context, s *Session, env *Envelope) error {
	q := UserQuery{}
	q.Page, q.Limit = pagination(env.Filters, defaultPageSize)
	if role := strings.TrimSpace(strField(env.Filters, "role")); role != "" && role != "all" {
		q.Role = role
	}
	q.Search = strings.TrimSpace(strField(env.Filters, "search"))
	if active, ok := boolField(env.Filters, "is_active"); ok {
		q.IsActive = &active
	}

	frame, err := h.usersFrame(ctx, q)
	if err != nil {
		return err
	}
	return s.Send(frame)
}

// seedCustomers is the customers channel seed: the users listing restricted
// to the customer role.
func (h *Handlers) seedCustomers(ctx context.Context, s *Session, _ *Envelope) error {
	frame, err := h.usersFrame(ctx, UserQuery{
		Role: models.RoleCustomer, Page: 1, Limit: defaultPageSize,
	})
	if err != nil {
		return err
	}
	return s.Send(frame)
}

func validRole(role string) bool {
	for _, v := range models.ValidRoles {
		if v == role {
			return true
		}
	}
	return false
}

// updateUserRole changes an account's role. A transition into
// delivery_partner creates the partner profile with defaults if the account
// never had one.
func (h *Handlers) updateUserRole(ctx context.Context, s *Session, env *Envelope) error {
	id, err := parseObjectID(strField(env.Data, "user_id"))
	if err != nil {
		return err
	}
	role, err := requiredStr(env.Data, "role")
	if err != nil {
		return err
	}
	if !validRole(role) {
		return fmt.Errorf("invalid role: %s", role)
	}

	user, err := h.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if role == models.RoleDeliveryPartner {
		if _, err := h.store.GetPartnerByUserID(ctx, id); errors.Is(err, ErrNotFound) {
			now := time.Now().UTC()
			profile := &models.DeliveryPartner{
				UserID:          id,
				IsAvailable:     false,
				Rating:          0,
				TotalDeliveries: 0,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := h.store.InsertPartner(ctx, profile); err != nil {
				return fmt.Errorf("failed to create delivery partner profile: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to check delivery partner profile: %w", err)
		}
	}

	if err := h.store.UpdateUserRole(ctx, id, role); err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	user.Role = role
	user.Sanitize()
	if err := s.Send(Frame{"type": "user_updated", "data": user}); err != nil {
		return err
	}
	h.broadcastUsers(ctx)
	return nil
}

// updateUserStatus toggles is_active and mirrors it into the readable status.
func (h *Handlers) updateUserStatus(ctx context.Context, s *Session, env *Envelope) error {
	id, err := parseObjectID(strField(env.Data, "user_id"))
	if err != nil {
		return err
	}
	active, ok := boolField(env.Data, "is_active")
	if !ok {
		return fmt.Errorf("is_active is required")
	}

	user, err := h.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := h.store.UpdateUserStatus(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	user.IsActive = &active
	user.Sanitize()
	if err := s.Send(Frame{"type": "user_updated", "data": user}); err != nil {
		return err
	}
	h.broadcastUsers(ctx)
	return nil
}
