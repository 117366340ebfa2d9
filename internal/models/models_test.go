// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package models

import (
	"testing"
	"time"
)

func TestUserSanitizeDefaults(t *testing.T) {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	u := &User{
		Email:          "shopper@example.com",
		HashedPassword: "$2a$12$secret",
		CreatedAt:      created,
	}

	u.Sanitize()

	if u.HashedPassword != "" {
		t.Error("hashed password should be stripped")
	}
	if u.Name != "shopper@example.com" {
		t.Errorf("name should default to email, got %q", u.Name)
	}
	if u.Role != RoleCustomer {
		t.Errorf("role should default to customer, got %q", u.Role)
	}
	if u.Status != "active" {
		t.Errorf("status should default to active, got %q", u.Status)
	}
	if !u.JoinedAt.Equal(created) {
		t.Errorf("joinedAt should echo created_at, got %v", u.JoinedAt)
	}
}

func TestUserSanitizeInactiveStatus(t *testing.T) {
	inactive := false
	u := &User{Email: "x@example.com", IsActive: &inactive}
	u.Sanitize()
	if u.Status != "inactive" {
		t.Errorf("status should mirror is_active=false, got %q", u.Status)
	}
}

func TestTicketEnrich(t *testing.T) {
	responded := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unread user message after response", func(t *testing.T) {
		tk := &HelpTicket{
			RespondedAt: &responded,
			Messages: []TicketMessage{
				{SenderType: SenderTypeUser, Message: "first", CreatedAt: responded.Add(-time.Hour)},
				{SenderType: SenderTypeAdmin, Message: "reply", CreatedAt: responded},
				{SenderType: SenderTypeUser, Message: "follow-up", CreatedAt: responded.Add(time.Hour)},
			},
		}
		tk.Enrich(&User{Email: "c@example.com"})

		if !tk.HasUnreadUserMessages {
			t.Error("expected unread user messages")
		}
		if tk.MessageCount != 3 {
			t.Errorf("message count = %d, want 3", tk.MessageCount)
		}
		if tk.LastMessage != "follow-up" {
			t.Errorf("last message = %q, want follow-up", tk.LastMessage)
		}
		if tk.UserName != "c@example.com" {
			t.Errorf("user name should fall back to email, got %q", tk.UserName)
		}
	})

	t.Run("no unread when admin replied last", func(t *testing.T) {
		tk := &HelpTicket{
			RespondedAt: &responded,
			Messages: []TicketMessage{
				{SenderType: SenderTypeUser, Message: "q", CreatedAt: responded.Add(-time.Hour)},
				{SenderType: SenderTypeAdmin, Message: "a", CreatedAt: responded},
			},
		}
		tk.Enrich(nil)
		if tk.HasUnreadUserMessages {
			t.Error("did not expect unread user messages")
		}
	})

	t.Run("never responded means any user message is unread", func(t *testing.T) {
		tk := &HelpTicket{
			Messages: []TicketMessage{
				{SenderType: SenderTypeUser, Message: "hello", CreatedAt: responded},
			},
		}
		tk.Enrich(nil)
		if !tk.HasUnreadUserMessages {
			t.Error("expected unread user messages when responded_at is unset")
		}
	})
}
