// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Help ticket states.
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// ValidTicketStatuses is the closed set accepted by update_ticket_status.
var ValidTicketStatuses = []string{
	TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed,
}

// Ticket message sender types.
const (
	SenderTypeUser   = "user"
	SenderTypeAdmin  = "admin"
	SenderTypeSystem = "system"
)

// TicketMessage is one entry of a ticket's message history.
type TicketMessage struct {
	SenderType string    `bson:"sender_type" json:"sender_type"`
	SenderName string    `bson:"sender_name,omitempty" json:"sender_name,omitempty"`
	Message    string    `bson:"message" json:"message"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// HelpTicket is a support ticket document. The fields after Messages are
// read-time enrichments for the admin listing.
type HelpTicket struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	Subject       string             `bson:"subject" json:"subject"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Priority      string             `bson:"priority,omitempty" json:"priority,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Messages      []TicketMessage    `bson:"messages" json:"messages"`
	AdminResponse string             `bson:"admin_response,omitempty" json:"admin_response,omitempty"`
	RespondedAt   *time.Time         `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`

	UserName              string `bson:"-" json:"user_name,omitempty"`
	UserEmail             string `bson:"-" json:"user_email,omitempty"`
	MessageCount          int    `bson:"-" json:"message_count"`
	LastMessage           string `bson:"-" json:"last_message,omitempty"`
	HasUnreadUserMessages bool   `bson:"-" json:"has_unread_user_messages"`
}

// Enrich fills the listing fields from the message history and the owning
// user snapshot. A ticket has unread user messages iff any user-authored
// message postdates responded_at.
func (t *HelpTicket) Enrich(owner *User) {
	if owner != nil {
		name := owner.Name
		if name == "" {
			name = owner.Email
		}
		t.UserName = name
		t.UserEmail = owner.Email
	}
	t.MessageCount = len(t.Messages)
	if n := len(t.Messages); n > 0 {
		t.LastMessage = t.Messages[n-1].Message
	}
	t.HasUnreadUserMessages = false
	for _, m := range t.Messages {
		if m.SenderType != SenderTypeUser {
			continue
		}
		if t.RespondedAt == nil || m.CreatedAt.After(*t.RespondedAt) {
			t.HasUnreadUserMessages = true
			break
		}
	}
}

// TicketStats is the aggregate returned by get_ticket_stats.
type TicketStats struct {
	Total    int64            `json:"total"`
	Today    int64            `json:"today"`
	ByStatus map[string]int64 `json:"by_status"`
}
