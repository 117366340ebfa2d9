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

// enrichedTickets loads tickets matching the query and joins each with its
// owner snapshot in one batched user lookup.
func (h *Handlers) enrichedTickets(ctx context.Context, q TicketQuery) ([]models.HelpTicket, error) {
	tickets, err := h.store.ListTickets(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	if len(tickets) == 0 {
		return tickets, nil
	}

	idSet := make(map[primitive.ObjectID]struct{}, len(tickets))
	for _, t := range tickets {
		idSet[t.UserID] = struct{}{}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	owners, err := h.store.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket owners: %w", err)
	}

	for i := range tickets {
		var owner *models.User
		if u, ok := owners[tickets[i].UserID]; ok {
			owner = &u
		}
		tickets[i].Enrich(owner)
	}
	return tickets, nil
}

// ticketFilter normalizes one ticket filter value: the literal "all" and an
// empty string both disable the filter.
func ticketFilter(filters map[string]any, key string) string {
	v := strings.TrimSpace(strField(filters, key))
	if v == "all" {
		return ""
	}
	return v
}

func (h *Handlers) getHelpTickets(ctx context.Context, s *Session, env *Envelope) error {
	tickets, err := h.enrichedTickets(ctx, TicketQuery{
		Status:   ticketFilter(env.Filters, "status"),
		Priority: ticketFilter(env.Filters, "priority"),
		Category: ticketFilter(env.Filters, "category"),
	})
	if err != nil {
		return err
	}
	return s.Send(Frame{"type": TypeHelpTicketsData, "data": tickets})
}

// ticketID accepts the id from either the envelope's ticket_id field or the
// data payload.
func ticketID(env *Envelope) (primitive.ObjectID, error) {
	raw := env.TicketID
	if raw == "" {
		raw = strField(env.Data, "ticket_id")
	}
	return parseObjectID(raw)
}

func (h *Handlers) getTicketDetail(ctx context.Context, s *Session, env *Envelope) error {
	id, err := ticketID(env)
	if err != nil {
		return err
	}
	ticket, err := h.store.GetTicket(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("ticket not found")
		}
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	var owner *models.User
	if u, err := h.store.GetUser(ctx, ticket.UserID); err == nil {
		owner = u
	}
	ticket.Enrich(owner)

	return s.Send(Frame{"type": "ticket_detail_data", "data": ticket})
}

// respondToTicket appends an admin message, stamps the response fields, and
// moves the ticket to in_progress unless the payload names another status.
func (h *Handlers) respondToTicket(ctx context.Context, s *Session, env *Envelope) error {
	id, err := ticketID(env)
	if err != nil {
		return err
	}
	response, err := requiredStr(env.Data, "response")
	if err != nil {
		return err
	}

	ticket, err := h.store.GetTicket(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("ticket not found")
		}
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	status := strings.TrimSpace(strField(env.Data, "status"))
	if status == "" {
		status = models.TicketStatusInProgress
	}
	if !validTicketStatus(status) {
		return fmt.Errorf("invalid ticket status: %s", status)
	}

	now := time.Now().UTC()
	ticket.Messages = append(ticket.Messages, models.TicketMessage{
		SenderType: models.SenderTypeAdmin,
		SenderName: "Support Team",
		Message:    response,
		CreatedAt:  now,
	})
	ticket.AdminResponse = response
	ticket.RespondedAt = &now
	ticket.Status = status
	ticket.UpdatedAt = now

	if err := h.store.UpdateTicket(ctx, ticket); err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	if err := s.Send(Frame{"type": "ticket_updated", "data": ticket}); err != nil {
		return err
	}
	h.broadcastTickets(ctx)
	return nil
}

func validTicketStatus(status string) bool {
	for _, v := range models.ValidTicketStatuses {
		if v == status {
			return true
		}
	}
	return false
}

// updateTicketStatus transitions the ticket, optionally recording a system
// note in the message history.
func (h *Handlers) updateTicketStatus(ctx context.Context, s *Session, env *Envelope) error {
	id, err := ticketID(env)
	if err != nil {
		return err
	}
	status, err := requiredStr(env.Data, "status")
	if err != nil {
		return err
	}
	if !validTicketStatus(status) {
		return fmt.Errorf("invalid ticket status: %s", status)
	}

	ticket, err := h.store.GetTicket(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("ticket not found")
		}
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	now := time.Now().UTC()
	if note := strings.TrimSpace(strField(env.Data, "note")); note != "" {
		ticket.Messages = append(ticket.Messages, models.TicketMessage{
			SenderType: models.SenderTypeSystem,
			Message:    note,
			CreatedAt:  now,
		})
	}
	ticket.Status = status
	ticket.UpdatedAt = now

	if err := h.store.UpdateTicket(ctx, ticket); err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	if err := s.Send(Frame{"type": "ticket_updated", "data": ticket}); err != nil {
		return err
	}
	h.broadcastTickets(ctx)
	return nil
}

func (h *Handlers) getTicketStats(ctx context.Context, s *Session, _ *Envelope) error {
	todayStart := time.Now().UTC().Truncate(24 * time.Hour)
	stats, err := h.store.TicketStats(ctx, todayStart)
	if err != nil {
		return fmt.Errorf("failed to load ticket stats: %w", err)
	}
	return s.Send(Frame{"type": "ticket_stats_data", "data": stats})
}
