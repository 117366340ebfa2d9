// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"github.com/smartbag/smartbag/internal/logging"
	"github.com/smartbag/smartbag/internal/metrics"
)

// Broadcaster fans frames out to channel subscribers. Delivery is
// best-effort per session: a failed enqueue marks the session dead and it is
// dropped from the registry, so one stalled consumer never blocks the rest.
type Broadcaster struct {
	registry *Registry
}

// NewBroadcaster creates a broadcaster over the given registry.
func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// ToChannel sends a frame to every subscriber of a channel, pruning sessions
// whose send fails.
func (b *Broadcaster) ToChannel(channel string, f Frame) {
	b.deliver(b.registry.Subscribers(channel), f)
	metrics.BroadcastsTotal.WithLabelValues(channel).Inc()
}

// ToAll sends a frame to every registered session regardless of
// subscriptions, pruning sessions whose send fails.
func (b *Broadcaster) ToAll(f Frame) {
	b.deliver(b.registry.Sessions(), f)
	metrics.BroadcastsTotal.WithLabelValues("all").Inc()
}

func (b *Broadcaster) deliver(targets []*Session, f Frame) {
	for _, s := range targets {
		if err := s.Send(f); err != nil {
			logging.Debug().
				Err(err).
				Str("session", s.ID()).
				Msg("broadcast delivery failed, dropping session")
			b.Drop(s)
		}
	}
}

// Drop removes a session from the registry, closes its transport, and
// announces the departure to the surviving sessions. Safe to call from any
// goroutine and idempotent: only the call that actually removes the session
// announces.
func (b *Broadcaster) Drop(s *Session) {
	if !b.registry.Disconnect(s) {
		return
	}
	s.Close()
	metrics.SessionsActive.Set(float64(b.registry.Count()))

	logging.Info().
		Str("session", s.ID()).
		Str("admin", s.Identity().Email).
		Msg("admin session closed")

	// Best-effort departure notice. Failed sends here are ignored rather
	// than recursing into another Drop.
	notice := Frame{
		"type":         TypeAdminDisconnected,
		"admin":        s.Identity().Email,
		"total_admins": b.registry.Count(),
	}
	for _, peer := range b.registry.Sessions() {
		_ = peer.Send(notice)
	}
}

// AnnounceConnected notifies every other session that an admin came online.
func (b *Broadcaster) AnnounceConnected(s *Session) {
	notice := Frame{
		"type":         TypeAdminConnected,
		"admin":        s.Identity().Email,
		"total_admins": b.registry.Count(),
	}
	for _, peer := range b.registry.Sessions() {
		if peer == s {
			continue
		}
		if err := peer.Send(notice); err != nil {
			b.Drop(peer)
		}
	}
}
