// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/smartbag/smartbag/internal/logging"
	"github.com/smartbag/smartbag/internal/metrics"
)

// Dispatcher drives a session's message loop: decode an envelope, route it by
// type, convert handler errors into error frames. Handler failures never end
// the session; only transport errors and explicit logout do.
type Dispatcher struct {
	registry    *Registry
	broadcaster *Broadcaster
	routes      map[string]HandlerFunc
	seeds       map[string]HandlerFunc
}

// NewDispatcher builds the dispatcher over the handler suite's route and seed
// tables.
func NewDispatcher(registry *Registry, broadcaster *Broadcaster, handlers *Handlers) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		broadcaster: broadcaster,
		routes:      handlers.Routes(),
		seeds:       handlers.Seeds(),
	}
}

// Run pumps inbound frames for one admitted session until the peer
// disconnects, the transport fails, or a logout frame arrives. It owns the
// session teardown.
func (d *Dispatcher) Run(ctx context.Context, s *Session) {
	defer d.broadcaster.Drop(s)

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Str("session", s.ID()).Msg("unexpected close")
			}
			return
		}
		if done := d.dispatch(ctx, s, raw); done {
			return
		}
	}
}

// dispatch handles one raw inbound message. It reports true when the loop
// should end (logout or a dead outbound path).
func (d *Dispatcher) dispatch(ctx context.Context, s *Session, raw []byte) bool {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return s.Send(errorFrame("malformed message")) != nil
	}
	metrics.MessagesTotal.WithLabelValues(env.Type).Inc()

	switch env.Type {
	case TypePing:
		return s.Send(Frame{"type": TypePong}) != nil

	case TypeSubscribe:
		return d.subscribe(ctx, s, &env)

	case TypeUnsubscribe:
		d.registry.Unsubscribe(s, env.Channel)
		return false

	case TypeLogout:
		logging.Info().Str("session", s.ID()).Str("admin", s.Identity().Email).Msg("admin logged out")
		return true
	}

	handler, ok := d.routes[env.Type]
	if !ok {
		return s.Send(errorFrame(fmt.Sprintf("unknown message type: %s", env.Type))) != nil
	}
	if err := d.invoke(ctx, s, &env, handler); err != nil {
		return s.Send(errorFrame(err.Error())) != nil
	}
	return false
}

// subscribe registers the subscription and immediately seeds the subscriber
// with the channel's current state through the corresponding read handler.
func (d *Dispatcher) subscribe(ctx context.Context, s *Session, env *Envelope) bool {
	if !d.registry.Subscribe(s, env.Channel) {
		return false
	}
	seed, ok := d.seeds[env.Channel]
	if !ok {
		return false
	}
	if err := d.invoke(ctx, s, &Envelope{Type: env.Type, Channel: env.Channel}, seed); err != nil {
		return s.Send(errorFrame(err.Error())) != nil
	}
	return false
}

// invoke runs one handler with panic isolation and instrumentation.
func (d *Dispatcher) invoke(ctx context.Context, s *Session, env *Envelope, handler HandlerFunc) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logging.Error().
				Interface("panic", r).
				Str("type", env.Type).
				Str("session", s.ID()).
				Msg("handler panicked")
			err = fmt.Errorf("internal error handling %s", env.Type)
		}
		metrics.ObserveHandler(env.Type, start, err)
	}()

	return handler(ctx, s, env)
}
