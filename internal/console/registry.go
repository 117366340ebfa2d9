// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"sync"

	"github.com/smartbag/smartbag/internal/logging"
)

// Registry is the process-wide index of live admin sessions and their channel
// subscriptions. The index is bidirectional: a session's subscription set and
// a channel's subscriber set always agree. All methods are safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
	channels map[string]map[*Session]struct{}
	subs     map[*Session]map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[*Session]struct{}),
		channels: make(map[string]map[*Session]struct{}),
		subs:     make(map[*Session]map[string]struct{}),
	}
}

// Connect admits a session into the registry with no subscriptions.
func (r *Registry) Connect(s *Session) {
	r.mu.Lock()
	r.sessions[s] = struct{}{}
	r.mu.Unlock()

	logging.Debug().
		Str("session", s.ID()).
		Str("admin", s.Identity().Email).
		Msg("session registered")
}

// Disconnect removes a session and every subscription it holds. It reports
// whether the session was present, so callers can make teardown idempotent.
func (r *Registry) Disconnect(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s]; !ok {
		return false
	}
	delete(r.sessions, s)
	for channel := range r.subs[s] {
		delete(r.channels[channel], s)
		if len(r.channels[channel]) == 0 {
			delete(r.channels, channel)
		}
	}
	delete(r.subs, s)
	return true
}

// Subscribe adds a session to a channel's subscriber set. Unknown channels
// and unregistered sessions are rejected. Re-subscribing is a no-op that
// still reports success.
func (r *Registry) Subscribe(s *Session, channel string) bool {
	if !ValidChannel(channel) {
		logging.Warn().
			Str("session", s.ID()).
			Str("channel", channel).
			Msg("subscribe to unknown channel ignored")
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s]; !ok {
		return false
	}
	if r.channels[channel] == nil {
		r.channels[channel] = make(map[*Session]struct{})
	}
	r.channels[channel][s] = struct{}{}
	if r.subs[s] == nil {
		r.subs[s] = make(map[string]struct{})
	}
	r.subs[s][channel] = struct{}{}
	return true
}

// Unsubscribe removes a session from a channel's subscriber set. Removing a
// subscription that does not exist is a no-op.
func (r *Registry) Unsubscribe(s *Session, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.channels[channel], s)
	if len(r.channels[channel]) == 0 {
		delete(r.channels, channel)
	}
	delete(r.subs[s], channel)
	if len(r.subs[s]) == 0 {
		delete(r.subs, s)
	}
}

// Subscribers returns a snapshot of the sessions subscribed to a channel.
func (r *Registry) Subscribers(channel string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.channels[channel]))
	for s := range r.channels[channel] {
		out = append(out, s)
	}
	return out
}

// Sessions returns a snapshot of every registered session.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Subscriptions returns a snapshot of the channels one session subscribes to.
func (r *Registry) Subscriptions(s *Session) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.subs[s]))
	for channel := range r.subs[s] {
		out = append(out, channel)
	}
	return out
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
