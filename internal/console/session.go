// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/smartbag/smartbag/internal/auth"
	"github.com/smartbag/smartbag/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024 * 1024 // 16 MB, image payloads arrive inline as base64
	sendBufferSize = 256
)

// Send failure modes. Both mark the session dead to the broadcaster.
var (
	ErrSessionClosed  = errors.New("session closed")
	ErrSendBufferFull = errors.New("session send buffer full")
)

// Session is one admitted admin connection. The identity is fixed at
// admission and never mutated afterwards. Handlers borrow a session for the
// duration of one message and never retain it.
type Session struct {
	id          string
	identity    auth.Identity
	connectedAt time.Time
	conn        *websocket.Conn
	send        chan Frame
	done        chan struct{}
	closeOnce   sync.Once
}

func newSession(conn *websocket.Conn, identity auth.Identity) *Session {
	return &Session{
		id:          uuid.NewString(),
		identity:    identity,
		connectedAt: time.Now().UTC(),
		conn:        conn,
		send:        make(chan Frame, sendBufferSize),
		done:        make(chan struct{}),
	}
}

// newDetachedSession builds a session with no transport. Frames queue in the
// send buffer where tests can read them back.
func newDetachedSession(identity auth.Identity) *Session {
	return &Session{
		id:          uuid.NewString(),
		identity:    identity,
		connectedAt: time.Now().UTC(),
		send:        make(chan Frame, sendBufferSize),
		done:        make(chan struct{}),
	}
}

// ID returns the session's correlation id used in logs.
func (s *Session) ID() string { return s.id }

// Identity returns the admin identity fixed at admission.
func (s *Session) Identity() auth.Identity { return s.identity }

// ConnectedAt returns the admission timestamp.
func (s *Session) ConnectedAt() time.Time { return s.connectedAt }

// Send enqueues one frame for delivery. It never blocks on the peer: a
// closed session or a full send buffer returns an error, which the
// broadcaster treats as a dead session.
func (s *Session) Send(f Frame) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.send <- f:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close terminates the session's transport. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}

// writePump pumps frames from the send buffer to the websocket connection.
// All outbound frames for a session pass through here, which is what gives
// the per-session ordering guarantee.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Str("session", s.id).Msg("failed to set write deadline")
				return
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				logging.Error().Err(err).Str("session", s.id).Msg("failed to marshal outbound frame")
				continue
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logging.Debug().Err(err).Str("session", s.id).Msg("outbound write failed")
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
