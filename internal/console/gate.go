// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/smartbag/smartbag/internal/auth"
	"github.com/smartbag/smartbag/internal/logging"
	"github.com/smartbag/smartbag/internal/metrics"
	"github.com/smartbag/smartbag/internal/models"
)

// authTimeout bounds the handshake: the first frame must arrive and be
// verified within this window.
const authTimeout = 10 * time.Second

// Gate performs the one-shot authentication handshake on a fresh websocket
// connection and either promotes it to a registered session or closes it with
// a policy-violation code. An unauthenticated connection never reaches the
// Registry.
type Gate struct {
	registry    *Registry
	broadcaster *Broadcaster
	dispatcher  *Dispatcher
	users       UserStore
	jwt         *auth.JWTManager
	upgrader    websocket.Upgrader
}

// NewGate wires the gate to its collaborators. allowedOrigins mirrors the
// HTTP CORS configuration; an empty list admits any origin.
func NewGate(registry *Registry, broadcaster *Broadcaster, dispatcher *Dispatcher,
	users UserStore, jwt *auth.JWTManager, allowedOrigins []string) *Gate {
	g := &Gate{
		registry:    registry,
		broadcaster: broadcaster,
		dispatcher:  dispatcher,
		users:       users,
		jwt:         jwt,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return g
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeHTTP upgrades the connection and runs the handshake-then-dispatch
// lifecycle on the request goroutine, the usual gorilla pattern.
func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	identity, err := g.handshake(r.Context(), conn)
	if err != nil {
		g.reject(conn, err)
		return
	}

	s := newSession(conn, identity)
	g.registry.Connect(s)
	metrics.SessionsTotal.Inc()
	metrics.SessionsActive.Set(float64(g.registry.Count()))
	logging.Info().
		Str("session", s.ID()).
		Str("admin", identity.Email).
		Msg("admin session admitted")

	go s.writePump()

	if err := s.Send(Frame{"type": TypeAuthSuccess, "user": identity}); err != nil {
		g.broadcaster.Drop(s)
		return
	}
	g.broadcaster.AnnounceConnected(s)

	g.dispatcher.Run(r.Context(), s)
}

// handshake reads and verifies the first frame within the auth window.
func (g *Gate) handshake(ctx context.Context, conn *websocket.Conn) (auth.Identity, error) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}
	return g.Authenticate(ctx, env.Payload)
}

// Authenticate resolves an auth payload, credentials or bearer token, into an
// admin identity. Exactly one path is tried: the token path whenever a token
// is present, the credentials path otherwise.
func (g *Gate) Authenticate(ctx context.Context, payload map[string]any) (auth.Identity, error) {
	if token := strField(payload, "token"); token != "" {
		return g.authenticateToken(ctx, token)
	}
	return g.authenticateCredentials(ctx, strField(payload, "email"), strField(payload, "password"))
}

func (g *Gate) authenticateCredentials(ctx context.Context, email, password string) (auth.Identity, error) {
	if email == "" || password == "" {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}

	user, err := g.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Identity{}, auth.ErrUserNotFound
		}
		return auth.Identity{}, err
	}
	if err := auth.VerifyPassword(user.HashedPassword, password); err != nil {
		return auth.Identity{}, err
	}
	if user.Role != models.RoleAdmin {
		return auth.Identity{}, auth.ErrNotAdmin
	}
	if !user.Active() {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}

	token, err := g.jwt.GenerateToken(user.Email, user.Role, user.Name)
	if err != nil {
		return auth.Identity{}, err
	}
	return identityFor(user, token), nil
}

// authenticateToken verifies the presented token and re-confirms the account
// still exists and still holds the admin role.
func (g *Gate) authenticateToken(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := g.jwt.ValidateToken(token)
	if err != nil {
		return auth.Identity{}, err
	}
	if claims.Role != models.RoleAdmin {
		return auth.Identity{}, auth.ErrNotAdmin
	}

	user, err := g.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Identity{}, auth.ErrUserNotFound
		}
		return auth.Identity{}, err
	}
	if user.Role != models.RoleAdmin {
		return auth.Identity{}, auth.ErrNotAdmin
	}
	if !user.Active() {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}

	return identityFor(user, token), nil
}

func identityFor(user *models.User, token string) auth.Identity {
	name := user.Name
	if name == "" {
		name = user.Email
	}
	return auth.Identity{
		ID:    user.ID.Hex(),
		Email: user.Email,
		Name:  name,
		Role:  user.Role,
		Token: token,
	}
}

// reject sends the single error frame and closes with a policy-violation
// status.
func (g *Gate) reject(conn *websocket.Conn, cause error) {
	reason := cause.Error()
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	logging.Warn().Str("reason", reason).Msg("console handshake rejected")

	frame, _ := json.Marshal(errorFrame("Authentication failed: " + reason))
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.TextMessage, frame)
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason))
	_ = conn.Close()
}
