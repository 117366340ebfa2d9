// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Package auth implements credential verification and bearer token handling
// for the admin console. Tokens are HS256 JWTs carrying the admin's email as
// subject plus role and display name claims.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartbag/smartbag/internal/config"
)

// Sentinel errors surfaced to the session gate. The gate maps each to a
// single error frame followed by a policy-violation close.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrNotAdmin           = errors.New("not_admin")
	ErrTokenExpired       = errors.New("token_expired")
	ErrTokenInvalid       = errors.New("token_invalid")
)

// Identity is the admin identity attached to a session at admission. It is
// immutable for the session's lifetime.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// Claims are the JWT claims embedded in console bearer tokens. Subject holds
// the admin's email.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token creation and validation.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
}

// NewJWTManager creates a JWT token manager with the configured secret and
// session timeout. The secret must be at least 32 characters; the manager
// signs with HMAC-SHA256.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters")
	}
	return &JWTManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: cfg.SessionTimeout,
	}, nil
}

// GenerateToken mints a fresh bearer token for an authenticated admin. The
// token embeds {sub: email, role, name} and expires after the configured
// session timeout (24h by default).
func (m *JWTManager) GenerateToken(email, role, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a bearer token's signature and expiry and returns
// its claims. Expired tokens surface ErrTokenExpired; every other failure
// surfaces ErrTokenInvalid so callers need not distinguish tampering from
// malformation.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject unexpected algorithms to prevent algorithm confusion attacks.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
