// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances security and login latency.
const bcryptCost = 12

// HashPassword hashes a plaintext password for storage. Used by the bootstrap
// admin seed; customer signup lives in the customer API.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
func VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
