// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Package config loads and validates the server configuration with Koanf v2
// layered sources: built-in defaults, an optional YAML file, then environment
// variables (highest priority).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the SmartBag server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Mongo    MongoConfig    `koanf:"mongo"`
	Security SecurityConfig `koanf:"security"`
	Media    MediaConfig    `koanf:"media"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP listener hosting the console endpoint.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// MongoConfig configures the document store connection.
type MongoConfig struct {
	URI            string        `koanf:"uri" validate:"required"`
	Database       string        `koanf:"database" validate:"required"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// SecurityConfig configures authentication for the admin console.
type SecurityConfig struct {
	// JWTSecret signs console bearer tokens. Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=32"`

	// SessionTimeout is the bearer token lifetime (default 24h).
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminEmail/AdminPassword seed a bootstrap admin account when the users
	// collection holds no admin. Optional.
	AdminEmail    string `koanf:"admin_email" validate:"omitempty,email"`
	AdminPassword string `koanf:"admin_password" validate:"omitempty,min=8"`
}

// MediaConfig configures the remote media host.
type MediaConfig struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	APIKey    string        `koanf:"api_key"`
	APISecret string        `koanf:"api_secret"`
	Timeout   time.Duration `koanf:"timeout"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values. Defaults
// are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8787,
			Timeout:           30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Mongo: MongoConfig{
			URI:            "mongodb://127.0.0.1:27017",
			Database:       "smartbag",
			ConnectTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			SessionTimeout: 24 * time.Hour,
		},
		Media: MediaConfig{
			BaseURL: "https://media.smartbag.dev",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the loaded configuration with go-playground/validator and a
// few cross-field rules the tag language cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive")
	}
	if (c.Security.AdminEmail == "") != (c.Security.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}
	return nil
}
