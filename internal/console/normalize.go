// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartbag/smartbag/internal/auth"
)

// Keyword list caps.
const (
	maxProductKeywords = 20
	maxKeywords        = 30
)

// requiredStr extracts a mandatory trimmed string field. Missing or blank
// values are validation errors the dispatcher surfaces as error frames.
func requiredStr(data map[string]any, key string) (string, error) {
	s := strings.TrimSpace(strField(data, key))
	if s == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}

// strField extracts an optional string field, "" when absent or not a string.
func strField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}

// floatField coerces a numeric field. JSON decoding yields float64, but
// clients also send numbers as strings.
func floatField(data map[string]any, key string) (float64, bool) {
	if data == nil {
		return 0, false
	}
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// intField coerces an integer field, truncating fractional parts.
func intField(data map[string]any, key string) (int, bool) {
	f, ok := floatField(data, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// boolField extracts a boolean field, accepting JSON booleans and the strings
// "true"/"false".
func boolField(data map[string]any, key string) (bool, bool) {
	if data == nil {
		return false, false
	}
	switch v := data[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// parseObjectID parses a mandatory document id.
func parseObjectID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

// documentID extracts the mandatory document id from a payload, accepting
// either the mongo-style "_id" key or a plain "id".
func documentID(data map[string]any) (primitive.ObjectID, error) {
	raw := strings.TrimSpace(strField(data, "_id"))
	if raw == "" {
		raw = strings.TrimSpace(strField(data, "id"))
	}
	if raw == "" {
		return primitive.NilObjectID, fmt.Errorf("id is required")
	}
	return parseObjectID(raw)
}

// objectIDField extracts an optional document id field. Empty values and the
// sentinel "none" coerce to nil; anything else must parse.
func objectIDField(data map[string]any, key string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(strField(data, key))
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil, nil
	}
	id, err := parseObjectID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// normalizeStatus maps a status string onto the status/is_active pair. Any
// value other than "inactive" counts as active, matching the write-side
// leniency of the admin clients.
func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "inactive" {
		return "inactive", false
	}
	return "active", true
}

// dedupeKeywords normalizes a raw keyword list: trims, drops empties,
// removes duplicates preserving first-seen order, caps at limit.
func dedupeKeywords(raw any, limit int) []string {
	var in []string
	switch v := raw.(type) {
	case []string:
		in = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				in = append(in, s)
			}
		}
	default:
		return nil
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
		if len(out) == limit {
			break
		}
	}
	return out
}

// actorEmail resolves the audit actor for a session's identity. An empty
// identity means the mutation ran outside a session and is attributed to
// "system"; a recognized identity without an email degrades through its
// subject fields before landing on "unknown_user".
func actorEmail(identity auth.Identity) string {
	if identity == (auth.Identity{}) {
		return "system"
	}
	if identity.Email != "" {
		return identity.Email
	}
	if identity.ID != "" {
		return identity.ID
	}
	if identity.Name != "" {
		return identity.Name
	}
	return "unknown_user"
}

// pagination normalizes raw page/limit values into sane bounds.
func pagination(data map[string]any, defaultLimit int) (page, limit int) {
	page, _ = intField(data, "page")
	if page < 1 {
		page = 1
	}
	limit, _ = intField(data, "limit")
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// totalPages computes the page count for a listing, never less than one.
func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return pages
}
