// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Package models defines the persisted document types and shared value types
// used across the store, the admin console, and the HTTP layer.
//
// Every persisted type carries both bson tags (document store field names) and
// json tags (wire field names). Fields tagged `bson:"-"` are populated at read
// time by batched lookups and never written back.
package models
