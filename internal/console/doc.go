// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Package console implements the admin real-time console fabric: a long-lived
// multiplexed websocket channel per administrator.
//
// Five cooperating components:
//
//   - Gate: accepts a connection, runs one authentication handshake, admits
//     or rejects.
//   - Registry: process-wide set of live sessions and the bidirectional
//     session<->channel subscription index.
//   - Dispatcher: per-session message loop routing typed frames to handlers
//     through a registration table.
//   - Handlers: per-domain command handlers following the
//     mutation-then-broadcast pattern, with media upload progress interleaved
//     into write replies.
//   - Broadcaster: snapshot fan-out to channel subscribers, pruning sessions
//     whose delivery fails.
//
// A handler's direct reply to the originator is always sent before the
// broadcast the same mutation triggers, and the broadcast carries the freshly
// re-read canonical listing rather than a delta.
package console
