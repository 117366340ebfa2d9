// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"sort"
	"testing"

	"github.com/smartbag/smartbag/internal/auth"
)

func testIdentity(email string) auth.Identity {
	return auth.Identity{ID: "id-" + email, Email: email, Name: "Test Admin", Role: "admin"}
}

func TestRegistrySubscribeIndexesBothDirections(t *testing.T) {
	r := NewRegistry()
	s := newDetachedSession(testIdentity("a@smartbag.dev"))
	r.Connect(s)

	if !r.Subscribe(s, ChannelOrders) {
		t.Fatal("subscribe to valid channel failed")
	}
	if !r.Subscribe(s, ChannelProducts) {
		t.Fatal("subscribe to valid channel failed")
	}

	subs := r.Subscriptions(s)
	sort.Strings(subs)
	if len(subs) != 2 || subs[0] != ChannelOrders || subs[1] != ChannelProducts {
		t.Errorf("subscriptions = %v", subs)
	}
	if got := r.Subscribers(ChannelOrders); len(got) != 1 || got[0] != s {
		t.Errorf("subscribers(orders) = %v", got)
	}
}

func TestRegistryRejectsUnknownChannel(t *testing.T) {
	r := NewRegistry()
	s := newDetachedSession(testIdentity("a@smartbag.dev"))
	r.Connect(s)

	if r.Subscribe(s, "payments") {
		t.Error("subscribe to unknown channel should fail")
	}
	if got := r.Subscriptions(s); len(got) != 0 {
		t.Errorf("subscriptions = %v, want none", got)
	}
}

func TestRegistryRejectsUnregisteredSession(t *testing.T) {
	r := NewRegistry()
	s := newDetachedSession(testIdentity("a@smartbag.dev"))

	if r.Subscribe(s, ChannelOrders) {
		t.Error("subscribe before Connect should fail")
	}
}

func TestRegistryDisconnectRemovesAllSubscriptions(t *testing.T) {
	r := NewRegistry()
	s1 := newDetachedSession(testIdentity("a@smartbag.dev"))
	s2 := newDetachedSession(testIdentity("b@smartbag.dev"))
	r.Connect(s1)
	r.Connect(s2)
	r.Subscribe(s1, ChannelOrders)
	r.Subscribe(s1, ChannelUsers)
	r.Subscribe(s2, ChannelOrders)

	if !r.Disconnect(s1) {
		t.Fatal("first disconnect should report removal")
	}
	if r.Disconnect(s1) {
		t.Error("second disconnect should be a no-op")
	}

	if got := r.Subscribers(ChannelOrders); len(got) != 1 || got[0] != s2 {
		t.Errorf("subscribers(orders) after disconnect = %v", got)
	}
	if got := r.Subscribers(ChannelUsers); len(got) != 0 {
		t.Errorf("subscribers(users) after disconnect = %v", got)
	}
	if r.Count() != 1 {
		t.Errorf("count = %d, want 1", r.Count())
	}
}

func TestRegistryUnsubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	s := newDetachedSession(testIdentity("a@smartbag.dev"))
	r.Connect(s)
	r.Subscribe(s, ChannelBrands)

	r.Unsubscribe(s, ChannelBrands)
	r.Unsubscribe(s, ChannelBrands)
	r.Unsubscribe(s, ChannelInventory)

	if got := r.Subscriptions(s); len(got) != 0 {
		t.Errorf("subscriptions = %v, want none", got)
	}
	if got := r.Subscribers(ChannelBrands); len(got) != 0 {
		t.Errorf("subscribers(brands) = %v, want none", got)
	}
}

func TestRegistryResubscribeIsNoOp(t *testing.T) {
	r := NewRegistry()
	s := newDetachedSession(testIdentity("a@smartbag.dev"))
	r.Connect(s)

	r.Subscribe(s, ChannelCustomers)
	if !r.Subscribe(s, ChannelCustomers) {
		t.Error("re-subscribe should still report success")
	}
	if got := r.Subscribers(ChannelCustomers); len(got) != 1 {
		t.Errorf("subscribers(customers) = %v, want exactly one", got)
	}
}
