// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartbag/smartbag/internal/models"
)

func connectedSession(r *Registry, email string, channels ...string) *Session {
	s := newDetachedSession(testIdentity(email))
	r.Connect(s)
	for _, c := range channels {
		r.Subscribe(s, c)
	}
	return s
}

func TestCreateBrandRepliesBeforeBroadcast(t *testing.T) {
	_, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev", ChannelBrands)
	watcher := connectedSession(registry, "b@smartbag.dev", ChannelBrands)

	err := handlers.createBrand(context.Background(), admin, &Envelope{
		Type: "create_brand",
		Data: map[string]any{"name": "Acme", "status": "active"},
	})
	if err != nil {
		t.Fatalf("createBrand: %v", err)
	}

	frames := drainFrames(admin)
	if len(frames) != 2 {
		t.Fatalf("originator frames = %d, want ack then broadcast", len(frames))
	}
	if frames[0]["type"] != "brand_created" {
		t.Errorf("first frame = %v, want brand_created ack", frames[0]["type"])
	}
	if frames[1]["type"] != TypeBrandsData {
		t.Errorf("second frame = %v, want brands_data broadcast", frames[1]["type"])
	}

	created, ok := frames[0]["data"].(*models.Brand)
	if !ok || created.Name != "Acme" || !created.IsActive {
		t.Errorf("ack payload = %#v", frames[0]["data"])
	}

	wFrames := framesOfType(drainFrames(watcher), TypeBrandsData)
	if len(wFrames) != 1 {
		t.Fatalf("watcher broadcasts = %d, want 1", len(wFrames))
	}
	listing, ok := wFrames[0]["data"].([]models.Brand)
	if !ok || len(listing) != 1 || listing[0].Name != "Acme" {
		t.Errorf("broadcast listing = %#v", wFrames[0]["data"])
	}
}

func TestCreateBrandRequiresName(t *testing.T) {
	_, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	err := handlers.createBrand(context.Background(), admin, &Envelope{Data: map[string]any{}})
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Errorf("err = %v, want name is required", err)
	}
}

func TestUpdateBrandStatusMirrorIsIdempotent(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	brand := &models.Brand{Name: "Acme", Status: "active", IsActive: true}
	_ = store.InsertBrand(context.Background(), brand)

	env := &Envelope{Data: map[string]any{"_id": brand.ID.Hex(), "status": "inactive"}}
	for i := 0; i < 2; i++ {
		if err := handlers.updateBrand(context.Background(), admin, env); err != nil {
			t.Fatalf("updateBrand pass %d: %v", i, err)
		}
	}

	got, _ := store.GetBrand(context.Background(), brand.ID)
	if got.Status != "inactive" || got.IsActive {
		t.Errorf("brand = %q/%v, want inactive/false", got.Status, got.IsActive)
	}
}

func TestDeleteCategoryWithChildrenIsRefused(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	parent := &models.Category{Name: "Food", Status: "active", IsActive: true}
	_ = store.InsertCategory(context.Background(), parent)
	child := &models.Category{Name: "Snacks", ParentID: &parent.ID, Status: "active", IsActive: true}
	_ = store.InsertCategory(context.Background(), child)

	err := handlers.deleteCategory(context.Background(), admin, &Envelope{
		Data: map[string]any{"_id": parent.ID.Hex()},
	})
	if err == nil || !strings.Contains(err.Error(), "child categories") {
		t.Fatalf("err = %v, want child-category conflict", err)
	}
	if _, err := store.GetCategory(context.Background(), parent.ID); err != nil {
		t.Error("parent category must survive a refused delete")
	}
}

func TestCreateCategorySurvivesMediaFailure(t *testing.T) {
	store, registry, _, handlers, uploader := testSuite()
	uploader.fail = true
	admin := connectedSession(registry, "a@smartbag.dev", ChannelCategories)

	err := handlers.createCategory(context.Background(), admin, &Envelope{
		Data: map[string]any{"name": "Snacks", "image": dataURI(2048)},
	})
	if err != nil {
		t.Fatalf("createCategory: %v", err)
	}

	categories, _ := store.ListCategories(context.Background())
	if len(categories) != 1 || categories[0].Name != "Snacks" || categories[0].Image != nil {
		t.Errorf("categories = %#v, want Snacks without image", categories)
	}

	frames := drainFrames(admin)
	if len(framesOfType(frames, TypeUploadProgress)) == 0 {
		t.Error("expected upload progress notice despite failure")
	}
	if len(framesOfType(frames, "category_created")) != 1 {
		t.Error("expected category_created ack despite media failure")
	}
	if len(framesOfType(frames, TypeCategoriesData)) != 1 {
		t.Error("expected categories_data broadcast containing the new category")
	}
}

func TestCreateProductRejectsEleventhImage(t *testing.T) {
	_, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	images := make([]any, 11)
	for i := range images {
		images[i] = dataURI(1024)
	}
	err := handlers.createProduct(context.Background(), admin, &Envelope{
		Data: map[string]any{"name": "Chips", "price": 10.0, "images": images},
	})
	if err == nil || !strings.Contains(err.Error(), "at most 10") {
		t.Errorf("err = %v, want image cap rejection", err)
	}
}

func TestUpdateProductCombinedImageCap(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	product := &models.Product{Name: "Chips", Price: 10, Status: "active", IsActive: true}
	for i := 0; i < 9; i++ {
		product.Images = append(product.Images, models.ImageAsset{URL: "u", PublicID: "p"})
	}
	_ = store.InsertProduct(context.Background(), product)

	existing := make([]any, 0, 9)
	for _, a := range product.Images {
		existing = append(existing, map[string]any{"url": a.URL, "public_id": a.PublicID})
	}
	images := append(existing, dataURI(2048), dataURI(2048))

	err := handlers.updateProduct(context.Background(), admin, &Envelope{
		Data: map[string]any{"_id": product.ID.Hex(), "images": images},
	})
	if err == nil || !strings.Contains(err.Error(), "at most 10") {
		t.Errorf("err = %v, want combined-count rejection", err)
	}
}

func TestDeleteProductCascadesMediaDeletes(t *testing.T) {
	store, registry, _, handlers, uploader := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	product := &models.Product{
		Name: "Chips", Price: 10,
		Images: []models.ImageAsset{{URL: "u1", PublicID: "p1"}, {URL: "u2", PublicID: "p2"}},
	}
	_ = store.InsertProduct(context.Background(), product)

	err := handlers.deleteProduct(context.Background(), admin, &Envelope{
		Data: map[string]any{"_id": product.ID.Hex()},
	})
	if err != nil {
		t.Fatalf("deleteProduct: %v", err)
	}
	if len(uploader.deletes) != 2 {
		t.Errorf("media deletes = %v, want both public ids", uploader.deletes)
	}
}

func TestGetOrdersCustomerNameShortCircuits(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	uid := store.addUser(models.User{Email: "c@x.dev", Name: "Carol", Role: "customer"})
	store.addOrder(models.Order{UserID: uid, Status: models.OrderStatusPending, TotalAmount: 100})

	err := handlers.getOrders(context.Background(), admin, &Envelope{
		Filters: map[string]any{"customer_name": "ZZZ_NONE"},
	})
	if err != nil {
		t.Fatalf("getOrders: %v", err)
	}

	frames := framesOfType(drainFrames(admin), TypeOrdersData)
	if len(frames) != 1 {
		t.Fatalf("frames = %d", len(frames))
	}
	orders, ok := frames[0]["orders"].([]models.Order)
	if !ok || len(orders) != 0 {
		t.Errorf("orders = %#v, want empty", frames[0]["orders"])
	}
	pg, ok := frames[0]["pagination"].(models.OrderPagination)
	if !ok || pg.TotalOrders != 0 || pg.TotalPages != 1 {
		t.Errorf("pagination = %#v", frames[0]["pagination"])
	}
}

func TestGetOrdersEnrichment(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	customer := store.addUser(models.User{Email: "c@x.dev", Name: "Carol", Role: "customer"})
	partner := store.addUser(models.User{Email: "d@x.dev", Name: "Dave", Role: "delivery_partner"})
	product := &models.Product{Name: "Chips", Price: 10,
		Images: []models.ImageAsset{{URL: "https://cdn/x.png"}}}
	_ = store.InsertProduct(context.Background(), product)
	store.addOrder(models.Order{
		UserID:          customer,
		DeliveryPartner: &partner,
		Items:           []models.OrderItem{{ProductID: product.ID, Quantity: 2, Price: 10}},
		Status:          models.OrderStatusAssigned,
		TotalAmount:     20,
		CreatedAt:       time.Now().UTC(),
	})

	if err := handlers.getOrders(context.Background(), admin, &Envelope{}); err != nil {
		t.Fatalf("getOrders: %v", err)
	}

	frames := framesOfType(drainFrames(admin), TypeOrdersData)
	orders := frames[0]["orders"].([]models.Order)
	if len(orders) != 1 {
		t.Fatalf("orders = %d", len(orders))
	}
	o := orders[0]
	if o.UserInfo == nil || o.UserInfo.Name != "Carol" {
		t.Errorf("user_info = %#v", o.UserInfo)
	}
	if o.DeliveryPartnerName != "Dave" {
		t.Errorf("delivery_partner_name = %q", o.DeliveryPartnerName)
	}
	if o.Items[0].ProductName != "Chips" || o.Items[0].ProductImage != "https://cdn/x.png" {
		t.Errorf("item enrichment = %#v", o.Items[0])
	}
}

func TestUpdateOrderStatusValidatesStatus(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")
	id := store.addOrder(models.Order{UserID: primitive.NewObjectID(), Status: models.OrderStatusPending})

	err := handlers.updateOrderStatus(context.Background(), admin, &Envelope{
		Data: map[string]any{"order_id": id.Hex(), "status": "teleported"},
	})
	if err == nil || !strings.Contains(err.Error(), "invalid order status") {
		t.Errorf("err = %v", err)
	}
}

func TestRoleTransitionCreatesPartnerProfile(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev", ChannelUsers)
	uid := store.addUser(models.User{Email: "c@x.dev", Name: "Carol", Role: "customer"})

	err := handlers.updateUserRole(context.Background(), admin, &Envelope{
		Data: map[string]any{"user_id": uid.Hex(), "role": models.RoleDeliveryPartner},
	})
	if err != nil {
		t.Fatalf("updateUserRole: %v", err)
	}

	profile, err := store.GetPartnerByUserID(context.Background(), uid)
	if err != nil {
		t.Fatal("partner profile was not created")
	}
	if profile.IsAvailable || profile.Rating != 0 || profile.TotalDeliveries != 0 {
		t.Errorf("profile defaults = %#v", profile)
	}

	// A second transition into the same role must not duplicate the profile.
	if err := handlers.updateUserRole(context.Background(), admin, &Envelope{
		Data: map[string]any{"user_id": uid.Hex(), "role": models.RoleDeliveryPartner},
	}); err != nil {
		t.Fatalf("second updateUserRole: %v", err)
	}
	if len(store.partners) != 1 {
		t.Errorf("partner profiles = %d, want 1", len(store.partners))
	}

	users := framesOfType(drainFrames(admin), TypeUsersData)
	if len(users) == 0 {
		t.Error("expected users_data broadcast after role change")
	}
}

func TestToggleCouponIsIdempotent(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	coupon := &models.Coupon{Code: "SAVE10", DiscountType: "percent", DiscountValue: 10}
	_ = store.InsertCoupon(context.Background(), coupon)

	env := &Envelope{Data: map[string]any{"_id": coupon.ID.Hex(), "is_active": true}}
	for i := 0; i < 2; i++ {
		if err := handlers.toggleCouponStatus(context.Background(), admin, env); err != nil {
			t.Fatalf("toggle pass %d: %v", i, err)
		}
	}
	got, _ := store.GetCoupon(context.Background(), coupon.ID)
	if !got.IsActive {
		t.Error("coupon should remain active after double toggle to true")
	}
}

func TestRespondToTicket(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")
	uid := store.addUser(models.User{Email: "c@x.dev", Name: "Carol"})
	tid := store.addTicket(models.HelpTicket{
		UserID:  uid,
		Subject: "Late order",
		Status:  models.TicketStatusOpen,
		Messages: []models.TicketMessage{
			{SenderType: models.SenderTypeUser, Message: "where is it", CreatedAt: time.Now().UTC()},
		},
	})

	err := handlers.respondToTicket(context.Background(), admin, &Envelope{
		Data: map[string]any{"ticket_id": tid.Hex(), "response": "On its way"},
	})
	if err != nil {
		t.Fatalf("respondToTicket: %v", err)
	}

	ticket, _ := store.GetTicket(context.Background(), tid)
	if ticket.Status != models.TicketStatusInProgress {
		t.Errorf("status = %q, want in_progress default", ticket.Status)
	}
	if ticket.RespondedAt == nil || ticket.AdminResponse != "On its way" {
		t.Errorf("response fields = %v / %q", ticket.RespondedAt, ticket.AdminResponse)
	}
	last := ticket.Messages[len(ticket.Messages)-1]
	if last.SenderType != models.SenderTypeAdmin || last.SenderName != "Support Team" {
		t.Errorf("appended message = %#v", last)
	}
}

func TestTicketFilterAllDisables(t *testing.T) {
	if ticketFilter(map[string]any{"status": "all"}, "status") != "" {
		t.Error(`"all" should disable the filter`)
	}
	if ticketFilter(map[string]any{"status": "open"}, "status") != "open" {
		t.Error("explicit status should pass through")
	}
}

func TestInventoryFrameLowStockAscending(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	for _, p := range []models.Product{
		{Name: "A", Stock: 3}, {Name: "B", Stock: 50}, {Name: "C", Stock: 1},
	} {
		cp := p
		_ = store.InsertProduct(context.Background(), &cp)
	}

	if err := handlers.getInventoryStatus(context.Background(), admin, &Envelope{}); err != nil {
		t.Fatalf("getInventoryStatus: %v", err)
	}

	frames := framesOfType(drainFrames(admin), TypeInventoryData)
	low := frames[0]["data"].([]models.Product)
	if len(low) != 2 || low[0].Stock != 1 || low[1].Stock != 3 {
		t.Errorf("low stock = %#v, want ascending below threshold", low)
	}
	if frames[0]["total_products"] != int64(3) {
		t.Errorf("total_products = %v", frames[0]["total_products"])
	}
}

func TestPricingConfigSeedsDefault(t *testing.T) {
	store, registry, _, handlers, _ := testSuite()
	admin := connectedSession(registry, "a@smartbag.dev")

	if err := handlers.getPricingConfig(context.Background(), admin, &Envelope{}); err != nil {
		t.Fatalf("getPricingConfig: %v", err)
	}
	if store.pricing == nil || store.pricing.DeliveryFee != 25 || store.pricing.UpdatedBy != "system" {
		t.Errorf("seeded pricing = %#v", store.pricing)
	}

	err := handlers.updatePricingConfig(context.Background(), admin, &Envelope{
		Data: map[string]any{"delivery_fee": 35.0},
	})
	if err != nil {
		t.Fatalf("updatePricingConfig: %v", err)
	}
	if store.pricing.DeliveryFee != 35 || store.pricing.UpdatedBy != "a@smartbag.dev" {
		t.Errorf("updated pricing = %#v", store.pricing)
	}
}

func TestAnalyticsWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	from, period, err := analyticsWindow("", now)
	if err != nil || period != "day" || from != now.Truncate(24*time.Hour) {
		t.Errorf("day window = %v %q %v", from, period, err)
	}
	if _, _, err := analyticsWindow("year", now); err == nil {
		t.Error("invalid period should error")
	}
}
