// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

package console

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartbag/smartbag/internal/models"
)

// memStore is an in-memory Store for handler tests. Not safe for concurrent
// writers; tests drive it from a single goroutine.
type memStore struct {
	brands      map[primitive.ObjectID]*models.Brand
	categories  map[primitive.ObjectID]*models.Category
	products    map[primitive.ObjectID]*models.Product
	orders      map[primitive.ObjectID]*models.Order
	users       map[primitive.ObjectID]*models.User
	partners    map[primitive.ObjectID]*models.DeliveryPartner
	tickets     map[primitive.ObjectID]*models.HelpTicket
	coupons     map[primitive.ObjectID]*models.Coupon
	suggestions []models.Suggestion
	pricing     *models.PricingConfig
}

func newMemStore() *memStore {
	return &memStore{
		brands:     make(map[primitive.ObjectID]*models.Brand),
		categories: make(map[primitive.ObjectID]*models.Category),
		products:   make(map[primitive.ObjectID]*models.Product),
		orders:     make(map[primitive.ObjectID]*models.Order),
		users:      make(map[primitive.ObjectID]*models.User),
		partners:   make(map[primitive.ObjectID]*models.DeliveryPartner),
		tickets:    make(map[primitive.ObjectID]*models.HelpTicket),
		coupons:    make(map[primitive.ObjectID]*models.Coupon),
	}
}

var _ Store = (*memStore)(nil)

func (m *memStore) ListBrands(context.Context) ([]models.Brand, error) {
	out := make([]models.Brand, 0, len(m.brands))
	for _, b := range m.brands {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetBrand(_ context.Context, id primitive.ObjectID) (*models.Brand, error) {
	b, ok := m.brands[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) InsertBrand(_ context.Context, b *models.Brand) error {
	b.ID = primitive.NewObjectID()
	cp := *b
	m.brands[b.ID] = &cp
	return nil
}

func (m *memStore) UpdateBrand(_ context.Context, b *models.Brand) error {
	if _, ok := m.brands[b.ID]; !ok {
		return ErrNotFound
	}
	cp := *b
	m.brands[b.ID] = &cp
	return nil
}

func (m *memStore) DeleteBrand(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.brands[id]; !ok {
		return ErrNotFound
	}
	delete(m.brands, id)
	return nil
}

func (m *memStore) ListCategories(context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) InsertCategory(_ context.Context, c *models.Category) error {
	c.ID = primitive.NewObjectID()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *memStore) UpdateCategory(_ context.Context, c *models.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return ErrNotFound
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *memStore) DeleteCategory(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) CountChildCategories(_ context.Context, parentID primitive.ObjectID) (int64, error) {
	var n int64
	for _, c := range m.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListProducts(context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) InsertProduct(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memStore) UpdateProduct(_ context.Context, p *models.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memStore) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) ProductsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (m *memStore) LowStockProducts(_ context.Context, threshold int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		if p.Stock < threshold {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (m *memStore) CountProducts(context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

func (m *memStore) ListOrders(_ context.Context, q OrderQuery) ([]models.Order, int64, error) {
	var matched []models.Order
	for _, o := range m.orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if q.Unassigned && o.DeliveryPartner != nil {
			continue
		}
		if q.DeliveryPartner != nil && (o.DeliveryPartner == nil || *o.DeliveryPartner != *q.DeliveryPartner) {
			continue
		}
		if q.OrderNumber != "" && !strings.Contains(o.OrderNumber, q.OrderNumber) {
			continue
		}
		if len(q.CustomerIDs) > 0 && !containsID(q.CustomerIDs, o.UserID) {
			continue
		}
		matched = append(matched, *o)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (m *memStore) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) UpdateOrder(_ context.Context, o *models.Order) error {
	if _, ok := m.orders[o.ID]; !ok {
		return ErrNotFound
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memStore) addOrder(o models.Order) primitive.ObjectID {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	m.orders[o.ID] = &o
	return o.ID
}

func (m *memStore) ListUsers(_ context.Context, q UserQuery) ([]models.User, int64, error) {
	var matched []models.User
	for _, u := range m.users {
		if q.Role != "" && u.Role != q.Role {
			continue
		}
		if q.IsActive != nil && u.Active() != *q.IsActive {
			continue
		}
		if q.Search != "" &&
			!strings.Contains(strings.ToLower(u.Name), strings.ToLower(q.Search)) &&
			!strings.Contains(strings.ToLower(u.Email), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, *u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memStore) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) UsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (m *memStore) FindUserIDsByName(_ context.Context, name string) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for id, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(name)) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memStore) UpdateUserRole(_ context.Context, id primitive.ObjectID, role string) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *memStore) UpdateUserStatus(_ context.Context, id primitive.ObjectID, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = &active
	return nil
}

func (m *memStore) addUser(u models.User) primitive.ObjectID {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = &u
	return u.ID
}

func (m *memStore) GetPartnerByUserID(_ context.Context, userID primitive.ObjectID) (*models.DeliveryPartner, error) {
	for _, p := range m.partners {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) InsertPartner(_ context.Context, p *models.DeliveryPartner) error {
	p.ID = primitive.NewObjectID()
	cp := *p
	m.partners[p.ID] = &cp
	return nil
}

func (m *memStore) PartnersByUserIDs(_ context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]models.DeliveryPartner, error) {
	out := make(map[primitive.ObjectID]models.DeliveryPartner)
	for _, p := range m.partners {
		if containsID(userIDs, p.UserID) {
			out[p.UserID] = *p
		}
	}
	return out, nil
}

func (m *memStore) ListTickets(_ context.Context, q TicketQuery) ([]models.HelpTicket, error) {
	var out []models.HelpTicket
	for _, t := range m.tickets {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetTicket(_ context.Context, id primitive.ObjectID) (*models.HelpTicket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) UpdateTicket(_ context.Context, t *models.HelpTicket) error {
	if _, ok := m.tickets[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	m.tickets[t.ID] = &cp
	return nil
}

func (m *memStore) TicketStats(_ context.Context, todayStart time.Time) (*models.TicketStats, error) {
	stats := &models.TicketStats{ByStatus: make(map[string]int64)}
	for _, t := range m.tickets {
		stats.Total++
		if !t.CreatedAt.Before(todayStart) {
			stats.Today++
		}
		stats.ByStatus[t.Status]++
	}
	return stats, nil
}

func (m *memStore) addTicket(t models.HelpTicket) primitive.ObjectID {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.tickets[t.ID] = &t
	return t.ID
}

func (m *memStore) ListCoupons(context.Context) ([]models.Coupon, error) {
	out := make([]models.Coupon, 0, len(m.coupons))
	for _, c := range m.coupons {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memStore) GetCoupon(_ context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	c, ok := m.coupons[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) InsertCoupon(_ context.Context, c *models.Coupon) error {
	c.ID = primitive.NewObjectID()
	cp := *c
	m.coupons[c.ID] = &cp
	return nil
}

func (m *memStore) UpdateCoupon(_ context.Context, c *models.Coupon) error {
	if _, ok := m.coupons[c.ID]; !ok {
		return ErrNotFound
	}
	cp := *c
	m.coupons[c.ID] = &cp
	return nil
}

func (m *memStore) DeleteCoupon(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.coupons[id]; !ok {
		return ErrNotFound
	}
	delete(m.coupons, id)
	return nil
}

func (m *memStore) ListSuggestions(context.Context) ([]models.Suggestion, error) {
	out := make([]models.Suggestion, len(m.suggestions))
	copy(out, m.suggestions)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetActivePricing(context.Context) (*models.PricingConfig, error) {
	if m.pricing == nil {
		return nil, ErrNotFound
	}
	cp := *m.pricing
	return &cp, nil
}

func (m *memStore) SavePricing(_ context.Context, cfg *models.PricingConfig) error {
	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
	}
	cp := *cfg
	m.pricing = &cp
	return nil
}

func (m *memStore) AnalyticsSummary(_ context.Context, from, to time.Time) (*models.AnalyticsSummary, error) {
	summary := &models.AnalyticsSummary{}
	for _, o := range m.orders {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		summary.TotalOrders++
		if o.Status != models.OrderStatusCancelled {
			summary.TotalRevenue += o.TotalAmount
		}
	}
	for _, u := range m.users {
		if !u.CreatedAt.Before(from) && !u.CreatedAt.After(to) {
			summary.NewUsers++
		}
	}
	for _, t := range m.tickets {
		if !t.CreatedAt.Before(from) && !t.CreatedAt.After(to) {
			summary.NewTickets++
		}
	}
	return summary, nil
}

// testSuite builds a wired handler suite over a fresh memStore, with a
// registry and broadcaster ready for detached sessions.
func testSuite() (*memStore, *Registry, *Broadcaster, *Handlers, *fakeUploader) {
	store := newMemStore()
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry)
	uploader := &fakeUploader{}
	handlers := NewHandlers(store, uploader, broadcaster)
	return store, registry, broadcaster, handlers, uploader
}
