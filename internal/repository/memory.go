package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
)

// MemoryStore объединённое in-memory хранилище всех коллекций.
// Используется в тестах и при STORAGE=memory.
type MemoryStore struct {
	mu             sync.RWMutex
	productsByID   map[primitive.ObjectID]domain.Product
	ordersByID     map[string]domain.Order
	adminsByID     map[primitive.ObjectID]domain.Admin
	categoriesByID map[primitive.ObjectID]domain.Category
	enquiriesByID  map[primitive.ObjectID]domain.Enquiry
	messagesByID   map[primitive.ObjectID]domain.ContactMessage
	logsByID       map[primitive.ObjectID]domain.Log
	now            func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productsByID:   make(map[primitive.ObjectID]domain.Product),
		ordersByID:     make(map[string]domain.Order),
		adminsByID:     make(map[primitive.ObjectID]domain.Admin),
		categoriesByID: make(map[primitive.ObjectID]domain.Category),
		enquiriesByID:  make(map[primitive.ObjectID]domain.Enquiry),
		messagesByID:   make(map[primitive.ObjectID]domain.ContactMessage),
		logsByID:       make(map[primitive.ObjectID]domain.Log),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.productsByID {
		if existing.ProductCode == p.ProductCode {
			return ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.productsByID[p.ID] = cloneProduct(*p)
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := cloneProduct(p)
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.productsByID[p.ID]
	if !ok {
		return ErrNotFound
	}
	for id, existing := range m.productsByID {
		if id != p.ID && existing.ProductCode == p.ProductCode {
			return ErrDuplicate
		}
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = m.now()
	m.productsByID[p.ID] = cloneProduct(*p)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if !containsIgnoreCase(p.ProductName, f.Query) && !containsIgnoreCase(p.ProductCode, f.Query) {
			continue
		}
		if f.Category != nil && p.Category != *f.Category {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdateSize(ctx context.Context, id primitive.ObjectID, v domain.SizeVariant) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	idx := p.SizeIndex(v.Size)
	if idx < 0 {
		return nil, ErrNotFound
	}
	p = cloneProduct(p)
	p.Sizes[idx] = v
	p.UpdatedAt = m.now()
	m.productsByID[id] = p
	cp := cloneProduct(p)
	return &cp, nil
}

func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.productsByID)), nil
}

func cloneProduct(p domain.Product) domain.Product {
	p.Media = append([]domain.Media(nil), p.Media...)
	p.Colors = append([]domain.Color(nil), p.Colors...)
	p.Sizes = append([]domain.SizeVariant(nil), p.Sizes...)
	p.MaterialWashing = append([]domain.LabelValue(nil), p.MaterialWashing...)
	p.SizeShape = append([]domain.LabelValue(nil), p.SizeShape...)
	return p
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	if _, ok := mo.store.ordersByID[o.OrderID]; ok {
		return ErrDuplicate
	}
	o.ID = primitive.NewObjectID()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = mo.store.now()
	}
	o.UpdatedAt = o.CreatedAt
	mo.store.ordersByID[o.OrderID] = cloneOrder(*o)
	return nil
}

func (mo *MemoryOrders) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	o, ok := mo.store.ordersByID[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) List(ctx context.Context) ([]domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	out := make([]domain.Order, 0, len(mo.store.ordersByID))
	for _, o := range mo.store.ordersByID {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, payment domain.PaymentStatus) (*domain.Order, error) {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	o, ok := mo.store.ordersByID[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	if o.OrderStatus.Terminal() {
		return nil, ErrConflict
	}
	o.OrderStatus = status
	o.PaymentStatus = payment
	o.UpdatedAt = mo.store.now()
	mo.store.ordersByID[orderID] = o
	cp := cloneOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) Count(ctx context.Context) (int64, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	return int64(len(mo.store.ordersByID)), nil
}

func (mo *MemoryOrders) Revenue(ctx context.Context) (paid, expected float64, err error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	for _, o := range mo.store.ordersByID {
		switch {
		case o.PaymentStatus == domain.PaymentStatusPaid:
			paid += o.TotalAmount
		case o.OrderStatus != domain.OrderStatusCancelled:
			expected += o.TotalAmount
		}
	}
	return paid, expected, nil
}

func (mo *MemoryOrders) DailyCounts(ctx context.Context) ([]domain.DailyOrders, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	byDay := make(map[time.Time]int64)
	for _, o := range mo.store.ordersByID {
		byDay[dayUTC(o.CreatedAt)]++
	}
	out := make([]domain.DailyOrders, 0, len(byDay))
	for d, n := range byDay {
		out = append(out, domain.DailyOrders{Date: d, Orders: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}

// AdminRepository implementation
type MemoryAdmins struct{ store *MemoryStore }

func NewMemoryAdmins(store *MemoryStore) *MemoryAdmins { return &MemoryAdmins{store: store} }

var _ AdminRepository = (*MemoryAdmins)(nil)

func (ma *MemoryAdmins) emailTaken(email string, except primitive.ObjectID) bool {
	for id, a := range ma.store.adminsByID {
		if id != except && strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (ma *MemoryAdmins) Create(ctx context.Context, a *domain.Admin) error {
	ma.store.mu.Lock()
	defer ma.store.mu.Unlock()
	if ma.emailTaken(a.Email, primitive.NilObjectID) {
		return ErrDuplicate
	}
	a.ID = primitive.NewObjectID()
	a.CreatedAt = ma.store.now()
	a.UpdatedAt = a.CreatedAt
	ma.store.adminsByID[a.ID] = *a
	return nil
}

func (ma *MemoryAdmins) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Admin, error) {
	ma.store.mu.RLock()
	defer ma.store.mu.RUnlock()
	a, ok := ma.store.adminsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (ma *MemoryAdmins) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	ma.store.mu.RLock()
	defer ma.store.mu.RUnlock()
	for _, a := range ma.store.adminsByID {
		if strings.EqualFold(a.Email, email) {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (ma *MemoryAdmins) List(ctx context.Context, role *domain.Role) ([]domain.Admin, error) {
	ma.store.mu.RLock()
	defer ma.store.mu.RUnlock()
	out := make([]domain.Admin, 0)
	for _, a := range ma.store.adminsByID {
		if role != nil && a.Role != *role {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (ma *MemoryAdmins) Update(ctx context.Context, a *domain.Admin) error {
	ma.store.mu.Lock()
	defer ma.store.mu.Unlock()
	old, ok := ma.store.adminsByID[a.ID]
	if !ok {
		return ErrNotFound
	}
	if ma.emailTaken(a.Email, a.ID) {
		return ErrDuplicate
	}
	// пароль меняется только через SetPassword
	a.PasswordHash = old.PasswordHash
	a.CreatedAt = old.CreatedAt
	a.UpdatedAt = ma.store.now()
	ma.store.adminsByID[a.ID] = *a
	return nil
}

func (ma *MemoryAdmins) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	ma.store.mu.Lock()
	defer ma.store.mu.Unlock()
	a, ok := ma.store.adminsByID[id]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = hash
	a.UpdatedAt = ma.store.now()
	ma.store.adminsByID[id] = a
	return nil
}

func (ma *MemoryAdmins) Delete(ctx context.Context, id primitive.ObjectID) error {
	ma.store.mu.Lock()
	defer ma.store.mu.Unlock()
	if _, ok := ma.store.adminsByID[id]; !ok {
		return ErrNotFound
	}
	delete(ma.store.adminsByID, id)
	return nil
}

// CategoryRepository implementation
type MemoryCategories struct{ store *MemoryStore }

func NewMemoryCategories(store *MemoryStore) *MemoryCategories {
	return &MemoryCategories{store: store}
}

var _ CategoryRepository = (*MemoryCategories)(nil)

func (mc *MemoryCategories) Create(ctx context.Context, c *domain.Category) error {
	mc.store.mu.Lock()
	defer mc.store.mu.Unlock()
	for _, existing := range mc.store.categoriesByID {
		if existing.Name == c.Name {
			return ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = mc.store.now()
	mc.store.categoriesByID[c.ID] = *c
	return nil
}

func (mc *MemoryCategories) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	mc.store.mu.RLock()
	defer mc.store.mu.RUnlock()
	c, ok := mc.store.categoriesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (mc *MemoryCategories) List(ctx context.Context) ([]domain.Category, error) {
	mc.store.mu.RLock()
	defer mc.store.mu.RUnlock()
	out := make([]domain.Category, 0, len(mc.store.categoriesByID))
	for _, c := range mc.store.categoriesByID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (mc *MemoryCategories) Count(ctx context.Context) (int64, error) {
	mc.store.mu.RLock()
	defer mc.store.mu.RUnlock()
	return int64(len(mc.store.categoriesByID)), nil
}

// EnquiryRepository implementation
type MemoryEnquiries struct{ store *MemoryStore }

func NewMemoryEnquiries(store *MemoryStore) *MemoryEnquiries { return &MemoryEnquiries{store: store} }

var _ EnquiryRepository = (*MemoryEnquiries)(nil)

func (me *MemoryEnquiries) Create(ctx context.Context, e *domain.Enquiry) error {
	me.store.mu.Lock()
	defer me.store.mu.Unlock()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = me.store.now()
	me.store.enquiriesByID[e.ID] = *e
	return nil
}

func (me *MemoryEnquiries) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error) {
	me.store.mu.RLock()
	defer me.store.mu.RUnlock()
	e, ok := me.store.enquiriesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (me *MemoryEnquiries) List(ctx context.Context) ([]domain.Enquiry, error) {
	me.store.mu.RLock()
	defer me.store.mu.RUnlock()
	out := make([]domain.Enquiry, 0, len(me.store.enquiriesByID))
	for _, e := range me.store.enquiriesByID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (me *MemoryEnquiries) MarkRead(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error) {
	me.store.mu.Lock()
	defer me.store.mu.Unlock()
	e, ok := me.store.enquiriesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.Read = true
	me.store.enquiriesByID[id] = e
	return &e, nil
}

func (me *MemoryEnquiries) Delete(ctx context.Context, id primitive.ObjectID) error {
	me.store.mu.Lock()
	defer me.store.mu.Unlock()
	if _, ok := me.store.enquiriesByID[id]; !ok {
		return ErrNotFound
	}
	delete(me.store.enquiriesByID, id)
	return nil
}

func (me *MemoryEnquiries) CountUnread(ctx context.Context) (int64, error) {
	me.store.mu.RLock()
	defer me.store.mu.RUnlock()
	var n int64
	for _, e := range me.store.enquiriesByID {
		if !e.Read {
			n++
		}
	}
	return n, nil
}

// ContactMessageRepository implementation
type MemoryContactMessages struct{ store *MemoryStore }

func NewMemoryContactMessages(store *MemoryStore) *MemoryContactMessages {
	return &MemoryContactMessages{store: store}
}

var _ ContactMessageRepository = (*MemoryContactMessages)(nil)

func (mm *MemoryContactMessages) Create(ctx context.Context, m *domain.ContactMessage) error {
	mm.store.mu.Lock()
	defer mm.store.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = mm.store.now()
	mm.store.messagesByID[m.ID] = *m
	return nil
}

func (mm *MemoryContactMessages) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ContactMessage, error) {
	mm.store.mu.RLock()
	defer mm.store.mu.RUnlock()
	m, ok := mm.store.messagesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (mm *MemoryContactMessages) List(ctx context.Context) ([]domain.ContactMessage, error) {
	mm.store.mu.RLock()
	defer mm.store.mu.RUnlock()
	out := make([]domain.ContactMessage, 0, len(mm.store.messagesByID))
	for _, m := range mm.store.messagesByID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (mm *MemoryContactMessages) SetVisited(ctx context.Context, id primitive.ObjectID, visited bool) (*domain.ContactMessage, error) {
	mm.store.mu.Lock()
	defer mm.store.mu.Unlock()
	m, ok := mm.store.messagesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.Visited = visited
	mm.store.messagesByID[id] = m
	return &m, nil
}

// LogRepository implementation
type MemoryLogs struct{ store *MemoryStore }

func NewMemoryLogs(store *MemoryStore) *MemoryLogs { return &MemoryLogs{store: store} }

var _ LogRepository = (*MemoryLogs)(nil)

func (ml *MemoryLogs) Create(ctx context.Context, l *domain.Log) error {
	ml.store.mu.Lock()
	defer ml.store.mu.Unlock()
	l.ID = primitive.NewObjectID()
	if l.Timestamp.IsZero() {
		l.Timestamp = ml.store.now()
	}
	ml.store.logsByID[l.ID] = *l
	return nil
}

func (ml *MemoryLogs) List(ctx context.Context) ([]domain.Log, error) {
	ml.store.mu.RLock()
	defer ml.store.mu.RUnlock()
	out := make([]domain.Log, 0, len(ml.store.logsByID))
	for _, l := range ml.store.logsByID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (ml *MemoryLogs) Delete(ctx context.Context, id primitive.ObjectID) error {
	ml.store.mu.Lock()
	defer ml.store.mu.Unlock()
	if _, ok := ml.store.logsByID[id]; !ok {
		return ErrNotFound
	}
	delete(ml.store.logsByID, id)
	return nil
}

func (ml *MemoryLogs) DeleteAll(ctx context.Context) (int64, error) {
	ml.store.mu.Lock()
	defer ml.store.mu.Unlock()
	n := int64(len(ml.store.logsByID))
	ml.store.logsByID = make(map[primitive.ObjectID]domain.Log)
	return n, nil
}
