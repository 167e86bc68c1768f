package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"dollmart/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store. It backs tests
// and local experiments; Transaction works on a copy of the data and
// swaps it in only on success, so a failed workflow leaves no trace.
type MemoryStore struct {
	mu sync.Mutex
	d  *memData
}

type memData struct {
	users    map[string]models.User
	products map[string]models.Product
	orders   map[string]models.Order
	coupons  map[string]models.Coupon
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{d: newMemData()}
}

func newMemData() *memData {
	return &memData{
		users:    make(map[string]models.User),
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
		coupons:  make(map[string]models.Coupon),
	}
}

func (d *memData) clone() *memData {
	c := newMemData()
	for id, u := range d.users {
		c.users[id] = u
	}
	for id, p := range d.products {
		c.products[id] = p
	}
	for id, o := range d.orders {
		o.Items = append([]models.OrderItem(nil), o.Items...)
		c.orders[id] = o
	}
	for id, cp := range d.coupons {
		c.coupons[id] = cp
	}
	return c
}

func (s *MemoryStore) Users() UserRepository       { return &memUserRepo{s: s} }
func (s *MemoryStore) Products() ProductRepository { return &memProductRepo{s: s} }
func (s *MemoryStore) Orders() OrderRepository     { return &memOrderRepo{s: s} }
func (s *MemoryStore) Coupons() CouponRepository   { return &memCouponRepo{s: s} }

// Transaction runs fn against a copy of the data and commits the copy
// only when fn returns nil.
func (s *MemoryStore) Transaction(fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := s.d.clone()
	if err := fn(&memTx{d: clone}); err != nil {
		return err
	}
	s.d = clone
	return nil
}

// memTx is a Store bound to an open in-memory transaction.
type memTx struct {
	d *memData
}

func (t *memTx) Users() UserRepository       { return &memUserRepo{d: t.d} }
func (t *memTx) Products() ProductRepository { return &memProductRepo{d: t.d} }
func (t *memTx) Orders() OrderRepository     { return &memOrderRepo{d: t.d} }
func (t *memTx) Coupons() CouponRepository   { return &memCouponRepo{d: t.d} }

// Transaction inside an open transaction just joins it.
func (t *memTx) Transaction(fn func(tx Store) error) error {
	return fn(t)
}

// begin resolves the data set to operate on. Outside a transaction the
// store's mutex is held for the duration of the call.
func begin(s *MemoryStore, d *memData) (*memData, func()) {
	if s == nil {
		return d, func() {}
	}
	s.mu.Lock()
	return s.d, s.mu.Unlock
}

// --- users ---

type memUserRepo struct {
	s *MemoryStore // nil inside a transaction
	d *memData
}

func (r *memUserRepo) Create(user *models.User) error {
	d, done := begin(r.s, r.d)
	defer done()

	for _, u := range d.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicateUsername)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	d.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByUsername(username string) (*models.User, error) {
	d, done := begin(r.s, r.d)
	defer done()

	for _, u := range d.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("username %q: %w", username, ErrUserNotFound)
}

func (r *memUserRepo) GetByID(id string) (*models.User, error) {
	d, done := begin(r.s, r.d)
	defer done()

	u, ok := d.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	return &u, nil
}

func (r *memUserRepo) ListCustomers() ([]models.User, error) {
	d, done := begin(r.s, r.d)
	defer done()

	var users []models.User
	for _, u := range d.users {
		if u.Role == models.RoleCustomer {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].RegistrationDate.After(users[j].RegistrationDate)
	})
	return users, nil
}

func (r *memUserRepo) IncrementOrdersCount(id string) (int, error) {
	d, done := begin(r.s, r.d)
	defer done()

	u, ok := d.users[id]
	if !ok {
		return 0, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	u.OrdersCount++
	d.users[id] = u
	return u.OrdersCount, nil
}

// --- products ---

type memProductRepo struct {
	s *MemoryStore
	d *memData
}

func (r *memProductRepo) GetAll() ([]models.Product, error) {
	d, done := begin(r.s, r.d)
	defer done()

	products := make([]models.Product, 0, len(d.products))
	for _, p := range d.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *memProductRepo) GetByCategory(category string) ([]models.Product, error) {
	d, done := begin(r.s, r.d)
	defer done()

	var products []models.Product
	for _, p := range d.products {
		if p.Category == category {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *memProductRepo) SearchByName(term string) ([]models.Product, error) {
	d, done := begin(r.s, r.d)
	defer done()

	var products []models.Product
	for _, p := range d.products {
		if containsFold(p.Name, term) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *memProductRepo) GetByID(id string) (*models.Product, error) {
	d, done := begin(r.s, r.d)
	defer done()

	p, ok := d.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrProductNotFound)
	}
	return &p, nil
}

func (r *memProductRepo) Create(product *models.Product) error {
	d, done := begin(r.s, r.d)
	defer done()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	d.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Update(product *models.Product) error {
	d, done := begin(r.s, r.d)
	defer done()

	if _, ok := d.products[product.ID]; !ok {
		return fmt.Errorf("product %s: %w", product.ID, ErrProductNotFound)
	}
	d.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(id string) error {
	d, done := begin(r.s, r.d)
	defer done()

	if _, ok := d.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, ErrProductNotFound)
	}
	for _, o := range d.orders {
		for _, item := range o.Items {
			if item.ProductID == id {
				return fmt.Errorf("product %s: %w", id, ErrProductReferenced)
			}
		}
	}
	delete(d.products, id)
	return nil
}

func (r *memProductRepo) DecrementStock(id string, qty int) error {
	d, done := begin(r.s, r.d)
	defer done()

	p, ok := d.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, ErrProductNotFound)
	}
	if p.Stock < qty {
		return fmt.Errorf("product %s: %w", id, ErrInsufficientStock)
	}
	p.Stock -= qty
	d.products[id] = p
	return nil
}

// --- orders ---

type memOrderRepo struct {
	s *MemoryStore
	d *memData
}

func (r *memOrderRepo) Create(order *models.Order) error {
	d, done := begin(r.s, r.d)
	defer done()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	d.orders[order.ID] = stored
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*models.Order, error) {
	d, done := begin(r.s, r.d)
	defer done()

	o, ok := d.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return &o, nil
}

func (r *memOrderRepo) ListByUser(userID string) ([]models.Order, error) {
	d, done := begin(r.s, r.d)
	defer done()

	var orders []models.Order
	for _, o := range d.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sortOrdersByDateDesc(orders)
	return orders, nil
}

func (r *memOrderRepo) ListAll() ([]models.Order, error) {
	d, done := begin(r.s, r.d)
	defer done()

	orders := make([]models.Order, 0, len(d.orders))
	for _, o := range d.orders {
		orders = append(orders, o)
	}
	sortOrdersByDateDesc(orders)
	return orders, nil
}

func (r *memOrderRepo) ListUndelivered() ([]models.Order, error) {
	d, done := begin(r.s, r.d)
	defer done()

	var orders []models.Order
	for _, o := range d.orders {
		if o.Status != models.StatusDelivered {
			orders = append(orders, o)
		}
	}
	sortOrdersByDateDesc(orders)
	return orders, nil
}

func (r *memOrderRepo) UpdateStatus(id string, status models.OrderStatus) error {
	d, done := begin(r.s, r.d)
	defer done()

	o, ok := d.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	o.Status = status
	d.orders[id] = o
	return nil
}

// --- coupons ---

type memCouponRepo struct {
	s *MemoryStore
	d *memData
}

func (r *memCouponRepo) Create(coupon *models.Coupon) error {
	d, done := begin(r.s, r.d)
	defer done()

	for _, c := range d.coupons {
		if c.Code == coupon.Code {
			return fmt.Errorf("code %q: %w", coupon.Code, ErrDuplicateCode)
		}
	}
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	d.coupons[coupon.ID] = *coupon
	return nil
}

func (r *memCouponRepo) GetByID(id string) (*models.Coupon, error) {
	d, done := begin(r.s, r.d)
	defer done()

	c, ok := d.coupons[id]
	if !ok {
		return nil, fmt.Errorf("coupon %s: %w", id, ErrCouponNotFound)
	}
	return &c, nil
}

func (r *memCouponRepo) ListByUser(userID string) ([]models.Coupon, error) {
	d, done := begin(r.s, r.d)
	defer done()

	var coupons []models.Coupon
	for _, c := range d.coupons {
		if c.UserID == userID {
			coupons = append(coupons, c)
		}
	}
	sort.Slice(coupons, func(i, j int) bool { return coupons[i].Code < coupons[j].Code })
	return coupons, nil
}

func (r *memCouponRepo) MarkUsed(id, userID string) (bool, error) {
	d, done := begin(r.s, r.d)
	defer done()

	c, ok := d.coupons[id]
	if !ok || c.UserID != userID || c.Used {
		return false, nil
	}
	c.Used = true
	d.coupons[id] = c
	return true, nil
}

// --- helpers ---

func sortOrdersByDateDesc(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
