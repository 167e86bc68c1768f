package repositories

import (
	"errors"
	"fmt"

	"dollmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStore is the relational implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new GORMStore. The *gorm.DB should be opened
// with TranslateError enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// AutoMigrate creates or updates the schema for all store models.
func (s *GORMStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
	)
}

func (s *GORMStore) Users() UserRepository       { return &gormUserRepo{db: s.db} }
func (s *GORMStore) Products() ProductRepository { return &gormProductRepo{db: s.db} }
func (s *GORMStore) Orders() OrderRepository     { return &gormOrderRepo{db: s.db} }
func (s *GORMStore) Coupons() CouponRepository   { return &gormCouponRepo{db: s.db} }

// Transaction runs fn inside a database transaction. The Store passed to
// fn is bound to that transaction; returning an error rolls it back.
func (s *GORMStore) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GORMStore{db: tx})
	})
}

// --- users ---

type gormUserRepo struct {
	db *gorm.DB
}

func (r *gormUserRepo) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *gormUserRepo) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("username %q: %w", username, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

func (r *gormUserRepo) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

func (r *gormUserRepo) ListCustomers() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", models.RoleCustomer).
		Order("registration_date DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return users, nil
}

func (r *gormUserRepo) IncrementOrdersCount(id string) (int, error) {
	res := r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("orders_count", gorm.Expr("orders_count + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to increment orders count for user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}

	var user models.User
	if err := r.db.Select("orders_count").First(&user, "id = ?", id).Error; err != nil {
		return 0, fmt.Errorf("failed to read orders count for user %s: %w", id, err)
	}
	return user.OrdersCount, nil
}

// --- products ---

type gormProductRepo struct {
	db *gorm.DB
}

func (r *gormProductRepo) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

func (r *gormProductRepo) GetByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("category = ?", category).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products in category %s: %w", category, err)
	}
	return products, nil
}

func (r *gormProductRepo) SearchByName(term string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("name LIKE ?", "%"+term+"%").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products by name %q: %w", term, err)
	}
	return products, nil
}

func (r *gormProductRepo) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

func (r *gormProductRepo) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *gormProductRepo) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

func (r *gormProductRepo) Delete(id string) error {
	var refs int64
	if err := r.db.Model(&models.OrderItem{}).Where("product_id = ?", id).
		Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to count order references for product %s: %w", id, err)
	}
	if refs > 0 {
		return fmt.Errorf("product %s: %w", id, ErrProductReferenced)
	}

	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrProductNotFound)
	}
	return nil
}

func (r *gormProductRepo) DecrementStock(id string, qty int) error {
	// Guarded decrement: the WHERE clause rejects the update when the
	// remaining stock is short, so stock can never go negative.
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check product %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("product %s: %w", id, ErrProductNotFound)
		}
		return fmt.Errorf("product %s: %w", id, ErrInsufficientStock)
	}
	return nil
}

// --- orders ---

type gormOrderRepo struct {
	db *gorm.DB
}

func (r *gormOrderRepo) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *gormOrderRepo) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

func (r *gormOrderRepo) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_id = ?", userID).
		Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

func (r *gormOrderRepo) ListAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *gormOrderRepo) ListUndelivered() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("status <> ?", models.StatusDelivered).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list undelivered orders: %w", err)
	}
	return orders, nil
}

func (r *gormOrderRepo) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return nil
}

// --- coupons ---

type gormCouponRepo struct {
	db *gorm.DB
}

func (r *gormCouponRepo) Create(coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	if err := r.db.Create(coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("code %q: %w", coupon.Code, ErrDuplicateCode)
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *gormCouponRepo) GetByID(id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("coupon %s: %w", id, ErrCouponNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon by ID %s: %w", id, err)
	}
	return &coupon, nil
}

func (r *gormCouponRepo) ListByUser(userID string) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.Where("user_id = ?", userID).Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to list coupons for user %s: %w", userID, err)
	}
	return coupons, nil
}

func (r *gormCouponRepo) MarkUsed(id, userID string) (bool, error) {
	// Compare-and-set on the used flag; a concurrent or repeated redeem
	// finds zero matching rows and reports false.
	res := r.db.Model(&models.Coupon{}).
		Where("id = ? AND user_id = ? AND used = ?", id, userID, false).
		UpdateColumn("used", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark coupon %s used: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
