package repositories_test

import (
	"errors"
	"testing"

	"dollmart/internal/models"
	"dollmart/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_TransactionCommit(t *testing.T) {
	store := repositories.NewMemoryStore()

	err := store.Transaction(func(tx repositories.Store) error {
		if err := tx.Products().Create(&models.Product{ID: "p1", Name: "Rice", Category: "Groceries", Price: 2.99, Stock: 100}); err != nil {
			return err
		}
		return tx.Products().DecrementStock("p1", 60)
	})
	require.NoError(t, err)

	p, err := store.Products().GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 40, p.Stock)
}

func TestMemoryStore_TransactionRollback(t *testing.T) {
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Products().Create(&models.Product{ID: "p1", Name: "Rice", Category: "Groceries", Price: 2.99, Stock: 10}))

	boom := errors.New("boom")
	err := store.Transaction(func(tx repositories.Store) error {
		if err := tx.Products().DecrementStock("p1", 5); err != nil {
			return err
		}
		if err := tx.Orders().Create(&models.Order{UserID: "u1", Status: models.StatusProcessing}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Nothing from the failed transaction is visible.
	p, err := store.Products().GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)

	orders, err := store.Orders().ListAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestMemoryStore_DecrementStockGuard(t *testing.T) {
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Products().Create(&models.Product{ID: "p1", Name: "Milk", Category: "Groceries", Price: 1.99, Stock: 3}))

	err := store.Products().DecrementStock("p1", 4)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	p, err := store.Products().GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestMemoryStore_MarkUsedOnce(t *testing.T) {
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Coupons().Create(&models.Coupon{ID: "c1", UserID: "u1", Code: "WELCOME-ABCD1234", DiscountPercentage: 10}))

	ok, err := store.Coupons().MarkUsed("c1", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Coupons().MarkUsed("c1", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_DuplicateUsername(t *testing.T) {
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Users().Create(&models.User{Username: "alice", Role: models.RoleCustomer}))

	err := store.Users().Create(&models.User{Username: "alice", Role: models.RoleCustomer})
	assert.ErrorIs(t, err, repositories.ErrDuplicateUsername)
}

func TestMemoryStore_DuplicateCouponCode(t *testing.T) {
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Coupons().Create(&models.Coupon{UserID: "u1", Code: "LOYAL-AAAA1111", DiscountPercentage: 5}))

	err := store.Coupons().Create(&models.Coupon{UserID: "u2", Code: "LOYAL-AAAA1111", DiscountPercentage: 5})
	assert.ErrorIs(t, err, repositories.ErrDuplicateCode)
}

func TestMemoryStore_DeleteReferencedProduct(t *testing.T) {
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Products().Create(&models.Product{ID: "p1", Name: "Bread", Category: "Groceries", Price: 1.49, Stock: 30}))
	require.NoError(t, store.Orders().Create(&models.Order{
		ID:     "o1",
		UserID: "u1",
		Status: models.StatusProcessing,
		Items:  []models.OrderItem{{ProductID: "p1", Quantity: 2, Price: 1.49}},
	}))

	err := store.Products().Delete("p1")
	assert.ErrorIs(t, err, repositories.ErrProductReferenced)
}
