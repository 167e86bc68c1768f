package services_test

import (
	"testing"

	"dollmart/internal/models"
	"dollmart/internal/repositories"
	"dollmart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) (*repositories.MemoryStore, *services.CartService) {
	t.Helper()

	store := repositories.NewMemoryStore()
	require.NoError(t, store.Products().Create(&models.Product{ID: "rice", Name: "Rice", Category: "Groceries", Price: 2.99, Stock: 10}))
	return store, services.NewCartService(store.Products())
}

func TestCartService_AddAccumulates(t *testing.T) {
	_, carts := newCartFixture(t)

	item, err := carts.Add("u1", "rice", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.InDelta(t, 2.99, item.Price, 1e-9)

	// Adding the same product again accumulates instead of replacing.
	item, err = carts.Add("u1", "rice", 4)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)

	cart := carts.Get("u1")
	assert.Equal(t, 7, cart.TotalQuantity())
	assert.InDelta(t, 7*2.99, cart.Subtotal(), 1e-9)
}

func TestCartService_AddChecksAccumulatedStock(t *testing.T) {
	_, carts := newCartFixture(t)

	_, err := carts.Add("u1", "rice", 8)
	require.NoError(t, err)

	// 8 already in the cart; 3 more would exceed the 10 in stock.
	_, err = carts.Add("u1", "rice", 3)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	cart := carts.Get("u1")
	assert.Equal(t, 8, cart.TotalQuantity())
}

func TestCartService_AddUnknownProduct(t *testing.T) {
	_, carts := newCartFixture(t)

	_, err := carts.Add("u1", "no-such-product", 1)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestCartService_AddInvalidQuantity(t *testing.T) {
	_, carts := newCartFixture(t)

	_, err := carts.Add("u1", "rice", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	_, err = carts.Add("u1", "rice", -2)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
}

// The cart keeps the price captured at add time even if the catalog
// changes afterwards.
func TestCartService_PriceSnapshot(t *testing.T) {
	store, carts := newCartFixture(t)

	_, err := carts.Add("u1", "rice", 2)
	require.NoError(t, err)

	p, err := store.Products().GetByID("rice")
	require.NoError(t, err)
	p.Price = 4.49
	require.NoError(t, store.Products().Update(p))

	cart := carts.Get("u1")
	assert.InDelta(t, 2.99, cart.Items["rice"].Price, 1e-9)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	_, carts := newCartFixture(t)

	_, err := carts.Add("u1", "rice", 2)
	require.NoError(t, err)

	require.NoError(t, carts.UpdateQuantity("u1", "rice", 5))
	assert.Equal(t, 5, carts.Get("u1").Items["rice"].Quantity)

	err = carts.UpdateQuantity("u1", "rice", 11)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	err = carts.UpdateQuantity("u1", "bread", 1)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	_, carts := newCartFixture(t)

	_, err := carts.Add("u1", "rice", 2)
	require.NoError(t, err)

	require.NoError(t, carts.Remove("u1", "rice"))
	assert.True(t, carts.Get("u1").IsEmpty())

	err = carts.Remove("u1", "rice")
	assert.ErrorIs(t, err, services.ErrNotInCart)

	_, err = carts.Add("u1", "rice", 2)
	require.NoError(t, err)
	carts.Clear("u1")
	assert.True(t, carts.Get("u1").IsEmpty())
}

// Carts are per user: two sessions never see each other's items.
func TestCartService_PerUserIsolation(t *testing.T) {
	_, carts := newCartFixture(t)

	_, err := carts.Add("u1", "rice", 2)
	require.NoError(t, err)

	assert.True(t, carts.Get("u2").IsEmpty())
}
