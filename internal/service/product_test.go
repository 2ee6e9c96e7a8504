package service

import (
	"context"
	"testing"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ProductService_Create(t *testing.T) {
	testCases := []struct {
		name        string
		dto         ProductCreateDto
		expectError error
	}{
		{name: "Success", dto: ProductCreateDto{Name: "Coke", Category: "Beverage", Price: decimal.RequireFromString("1.50"), Quantity: 24}},
		{name: "Success - zero price and stock", dto: ProductCreateDto{Name: "Water", Category: "Other"}},
		{name: "Error - missing name", dto: ProductCreateDto{Category: "Food", Price: decimal.NewFromInt(1)}, expectError: apperrors.ErrInvalidInput},
		{name: "Error - unknown category", dto: ProductCreateDto{Name: "Soup", Category: "Starter"}, expectError: apperrors.ErrInvalidInput},
		{name: "Error - negative price", dto: ProductCreateDto{Name: "Soup", Category: "Food", Price: decimal.RequireFromString("-0.01")}, expectError: apperrors.ErrInvalidInput},
		{name: "Error - negative quantity", dto: ProductCreateDto{Name: "Soup", Category: "Food", Quantity: -1}, expectError: apperrors.ErrInvalidInput},
		{name: "Error - quantity above limit", dto: ProductCreateDto{Name: "Soup", Category: "Food", Quantity: 1_000_000_001}, expectError: apperrors.ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			st := store.NewMemoryStore()
			seedProducts(t, st, burger(5))
			svc := NewProductService(st, testOptions()...)
			// when
			created, err := svc.Create(context.Background(), tc.dto)
			// then
			products := loadProducts(t, st)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Len(t, products, 1)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "id-1", created.ID)
			assert.Equal(t, tc.dto.Name, created.Name)
			require.Len(t, products, 2)
			assert.Equal(t, "p1", products[0].ID)
			assert.Equal(t, "id-1", products[1].ID)
		})
	}
}

func Test_ProductService_FindByID(t *testing.T) {
	st := store.NewMemoryStore()
	seedProducts(t, st, burger(25))
	svc := NewProductService(st)

	found, err := svc.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Burger", found.Name)
	assert.False(t, found.LowStock)

	_, err = svc.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func Test_ProductService_FindAll_EmptyStore(t *testing.T) {
	// when
	products, err := NewProductService(store.NewMemoryStore()).FindAll(context.Background())
	// then
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func Test_ProductService_FindLowStock(t *testing.T) {
	// given
	st := store.NewMemoryStore()
	seedProducts(t, st,
		store.Product{ID: "a", Name: "A", Quantity: 5},
		store.Product{ID: "b", Name: "B", Quantity: 15},
		store.Product{ID: "c", Name: "C", Quantity: 25},
	)
	svc := NewProductService(st)
	// when
	alert, err := svc.FindLowStock(context.Background(), AlertThreshold)
	require.NoError(t, err)
	dashboard, err := svc.FindLowStock(context.Background(), DashboardThreshold)
	require.NoError(t, err)
	// then
	assert.Len(t, alert, 1)
	assert.Len(t, dashboard, 2)
	assert.True(t, dashboard[1].LowStock)
}

func Test_ProductService_Update(t *testing.T) {
	testCases := []struct {
		name        string
		id          string
		dto         ProductCreateDto
		expectError error
	}{
		{name: "Success", id: "p1", dto: ProductCreateDto{Name: "Cheese Burger", Category: "Food", Price: decimal.RequireFromString("12.00"), Quantity: 7}},
		{name: "Error - not found", id: "p9", dto: ProductCreateDto{Name: "X", Category: "Food"}, expectError: apperrors.ErrProductNotFound},
		{name: "Error - invalid", id: "p1", dto: ProductCreateDto{Name: "", Category: "Food"}, expectError: apperrors.ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			st := store.NewMemoryStore()
			seedProducts(t, st, burger(5))
			svc := NewProductService(st)
			// when
			updated, err := svc.Update(context.Background(), tc.id, tc.dto)
			// then
			products := loadProducts(t, st)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Equal(t, "Burger", products[0].Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p1", updated.ID)
			assert.Equal(t, "Cheese Burger", products[0].Name)
			assert.Equal(t, 7, products[0].Quantity)
			assert.True(t, decimal.RequireFromString("12").Equal(products[0].Price))
		})
	}
}

func Test_ProductService_DeleteByID(t *testing.T) {
	// given
	st := store.NewMemoryStore()
	seedProducts(t, st, burger(5), store.Product{ID: "p2", Name: "Fries"})
	svc := NewProductService(st)
	// when
	err := svc.DeleteByID(context.Background(), "p1")
	missingErr := svc.DeleteByID(context.Background(), "p1")
	// then
	require.NoError(t, err)
	assert.ErrorIs(t, missingErr, apperrors.ErrProductNotFound)
	products := loadProducts(t, st)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

func Test_ProductService_BackendError(t *testing.T) {
	svc := NewProductService(failingStore{err: errBackend})
	_, err := svc.FindAll(context.Background())
	assert.ErrorIs(t, err, errBackend)
}
