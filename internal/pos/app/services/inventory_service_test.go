package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/dto"
	"comanda/pkg/logger"
)

func TestInventoryService_Reserve(t *testing.T) {
	db := newFakeDB()
	seedProduct(db, 1, "espresso", 10, 4.5)
	inv := NewInventoryService(logger.Nop())

	uow, err := db.Begin(context.Background())
	require.NoError(t, err)

	product, err := inv.Reserve(context.Background(), uow.Products(), 1, 4)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(context.Background()))

	assert.Equal(t, 6, product.StockQuantity)
	assert.True(t, product.IsActive)
	assert.Equal(t, 6, productStock(db, 1).StockQuantity)
}

func TestInventoryService_Reserve_ToZeroDeactivates(t *testing.T) {
	db := newFakeDB()
	seedProduct(db, 1, "espresso", 3, 4.5)
	inv := NewInventoryService(logger.Nop())

	uow, _ := db.Begin(context.Background())
	product, err := inv.Reserve(context.Background(), uow.Products(), 1, 3)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(context.Background()))

	assert.Equal(t, 0, product.StockQuantity)
	assert.False(t, product.IsActive)
	assert.False(t, productStock(db, 1).IsActive)
}

func TestInventoryService_Reserve_InsufficientStockMutatesNothing(t *testing.T) {
	db := newFakeDB()
	seedProduct(db, 1, "espresso", 3, 4.5)
	inv := NewInventoryService(logger.Nop())

	uow, _ := db.Begin(context.Background())
	_, err := inv.Reserve(context.Background(), uow.Products(), 1, 4)

	var stockErr *core.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "espresso", stockErr.ProductName)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, productStock(db, 1).StockQuantity)
}

func TestInventoryService_Reserve_ProductNotFound(t *testing.T) {
	db := newFakeDB()
	inv := NewInventoryService(logger.Nop())

	uow, _ := db.Begin(context.Background())
	_, err := inv.Reserve(context.Background(), uow.Products(), 99, 1)
	assert.ErrorIs(t, err, core.ErrProductNotFound)
}

func TestInventoryService_Release_FromZeroReactivates(t *testing.T) {
	db := newFakeDB()
	seedProduct(db, 1, "espresso", 0, 4.5)
	inv := NewInventoryService(logger.Nop())

	uow, _ := db.Begin(context.Background())
	product, err := inv.Release(context.Background(), uow.Products(), 1, 2)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(context.Background()))

	assert.Equal(t, 2, product.StockQuantity)
	assert.True(t, product.IsActive)
	assert.True(t, productStock(db, 1).IsActive)
}

func TestInventoryService_CheckBatch_AggregatesAllFailures(t *testing.T) {
	db := newFakeDB()
	seedProduct(db, 1, "espresso", 10, 4.5)
	seedProduct(db, 2, "cheesecake", 1, 12.0)
	inv := NewInventoryService(logger.Nop())

	uow, _ := db.Begin(context.Background())
	_, err := inv.CheckBatch(context.Background(), uow.Products(), []dto.OrderItemInput{
		{ProductID: 1, Quantity: 2, UnitPrice: 4.5},
		{ProductID: 2, Quantity: 3, UnitPrice: 12.0},
		{ProductID: 7, Quantity: 1, UnitPrice: 1.0},
	})

	var batchErr *core.BatchStockError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Failures, 2)
	assert.ErrorIs(t, batchErr.Failures[0], core.ErrProductNotFound)

	var stockErr *core.InsufficientStockError
	require.True(t, errors.As(batchErr.Failures[1], &stockErr))
	assert.Equal(t, "cheesecake", stockErr.ProductName)
}

func TestInventoryService_CheckBatch_SumsQuantitiesPerProduct(t *testing.T) {
	db := newFakeDB()
	seedProduct(db, 1, "espresso", 5, 4.5)
	inv := NewInventoryService(logger.Nop())

	uow, _ := db.Begin(context.Background())
	_, err := inv.CheckBatch(context.Background(), uow.Products(), []dto.OrderItemInput{
		{ProductID: 1, Quantity: 3, UnitPrice: 4.5},
		{ProductID: 1, Quantity: 3, UnitPrice: 4.5},
	})

	var batchErr *core.BatchStockError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Failures, 1)

	var stockErr *core.InsufficientStockError
	require.True(t, errors.As(batchErr.Failures[0], &stockErr))
	assert.Equal(t, 6, stockErr.Requested)
}
