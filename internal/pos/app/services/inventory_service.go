package services

import (
	"context"
	"errors"
	"fmt"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/dto"
	"comanda/internal/pos/domain/models"
	"comanda/pkg/logger"
)

// InventoryService owns the stock ledger rules: reservations decrement stock
// and hide a product when it runs out, releases restore stock and reveal it
// again. Both always run against the stores of the caller's unit of work so
// stock writes commit together with the order mutation that caused them.
type InventoryService struct {
	mylog logger.Logger
}

func NewInventoryService(mylog logger.Logger) *InventoryService {
	return &InventoryService{mylog: mylog}
}

// Reserve takes qty units of the product out of stock. It fails without
// mutating anything when the product is missing or stock is short.
func (s *InventoryService) Reserve(ctx context.Context, products core.ProductStore, productID int64, qty int) (models.Product, error) {
	product, err := products.GetForUpdate(ctx, productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d: %w", productID, err)
	}

	if product.StockQuantity < qty {
		return models.Product{}, &core.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQuantity,
			Requested:   qty,
		}
	}

	product.StockQuantity -= qty
	if product.StockQuantity == 0 {
		product.IsActive = false
	}
	if err := products.UpdateStock(ctx, product.ID, product.StockQuantity, product.IsActive); err != nil {
		return models.Product{}, fmt.Errorf("reserve stock for product %d: %w", productID, err)
	}

	s.mylog.Action("stock_reserved").Debug("stock reserved",
		"product_id", product.ID, "quantity", qty, "remaining", product.StockQuantity)
	return product, nil
}

// Release puts qty units back. A product revived from zero stock becomes
// active again without administrator action.
func (s *InventoryService) Release(ctx context.Context, products core.ProductStore, productID int64, qty int) (models.Product, error) {
	product, err := products.GetForUpdate(ctx, productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d: %w", productID, err)
	}

	product.StockQuantity += qty
	if product.StockQuantity > 0 && !product.IsActive {
		product.IsActive = true
	}
	if err := products.UpdateStock(ctx, product.ID, product.StockQuantity, product.IsActive); err != nil {
		return models.Product{}, fmt.Errorf("release stock for product %d: %w", productID, err)
	}

	s.mylog.Action("stock_released").Debug("stock released",
		"product_id", product.ID, "quantity", qty, "remaining", product.StockQuantity)
	return product, nil
}

// CheckBatch validates existence and sufficiency for every requested item
// before anything is mutated. All failures are collected into one
// BatchStockError so the customer-facing creation fails loudly and completely.
// The products are returned locked, keyed by id, for the reservation pass.
func (s *InventoryService) CheckBatch(ctx context.Context, products core.ProductStore, items []dto.OrderItemInput) (map[int64]models.Product, error) {
	locked := make(map[int64]models.Product, len(items))
	requested := make(map[int64]int, len(items))
	var order []int64
	var failures []error

	for _, item := range items {
		if _, seen := requested[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	for _, id := range order {
		product, err := products.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrProductNotFound) {
				failures = append(failures, fmt.Errorf("product %d: %w", id, core.ErrProductNotFound))
				continue
			}
			return nil, fmt.Errorf("product %d: %w", id, err)
		}
		locked[product.ID] = product
	}

	for _, id := range order {
		product, ok := locked[id]
		if !ok {
			continue
		}
		if qty := requested[id]; product.StockQuantity < qty {
			failures = append(failures, &core.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.StockQuantity,
				Requested:   qty,
			})
		}
	}

	if len(failures) > 0 {
		return nil, &core.BatchStockError{Failures: failures}
	}
	return locked, nil
}
