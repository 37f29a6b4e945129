package services

import (
	"context"
	"fmt"
	"time"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/dto"
	"comanda/internal/pos/domain/models"
	"comanda/pkg/logger"
)

// OrderService coordinates the order lifecycle: creation with all-or-nothing
// stock validation, sequential item edits, status transitions and the print
// side effect. Every mutation runs inside one unit of work; the print job is
// published only after the transaction committed.
type OrderService struct {
	uow       core.UnitOfWorkFactory
	printer   core.PrintQueue
	inventory *InventoryService
	perms     core.PermissionChecker
	mylog     logger.Logger
}

func NewOrderService(
	uow core.UnitOfWorkFactory,
	printer core.PrintQueue,
	inventory *InventoryService,
	perms core.PermissionChecker,
	mylog logger.Logger,
) *OrderService {
	return &OrderService{
		uow:       uow,
		printer:   printer,
		inventory: inventory,
		perms:     perms,
		mylog:     mylog,
	}
}

// ValidateOrder validates an order request against predefined rules.
func (s *OrderService) ValidateOrder(req dto.OrderRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", core.ErrValidation)
	}
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: item %d: product_id is required", core.ErrValidation, i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be positive", core.ErrValidation, i+1)
		}
		if item.UnitPrice <= 0 {
			return fmt.Errorf("%w: item %d: unit_price must be positive", core.ErrValidation, i+1)
		}
	}
	return nil
}

// Create opens a new pending order on an open table. Stock for every item is
// validated as a batch before anything is written; a single failing item
// fails the whole request with an aggregate error.
func (s *OrderService) Create(ctx context.Context, tableID int64, req dto.OrderRequest, actor string) (models.Order, error) {
	mylog := s.mylog.Action("create_order").With("table_id", tableID)

	if err := s.ValidateOrder(req); err != nil {
		return models.Order{}, err
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	table, err := uow.Tables().GetByID(ctx, tableID)
	if err != nil {
		return models.Order{}, fmt.Errorf("table %d: %w", tableID, err)
	}
	if table.IsClosed {
		return models.Order{}, core.ErrTableClosed
	}

	products, err := s.inventory.CheckBatch(ctx, uow.Products(), req.Items)
	if err != nil {
		mylog.Warn("order rejected by stock check", "items", len(req.Items))
		return models.Order{}, err
	}

	order := models.Order{
		TableID:   tableID,
		Status:    models.OrderPending,
		Comment:   req.Comment,
		CreatedBy: actor,
		CreatedAt: time.Now().UTC(),
	}
	order, err = uow.Orders().Insert(ctx, order)
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, in := range req.Items {
		if _, err := s.inventory.Reserve(ctx, uow.Products(), in.ProductID, in.Quantity); err != nil {
			return models.Order{}, err
		}
		item := models.OrderItem{
			OrderID:     order.ID,
			ProductID:   in.ProductID,
			ProductName: products[in.ProductID].Name,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Comment:     in.Comment,
		}
		item, err = uow.Orders().InsertItem(ctx, item)
		if err != nil {
			return models.Order{}, fmt.Errorf("insert order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := uow.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit order: %w", err)
	}

	job := models.PrintJob{
		Type:    models.PrintJobOrder,
		TableID: tableID,
		OrderID: &order.ID,
		Content: formatOrderReceipt(table, order),
	}
	if err := s.printer.Push(ctx, job); err != nil {
		mylog.Error("failed to enqueue order receipt", err, "order_id", order.ID)
		return models.Order{}, fmt.Errorf("enqueue order receipt: %w", err)
	}

	mylog.Info("order created", "order_id", order.ID, "total_amount", order.TotalAmount())
	return order, nil
}

// Get returns an order with its items, verifying it belongs to the table.
func (s *OrderService) Get(ctx context.Context, tableID, orderID int64) (models.Order, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	order, err := s.orderForTable(ctx, uow, tableID, orderID)
	if err != nil {
		return models.Order{}, err
	}
	return order, uow.Commit(ctx)
}

// ListByTable returns all orders of a table, items included.
func (s *OrderService) ListByTable(ctx context.Context, tableID int64) ([]models.Order, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	if _, err := uow.Tables().GetByID(ctx, tableID); err != nil {
		return nil, fmt.Errorf("table %d: %w", tableID, err)
	}
	orders, err := uow.Orders().ListByTable(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("list orders for table %d: %w", tableID, err)
	}
	return orders, uow.Commit(ctx)
}

// Update applies header changes and item actions to an order. The header
// change is one transaction; each item action then commits on its own, in
// caller order, stopping at the first failure. An edit request that fails
// halfway therefore leaves the earlier actions applied.
func (s *OrderService) Update(ctx context.Context, tableID, orderID int64, req dto.OrderUpdateRequest, actor string) (models.Order, error) {
	mylog := s.mylog.Action("update_order").With("order_id", orderID)

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	order, err := s.orderForTable(ctx, uow, tableID, orderID)
	if err != nil {
		return models.Order{}, err
	}

	if order.Status != models.OrderPending {
		if !s.perms.Allowed(ctx, actor, core.PermEditClosedOrder) {
			return models.Order{}, fmt.Errorf("%w: editing a %s order requires %s",
				core.ErrForbidden, order.Status, core.PermEditClosedOrder)
		}
	}

	now := time.Now().UTC()
	if req.Comment != nil {
		order.Comment = *req.Comment
	}
	if req.Status != nil {
		if err := transition(&order, *req.Status, actor, now); err != nil {
			return models.Order{}, err
		}
	}
	// The gate above saw the status at entry; a request may itself move the
	// order out of pending and still carry item actions, so those need the
	// same permission against the status they will actually run under.
	if len(req.ItemActions) > 0 && order.Status != models.OrderPending {
		if !s.perms.Allowed(ctx, actor, core.PermEditClosedOrder) {
			return models.Order{}, fmt.Errorf("%w: editing a %s order requires %s",
				core.ErrForbidden, order.Status, core.PermEditClosedOrder)
		}
	}
	order.UpdatedBy = actor
	order.UpdatedAt = &now
	if err := uow.Orders().UpdateHeader(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("update order: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit order update: %w", err)
	}

	for i, action := range req.ItemActions {
		if err := s.applyItemAction(ctx, orderID, action); err != nil {
			mylog.Warn("item action failed, earlier actions stay applied",
				"position", i+1, "kind", action.Action)
			return models.Order{}, fmt.Errorf("item action %d (%s): %w", i+1, action.Action, err)
		}
	}

	return s.Get(ctx, tableID, orderID)
}

// applyItemAction runs a single add/update/remove in its own transaction.
// Edits are operator corrections applied one at a time, unlike creation.
func (s *OrderService) applyItemAction(ctx context.Context, orderID int64, action dto.ItemAction) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	switch action.Action {
	case dto.ActionAdd:
		if action.ProductID <= 0 || action.Quantity == nil || *action.Quantity <= 0 ||
			action.UnitPrice == nil || *action.UnitPrice <= 0 {
			return fmt.Errorf("%w: add requires product_id, quantity and unit_price", core.ErrValidation)
		}
		product, err := s.inventory.Reserve(ctx, uow.Products(), action.ProductID, *action.Quantity)
		if err != nil {
			return err
		}
		item := models.OrderItem{
			OrderID:     orderID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    *action.Quantity,
			UnitPrice:   *action.UnitPrice,
		}
		if action.Comment != nil {
			item.Comment = *action.Comment
		}
		if _, err := uow.Orders().InsertItem(ctx, item); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}

	case dto.ActionUpdate:
		if action.ItemID <= 0 {
			return fmt.Errorf("%w: update requires item_id", core.ErrValidation)
		}
		item, err := uow.Orders().GetItem(ctx, orderID, action.ItemID)
		if err != nil {
			return fmt.Errorf("item %d: %w", action.ItemID, err)
		}
		if action.Quantity != nil {
			if *action.Quantity <= 0 {
				return fmt.Errorf("%w: quantity must be positive", core.ErrValidation)
			}
			delta := *action.Quantity - item.Quantity
			if delta > 0 {
				if _, err := s.inventory.Reserve(ctx, uow.Products(), item.ProductID, delta); err != nil {
					return err
				}
			} else if delta < 0 {
				if _, err := s.inventory.Release(ctx, uow.Products(), item.ProductID, -delta); err != nil {
					return err
				}
			}
			item.Quantity = *action.Quantity
		}
		if action.UnitPrice != nil {
			if *action.UnitPrice <= 0 {
				return fmt.Errorf("%w: unit_price must be positive", core.ErrValidation)
			}
			item.UnitPrice = *action.UnitPrice
		}
		if action.Comment != nil {
			item.Comment = *action.Comment
		}
		if err := uow.Orders().UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("update order item: %w", err)
		}

	case dto.ActionRemove:
		if action.ItemID <= 0 {
			return fmt.Errorf("%w: remove requires item_id", core.ErrValidation)
		}
		item, err := uow.Orders().GetItem(ctx, orderID, action.ItemID)
		if err != nil {
			return fmt.Errorf("item %d: %w", action.ItemID, err)
		}
		if _, err := s.inventory.Release(ctx, uow.Products(), item.ProductID, item.Quantity); err != nil {
			return err
		}
		if err := uow.Orders().DeleteItem(ctx, orderID, item.ID); err != nil {
			return fmt.Errorf("delete order item: %w", err)
		}

	default:
		return fmt.Errorf("%w: %q (valid actions: add, update, remove)", core.ErrInvalidAction, action.Action)
	}

	return uow.Commit(ctx)
}

// Finish marks a pending order as finished.
func (s *OrderService) Finish(ctx context.Context, tableID, orderID int64, actor string) (models.Order, error) {
	return s.changeStatus(ctx, tableID, orderID, models.OrderFinished, actor)
}

// Cancel cancels a pending or finished order. Reserved stock is written off,
// not released: only item removal puts stock back.
func (s *OrderService) Cancel(ctx context.Context, tableID, orderID int64, actor string) (models.Order, error) {
	return s.changeStatus(ctx, tableID, orderID, models.OrderCancelled, actor)
}

func (s *OrderService) changeStatus(ctx context.Context, tableID, orderID int64, to models.OrderStatus, actor string) (models.Order, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	order, err := s.orderForTable(ctx, uow, tableID, orderID)
	if err != nil {
		return models.Order{}, err
	}

	now := time.Now().UTC()
	if err := transition(&order, to, actor, now); err != nil {
		return models.Order{}, err
	}
	order.UpdatedBy = actor
	order.UpdatedAt = &now
	if err := uow.Orders().UpdateHeader(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("update order: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit status change: %w", err)
	}

	s.mylog.Action("order_status_changed").Info("order status changed",
		"order_id", order.ID, "status", string(order.Status))
	return order, nil
}

// Delete removes an order and its items. Stock is not restored; a deleted
// order is treated like a cancelled one, written off.
func (s *OrderService) Delete(ctx context.Context, tableID, orderID int64, actor string) error {
	if !s.perms.Allowed(ctx, actor, core.PermDeleteOrder) {
		return fmt.Errorf("%w: deleting an order requires %s", core.ErrForbidden, core.PermDeleteOrder)
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	order, err := s.orderForTable(ctx, uow, tableID, orderID)
	if err != nil {
		return err
	}
	if err := uow.Orders().Delete(ctx, order.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return uow.Commit(ctx)
}

func (s *OrderService) orderForTable(ctx context.Context, uow core.UnitOfWork, tableID, orderID int64) (models.Order, error) {
	if _, err := uow.Tables().GetByID(ctx, tableID); err != nil {
		return models.Order{}, fmt.Errorf("table %d: %w", tableID, err)
	}
	order, err := uow.Orders().GetByID(ctx, orderID)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %d: %w", orderID, err)
	}
	if order.TableID != tableID {
		return models.Order{}, fmt.Errorf("order %d: %w", orderID, core.ErrOrderNotFound)
	}
	return order, nil
}

// transition enforces the order state machine: pending may finish or cancel,
// finished may still cancel, cancelled is final. Cancellation stamps its own
// attribution on top of the regular update stamps.
func transition(order *models.Order, to models.OrderStatus, actor string, now time.Time) error {
	switch to {
	case models.OrderFinished:
		if order.Status != models.OrderPending {
			return fmt.Errorf("%w: cannot finish a %s order", core.ErrInvalidTransition, order.Status)
		}
	case models.OrderCancelled:
		if order.Status == models.OrderCancelled {
			return fmt.Errorf("%w: order already cancelled", core.ErrInvalidTransition)
		}
		order.CancelledBy = actor
		order.CancelledAt = &now
	default:
		return fmt.Errorf("%w: cannot move a %s order to %s", core.ErrInvalidTransition, order.Status, to)
	}
	order.Status = to
	return nil
}
