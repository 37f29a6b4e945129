package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/dto"
	"comanda/internal/pos/domain/models"
	"comanda/pkg/logger"
)

// TableService owns tables and their settlement: closing a table totals its
// non-cancelled orders, applies the optional service tax and enqueues the
// bill for printing.
type TableService struct {
	uow     core.UnitOfWorkFactory
	printer core.PrintQueue
	perms   core.PermissionChecker
	mylog   logger.Logger
}

func NewTableService(
	uow core.UnitOfWorkFactory,
	printer core.PrintQueue,
	perms core.PermissionChecker,
	mylog logger.Logger,
) *TableService {
	return &TableService{
		uow:     uow,
		printer: printer,
		perms:   perms,
		mylog:   mylog,
	}
}

// Create opens a new table. A name may only be held by one open table at a
// time; closed tables free their name for reuse.
func (s *TableService) Create(ctx context.Context, req dto.TableRequest, actor string) (models.Table, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.Table{}, fmt.Errorf("%w: table name is required", core.ErrValidation)
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return models.Table{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	if _, err := uow.Tables().GetOpenByName(ctx, req.Name); err == nil {
		return models.Table{}, fmt.Errorf("%w: %q", core.ErrTableNameTaken, req.Name)
	} else if !errors.Is(err, core.ErrTableNotFound) {
		return models.Table{}, fmt.Errorf("check table name: %w", err)
	}

	table := models.Table{
		Name:      req.Name,
		RoomID:    req.RoomID,
		CreatedBy: actor,
		CreatedAt: time.Now().UTC(),
	}
	table, err = uow.Tables().Insert(ctx, table)
	if err != nil {
		return models.Table{}, fmt.Errorf("insert table: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return models.Table{}, fmt.Errorf("commit table: %w", err)
	}

	s.mylog.Action("table_created").Info("table created", "table_id", table.ID, "name", table.Name)
	return table, nil
}

func (s *TableService) Get(ctx context.Context, tableID int64) (models.Table, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return models.Table{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	table, err := uow.Tables().GetByID(ctx, tableID)
	if err != nil {
		return models.Table{}, fmt.Errorf("table %d: %w", tableID, err)
	}
	return table, uow.Commit(ctx)
}

func (s *TableService) List(ctx context.Context, isClosed bool) ([]models.Table, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	tables, err := uow.Tables().List(ctx, isClosed)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, uow.Commit(ctx)
}

// Close settles a table: marks it closed, totals the non-cancelled orders,
// applies the service tax when requested and enqueues the bill receipt.
// Closing an already closed table is rejected, not idempotent. A table with
// no orders settles to zero without error.
func (s *TableService) Close(ctx context.Context, tableID int64, req dto.CloseTableRequest, actor string) (models.Settlement, error) {
	mylog := s.mylog.Action("close_table").With("table_id", tableID)

	if !s.perms.Allowed(ctx, actor, core.PermCloseTable) {
		return models.Settlement{}, fmt.Errorf("%w: closing a table requires %s", core.ErrForbidden, core.PermCloseTable)
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	table, err := uow.Tables().GetByID(ctx, tableID)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("table %d: %w", tableID, err)
	}
	if table.IsClosed {
		return models.Settlement{}, core.ErrTableAlreadyClosed
	}

	now := time.Now().UTC()
	table.IsClosed = true
	table.ClosedBy = actor
	table.ClosedAt = &now
	if err := uow.Tables().Update(ctx, table); err != nil {
		return models.Settlement{}, fmt.Errorf("close table: %w", err)
	}

	orders, err := uow.Orders().ListByTable(ctx, tableID)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("list orders for table %d: %w", tableID, err)
	}

	settlement := models.Settlement{Table: table, GenerateInvoice: req.GenerateInvoice}
	for _, order := range orders {
		if order.Status == models.OrderCancelled {
			continue
		}
		settlement.Orders = append(settlement.Orders, order)
		settlement.Total += order.TotalAmount()
	}
	settlement.OrdersCount = len(settlement.Orders)
	if req.ServiceTax {
		settlement.ServiceTaxAmount = settlement.Total * core.ServiceTaxRate
	}
	settlement.GrandTotal = settlement.Total + settlement.ServiceTaxAmount

	if err := uow.Commit(ctx); err != nil {
		return models.Settlement{}, fmt.Errorf("commit table close: %w", err)
	}

	job := models.PrintJob{
		Type:    models.PrintJobBill,
		TableID: tableID,
		Content: formatBillReceipt(settlement, now),
	}
	if err := s.printer.Push(ctx, job); err != nil {
		mylog.Error("failed to enqueue bill receipt", err)
		return models.Settlement{}, fmt.Errorf("enqueue bill receipt: %w", err)
	}

	mylog.Info("table closed",
		"orders_count", settlement.OrdersCount,
		"total", settlement.Total,
		"grand_total", settlement.GrandTotal)
	return settlement, nil
}

// Delete removes a table together with all its orders.
func (s *TableService) Delete(ctx context.Context, tableID int64, actor string) error {
	if !s.perms.Allowed(ctx, actor, core.PermDeleteTable) {
		return fmt.Errorf("%w: deleting a table requires %s", core.ErrForbidden, core.PermDeleteTable)
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback(ctx)

	if _, err := uow.Tables().GetByID(ctx, tableID); err != nil {
		return fmt.Errorf("table %d: %w", tableID, err)
	}
	if err := uow.Orders().DeleteByTable(ctx, tableID); err != nil {
		return fmt.Errorf("delete orders of table %d: %w", tableID, err)
	}
	if err := uow.Tables().Delete(ctx, tableID); err != nil {
		return fmt.Errorf("delete table %d: %w", tableID, err)
	}
	return uow.Commit(ctx)
}
