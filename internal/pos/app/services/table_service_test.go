package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/dto"
	"comanda/internal/pos/domain/models"
	"comanda/pkg/logger"
)

func newTableFixture(t *testing.T, allowed bool) (*fakeDB, *fakePrinter, *TableService) {
	t.Helper()
	db := newFakeDB()
	printer := &fakePrinter{}
	svc := NewTableService(db, printer, fakePerms{allowed: allowed}, logger.Nop())
	return db, printer, svc
}

func seedOrder(db *fakeDB, id, tableID int64, status models.OrderStatus, items ...models.OrderItem) {
	db.state.orders[id] = models.Order{
		ID:        id,
		TableID:   tableID,
		Status:    status,
		CreatedBy: "maria",
	}
	for i, item := range items {
		item.ID = id*10 + int64(i)
		item.OrderID = id
		db.state.items[item.ID] = item
	}
}

func TestTableService_Create(t *testing.T) {
	db, _, svc := newTableFixture(t, false)

	table, err := svc.Create(context.Background(), dto.TableRequest{Name: "table 4"}, "maria")
	require.NoError(t, err)
	assert.Equal(t, "table 4", table.Name)
	assert.Equal(t, "maria", table.CreatedBy)
	assert.False(t, table.IsClosed)
	assert.Contains(t, db.state.tables, table.ID)
}

func TestTableService_Create_BlankName(t *testing.T) {
	_, _, svc := newTableFixture(t, false)
	_, err := svc.Create(context.Background(), dto.TableRequest{Name: "  "}, "maria")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestTableService_Create_OpenNameTaken(t *testing.T) {
	db, _, svc := newTableFixture(t, false)
	seedTable(db, 1, "table 4", false)

	_, err := svc.Create(context.Background(), dto.TableRequest{Name: "table 4"}, "maria")
	assert.ErrorIs(t, err, core.ErrTableNameTaken)
}

func TestTableService_Create_ClosedTableFreesName(t *testing.T) {
	db, _, svc := newTableFixture(t, false)
	seedTable(db, 1, "table 4", true)

	_, err := svc.Create(context.Background(), dto.TableRequest{Name: "table 4"}, "maria")
	assert.NoError(t, err)
}

func TestTableService_Close_SkipsCancelledOrders(t *testing.T) {
	db, printer, svc := newTableFixture(t, true)
	seedTable(db, 1, "table 4", false)
	seedOrder(db, 10, 1, models.OrderFinished,
		models.OrderItem{ProductID: 1, ProductName: "espresso", Quantity: 2, UnitPrice: 5.0})
	seedOrder(db, 11, 1, models.OrderCancelled,
		models.OrderItem{ProductID: 2, ProductName: "cheesecake", Quantity: 2, UnitPrice: 10.0})

	settlement, err := svc.Close(context.Background(), 1, dto.CloseTableRequest{}, "maria")
	require.NoError(t, err)

	assert.Equal(t, 1, settlement.OrdersCount)
	assert.InDelta(t, 10.0, settlement.Total, 1e-9)
	assert.Zero(t, settlement.ServiceTaxAmount)
	assert.InDelta(t, 10.0, settlement.GrandTotal, 1e-9)

	closed := db.state.tables[1]
	assert.True(t, closed.IsClosed)
	assert.Equal(t, "maria", closed.ClosedBy)
	require.NotNil(t, closed.ClosedAt)

	require.Len(t, printer.jobs, 1)
	job := printer.jobs[0]
	assert.Equal(t, models.PrintJobBill, job.Type)
	assert.Nil(t, job.OrderID)
	assert.Contains(t, job.Content, "BILL")
	assert.Contains(t, job.Content, "Subtotal: $10.00")
	assert.NotContains(t, job.Content, "Service tax")
	assert.NotContains(t, job.Content, "cheesecake")
}

func TestTableService_Close_WithServiceTax(t *testing.T) {
	db, printer, svc := newTableFixture(t, true)
	seedTable(db, 1, "table 4", false)
	seedOrder(db, 10, 1, models.OrderPending,
		models.OrderItem{ProductID: 1, ProductName: "espresso", Quantity: 2, UnitPrice: 5.0})

	settlement, err := svc.Close(context.Background(), 1, dto.CloseTableRequest{ServiceTax: true}, "maria")
	require.NoError(t, err)

	assert.InDelta(t, 10.0, settlement.Total, 1e-9)
	assert.InDelta(t, 1.0, settlement.ServiceTaxAmount, 1e-9)
	assert.InDelta(t, 11.0, settlement.GrandTotal, 1e-9)

	require.Len(t, printer.jobs, 1)
	assert.Contains(t, printer.jobs[0].Content, "Service tax (10%): $1.00")
	assert.Contains(t, printer.jobs[0].Content, "Total: $11.00")
}

func TestTableService_Close_NoOrders(t *testing.T) {
	db, printer, svc := newTableFixture(t, true)
	seedTable(db, 1, "table 4", false)

	settlement, err := svc.Close(context.Background(), 1, dto.CloseTableRequest{ServiceTax: true}, "maria")
	require.NoError(t, err)

	assert.Zero(t, settlement.OrdersCount)
	assert.Zero(t, settlement.Total)
	assert.Zero(t, settlement.ServiceTaxAmount)
	assert.Zero(t, settlement.GrandTotal)
	assert.Len(t, printer.jobs, 1)
}

func TestTableService_Close_AlreadyClosed(t *testing.T) {
	db, _, svc := newTableFixture(t, true)
	seedTable(db, 1, "table 4", false)

	_, err := svc.Close(context.Background(), 1, dto.CloseTableRequest{}, "maria")
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), 1, dto.CloseTableRequest{}, "maria")
	assert.ErrorIs(t, err, core.ErrTableAlreadyClosed)
}

func TestTableService_Close_RequiresPermission(t *testing.T) {
	db, printer, svc := newTableFixture(t, false)
	seedTable(db, 1, "table 4", false)

	_, err := svc.Close(context.Background(), 1, dto.CloseTableRequest{}, "maria")
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.False(t, db.state.tables[1].IsClosed)
	assert.Empty(t, printer.jobs)
}

func TestTableService_Close_TableNotFound(t *testing.T) {
	_, _, svc := newTableFixture(t, true)
	_, err := svc.Close(context.Background(), 9, dto.CloseTableRequest{}, "maria")
	assert.ErrorIs(t, err, core.ErrTableNotFound)
}

func TestTableService_Delete_RemovesOrders(t *testing.T) {
	db, _, svc := newTableFixture(t, true)
	seedTable(db, 1, "table 4", false)
	seedOrder(db, 10, 1, models.OrderPending,
		models.OrderItem{ProductID: 1, ProductName: "espresso", Quantity: 1, UnitPrice: 5.0})

	err := svc.Delete(context.Background(), 1, "admin")
	require.NoError(t, err)

	assert.Empty(t, db.state.tables)
	assert.Empty(t, db.state.orders)
	assert.Empty(t, db.state.items)
}

func TestTableService_Delete_RequiresPermission(t *testing.T) {
	db, _, svc := newTableFixture(t, false)
	seedTable(db, 1, "table 4", false)

	err := svc.Delete(context.Background(), 1, "maria")
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.Contains(t, db.state.tables, int64(1))
}
