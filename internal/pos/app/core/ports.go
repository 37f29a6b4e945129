package core

import (
	"context"

	"comanda/internal/pos/domain/models"
)

// ProductStore reads and mutates product stock rows. GetForUpdate must take a
// row lock so concurrent reservations against the same product serialize on
// the store's isolation, not on anything the services do.
type ProductStore interface {
	GetByID(ctx context.Context, id int64) (models.Product, error)
	GetForUpdate(ctx context.Context, id int64) (models.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int, active bool) error
}

type OrderStore interface {
	Insert(ctx context.Context, order models.Order) (models.Order, error)
	GetByID(ctx context.Context, id int64) (models.Order, error)
	ListByTable(ctx context.Context, tableID int64) ([]models.Order, error)
	// UpdateHeader persists status, comment and the attribution stamps;
	// items are managed through the item methods below.
	UpdateHeader(ctx context.Context, order models.Order) error
	Delete(ctx context.Context, id int64) error
	DeleteByTable(ctx context.Context, tableID int64) error

	InsertItem(ctx context.Context, item models.OrderItem) (models.OrderItem, error)
	GetItem(ctx context.Context, orderID, itemID int64) (models.OrderItem, error)
	UpdateItem(ctx context.Context, item models.OrderItem) error
	DeleteItem(ctx context.Context, orderID, itemID int64) error
}

type TableStore interface {
	Insert(ctx context.Context, table models.Table) (models.Table, error)
	GetByID(ctx context.Context, id int64) (models.Table, error)
	GetOpenByName(ctx context.Context, name string) (models.Table, error)
	List(ctx context.Context, isClosed bool) ([]models.Table, error)
	Update(ctx context.Context, table models.Table) error
	Delete(ctx context.Context, id int64) error
}

// UnitOfWork is one transactional boundary against the shared store. Every
// logical operation begins one, mutates through its stores and commits or
// rolls back as a whole; stock writes always ride the same transaction as the
// order mutation that triggered them.
type UnitOfWork interface {
	Products() ProductStore
	Orders() OrderStore
	Tables() TableStore
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// PrintQueue is the external sink for receipt work items.
type PrintQueue interface {
	Push(ctx context.Context, job models.PrintJob) error
	Close() error
}
