package services

import (
	"context"
	"sort"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/models"
)

// The fakes below back the service tests with an in-memory store that honors
// the unit-of-work contract: mutations happen on a working copy and only
// Commit publishes them, so a rolled-back transaction leaves no trace.

type fakeState struct {
	products map[int64]models.Product
	tables   map[int64]models.Table
	orders   map[int64]models.Order // headers only; items live in the items map
	items    map[int64]models.OrderItem
	nextID   int64
}

func newFakeState() *fakeState {
	return &fakeState{
		products: make(map[int64]models.Product),
		tables:   make(map[int64]models.Table),
		orders:   make(map[int64]models.Order),
		items:    make(map[int64]models.OrderItem),
		nextID:   100,
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextID = s.nextID
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.tables {
		c.tables[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

func (s *fakeState) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeDB struct {
	state *fakeState
}

func newFakeDB() *fakeDB {
	return &fakeDB{state: newFakeState()}
}

func (db *fakeDB) Begin(context.Context) (core.UnitOfWork, error) {
	return &fakeUOW{db: db, work: db.state.clone()}, nil
}

type fakeUOW struct {
	db   *fakeDB
	work *fakeState
}

func (u *fakeUOW) Products() core.ProductStore { return &fakeProductStore{state: u.work} }
func (u *fakeUOW) Orders() core.OrderStore     { return &fakeOrderStore{state: u.work} }
func (u *fakeUOW) Tables() core.TableStore     { return &fakeTableStore{state: u.work} }

func (u *fakeUOW) Commit(context.Context) error {
	u.db.state = u.work
	return nil
}

func (u *fakeUOW) Rollback(context.Context) error { return nil }

type fakeProductStore struct {
	state *fakeState
}

func (s *fakeProductStore) GetByID(_ context.Context, id int64) (models.Product, error) {
	p, ok := s.state.products[id]
	if !ok {
		return models.Product{}, core.ErrProductNotFound
	}
	return p, nil
}

func (s *fakeProductStore) GetForUpdate(ctx context.Context, id int64) (models.Product, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeProductStore) UpdateStock(_ context.Context, id int64, stock int, active bool) error {
	p, ok := s.state.products[id]
	if !ok {
		return core.ErrProductNotFound
	}
	p.StockQuantity = stock
	p.IsActive = active
	s.state.products[id] = p
	return nil
}

type fakeOrderStore struct {
	state *fakeState
}

func (s *fakeOrderStore) Insert(_ context.Context, order models.Order) (models.Order, error) {
	order.ID = s.state.id()
	header := order
	header.Items = nil
	s.state.orders[order.ID] = header
	return order, nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id int64) (models.Order, error) {
	order, ok := s.state.orders[id]
	if !ok {
		return models.Order{}, core.ErrOrderNotFound
	}
	order.Items = s.itemsFor(id)
	return order, nil
}

func (s *fakeOrderStore) ListByTable(_ context.Context, tableID int64) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range s.state.orders {
		if order.TableID == tableID {
			order.Items = s.itemsFor(order.ID)
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (s *fakeOrderStore) UpdateHeader(_ context.Context, order models.Order) error {
	if _, ok := s.state.orders[order.ID]; !ok {
		return core.ErrOrderNotFound
	}
	header := order
	header.Items = nil
	s.state.orders[order.ID] = header
	return nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.state.orders[id]; !ok {
		return core.ErrOrderNotFound
	}
	delete(s.state.orders, id)
	for itemID, item := range s.state.items {
		if item.OrderID == id {
			delete(s.state.items, itemID)
		}
	}
	return nil
}

func (s *fakeOrderStore) DeleteByTable(ctx context.Context, tableID int64) error {
	for id, order := range s.state.orders {
		if order.TableID == tableID {
			if err := s.Delete(ctx, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *fakeOrderStore) InsertItem(_ context.Context, item models.OrderItem) (models.OrderItem, error) {
	item.ID = s.state.id()
	s.state.items[item.ID] = item
	return item, nil
}

func (s *fakeOrderStore) GetItem(_ context.Context, orderID, itemID int64) (models.OrderItem, error) {
	item, ok := s.state.items[itemID]
	if !ok || item.OrderID != orderID {
		return models.OrderItem{}, core.ErrItemNotFound
	}
	return item, nil
}

func (s *fakeOrderStore) UpdateItem(_ context.Context, item models.OrderItem) error {
	existing, ok := s.state.items[item.ID]
	if !ok || existing.OrderID != item.OrderID {
		return core.ErrItemNotFound
	}
	s.state.items[item.ID] = item
	return nil
}

func (s *fakeOrderStore) DeleteItem(_ context.Context, orderID, itemID int64) error {
	item, ok := s.state.items[itemID]
	if !ok || item.OrderID != orderID {
		return core.ErrItemNotFound
	}
	delete(s.state.items, itemID)
	return nil
}

func (s *fakeOrderStore) itemsFor(orderID int64) []models.OrderItem {
	var items []models.OrderItem
	for _, item := range s.state.items {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

type fakeTableStore struct {
	state *fakeState
}

func (s *fakeTableStore) Insert(_ context.Context, table models.Table) (models.Table, error) {
	table.ID = s.state.id()
	s.state.tables[table.ID] = table
	return table, nil
}

func (s *fakeTableStore) GetByID(_ context.Context, id int64) (models.Table, error) {
	t, ok := s.state.tables[id]
	if !ok {
		return models.Table{}, core.ErrTableNotFound
	}
	return t, nil
}

func (s *fakeTableStore) GetOpenByName(_ context.Context, name string) (models.Table, error) {
	for _, t := range s.state.tables {
		if t.Name == name && !t.IsClosed {
			return t, nil
		}
	}
	return models.Table{}, core.ErrTableNotFound
}

func (s *fakeTableStore) List(_ context.Context, isClosed bool) ([]models.Table, error) {
	var tables []models.Table
	for _, t := range s.state.tables {
		if t.IsClosed == isClosed {
			tables = append(tables, t)
		}
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].ID < tables[j].ID })
	return tables, nil
}

func (s *fakeTableStore) Update(_ context.Context, table models.Table) error {
	if _, ok := s.state.tables[table.ID]; !ok {
		return core.ErrTableNotFound
	}
	s.state.tables[table.ID] = table
	return nil
}

func (s *fakeTableStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.state.tables[id]; !ok {
		return core.ErrTableNotFound
	}
	delete(s.state.tables, id)
	return nil
}

type fakePrinter struct {
	jobs    []models.PrintJob
	failing bool
}

func (p *fakePrinter) Push(_ context.Context, job models.PrintJob) error {
	if p.failing {
		return context.DeadlineExceeded
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *fakePrinter) Close() error { return nil }

func seedProduct(db *fakeDB, id int64, name string, stock int, price float64) {
	db.state.products[id] = models.Product{
		ID:            id,
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		IsActive:      stock > 0,
	}
}

func seedTable(db *fakeDB, id int64, name string, closed bool) {
	db.state.tables[id] = models.Table{
		ID:        id,
		Name:      name,
		IsClosed:  closed,
		CreatedBy: "maria",
	}
}

func productStock(db *fakeDB, id int64) models.Product {
	return db.state.products[id]
}

type fakePerms struct {
	allowed bool
}

func (p fakePerms) Allowed(context.Context, string, core.Permission) bool {
	return p.allowed
}
