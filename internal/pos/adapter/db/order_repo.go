package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/models"
)

type OrderRepo struct {
	tx pgx.Tx
}

func (r *OrderRepo) Insert(ctx context.Context, order models.Order) (models.Order, error) {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO orders (table_id, status, comment, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, order.TableID, order.Status, order.Comment, order.CreatedBy, order.CreatedAt).Scan(&order.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (models.Order, error) {
	var o models.Order
	err := r.tx.QueryRow(ctx, `
		SELECT id, table_id, status, COALESCE(comment, ''),
		       created_by, created_at,
		       COALESCE(updated_by, ''), updated_at,
		       COALESCE(cancelled_by, ''), cancelled_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&o.ID, &o.TableID, &o.Status, &o.Comment,
		&o.CreatedBy, &o.CreatedAt,
		&o.UpdatedBy, &o.UpdatedAt,
		&o.CancelledBy, &o.CancelledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, core.ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("select order: %w", err)
	}

	o.Items, err = r.itemsFor(ctx, o.ID)
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) ListByTable(ctx context.Context, tableID int64) ([]models.Order, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT id, table_id, status, COALESCE(comment, ''),
		       created_by, created_at,
		       COALESCE(updated_by, ''), updated_at,
		       COALESCE(cancelled_by, ''), cancelled_at
		FROM orders
		WHERE table_id = $1
		ORDER BY id
	`, tableID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.TableID, &o.Status, &o.Comment,
			&o.CreatedBy, &o.CreatedAt,
			&o.UpdatedBy, &o.UpdatedAt,
			&o.CancelledBy, &o.CancelledAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		orders[i].Items, err = r.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepo) UpdateHeader(ctx context.Context, order models.Order) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE orders
		SET status = $2, comment = $3,
		    updated_by = $4, updated_at = $5,
		    cancelled_by = NULLIF($6, ''), cancelled_at = $7
		WHERE id = $1
	`, order.ID, order.Status, order.Comment,
		order.UpdatedBy, order.UpdatedAt,
		order.CancelledBy, order.CancelledAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) DeleteByTable(ctx context.Context, tableID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM orders WHERE table_id = $1`, tableID)
	if err != nil {
		return fmt.Errorf("delete orders by table: %w", err)
	}
	return nil
}

func (r *OrderRepo) InsertItem(ctx context.Context, item models.OrderItem) (models.OrderItem, error) {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Comment).Scan(&item.ID)
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("insert order item: %w", err)
	}
	return item, nil
}

func (r *OrderRepo) GetItem(ctx context.Context, orderID, itemID int64) (models.OrderItem, error) {
	var item models.OrderItem
	err := r.tx.QueryRow(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''),
		       oi.quantity, oi.unit_price, COALESCE(oi.comment, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.id = $1 AND oi.order_id = $2
	`, itemID, orderID).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
		&item.Quantity, &item.UnitPrice, &item.Comment,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OrderItem{}, core.ErrItemNotFound
	}
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("select order item: %w", err)
	}
	return item, nil
}

func (r *OrderRepo) UpdateItem(ctx context.Context, item models.OrderItem) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE order_items
		SET quantity = $3, unit_price = $4, comment = $5
		WHERE id = $1 AND order_id = $2
	`, item.ID, item.OrderID, item.Quantity, item.UnitPrice, item.Comment)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrItemNotFound
	}
	return nil
}

func (r *OrderRepo) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	tag, err := r.tx.Exec(ctx, `
		DELETE FROM order_items WHERE id = $1 AND order_id = $2
	`, itemID, orderID)
	if err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrItemNotFound
	}
	return nil
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''),
		       oi.quantity, oi.unit_price, COALESCE(oi.comment, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Comment,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}
