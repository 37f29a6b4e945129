package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/models"
)

type ProductRepo struct {
	tx pgx.Tx
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (models.Product, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate locks the product row for the rest of the transaction.
// Concurrent reservations against the same product serialize here.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (models.Product, error) {
	return r.get(ctx, id, true)
}

func (r *ProductRepo) get(ctx context.Context, id int64, forUpdate bool) (models.Product, error) {
	q := `
		SELECT id, name, price, stock_quantity, is_active
		FROM products
		WHERE id = $1`
	if forUpdate {
		q += `
		FOR UPDATE`
	}

	var p models.Product
	err := r.tx.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, core.ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id int64, stock int, active bool) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE products
		SET stock_quantity = $2, is_active = $3
		WHERE id = $1
	`, id, stock, active)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrProductNotFound
	}
	return nil
}
