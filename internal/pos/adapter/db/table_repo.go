package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"comanda/internal/pos/app/core"
	"comanda/internal/pos/domain/models"
)

type TableRepo struct {
	tx pgx.Tx
}

const tableColumns = `id, name, is_closed, room_id, created_by, created_at, COALESCE(closed_by, ''), closed_at`

func (r *TableRepo) Insert(ctx context.Context, table models.Table) (models.Table, error) {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO tables (name, is_closed, room_id, created_by, created_at)
		VALUES ($1, FALSE, $2, $3, $4)
		RETURNING id
	`, table.Name, table.RoomID, table.CreatedBy, table.CreatedAt).Scan(&table.ID)
	if err != nil {
		return models.Table{}, fmt.Errorf("insert table: %w", err)
	}
	return table, nil
}

func (r *TableRepo) GetByID(ctx context.Context, id int64) (models.Table, error) {
	var t models.Table
	err := r.tx.QueryRow(ctx, `
		SELECT `+tableColumns+`
		FROM tables
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.IsClosed, &t.RoomID, &t.CreatedBy, &t.CreatedAt, &t.ClosedBy, &t.ClosedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Table{}, core.ErrTableNotFound
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("select table: %w", err)
	}
	return t, nil
}

func (r *TableRepo) GetOpenByName(ctx context.Context, name string) (models.Table, error) {
	var t models.Table
	err := r.tx.QueryRow(ctx, `
		SELECT `+tableColumns+`
		FROM tables
		WHERE name = $1 AND is_closed = FALSE
		LIMIT 1
	`, name).Scan(&t.ID, &t.Name, &t.IsClosed, &t.RoomID, &t.CreatedBy, &t.CreatedAt, &t.ClosedBy, &t.ClosedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Table{}, core.ErrTableNotFound
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("select table by name: %w", err)
	}
	return t, nil
}

func (r *TableRepo) List(ctx context.Context, isClosed bool) ([]models.Table, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT `+tableColumns+`
		FROM tables
		WHERE is_closed = $1
		ORDER BY id
	`, isClosed)
	if err != nil {
		return nil, fmt.Errorf("select tables: %w", err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.IsClosed, &t.RoomID, &t.CreatedBy, &t.CreatedAt, &t.ClosedBy, &t.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return tables, nil
}

func (r *TableRepo) Update(ctx context.Context, table models.Table) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE tables
		SET name = $2, is_closed = $3, room_id = $4,
		    closed_by = NULLIF($5, ''), closed_at = $6
		WHERE id = $1
	`, table.ID, table.Name, table.IsClosed, table.RoomID, table.ClosedBy, table.ClosedAt)
	if err != nil {
		return fmt.Errorf("update table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrTableNotFound
	}
	return nil
}

func (r *TableRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrTableNotFound
	}
	return nil
}
