package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comanda/internal/config"
	"comanda/internal/pos/app/core"
)

type DB struct {
	pool *pgxpool.Pool
}

// Start opens a connection pool and verifies it.
func Start(ctx context.Context, dbCfg *config.Postgres) (*DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Database,
	)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Begin starts one transaction and exposes it as a unit of work. All stores
// returned by the unit share the transaction, so a stock write and the order
// mutation that caused it commit or roll back together.
func (db *DB) Begin(ctx context.Context) (core.UnitOfWork, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &unitOfWork{tx: tx}, nil
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) Products() core.ProductStore { return &ProductRepo{tx: u.tx} }
func (u *unitOfWork) Orders() core.OrderStore     { return &OrderRepo{tx: u.tx} }
func (u *unitOfWork) Tables() core.TableStore     { return &TableRepo{tx: u.tx} }

func (u *unitOfWork) Commit(ctx context.Context) error {
	return u.tx.Commit(ctx)
}

// Rollback is a no-op after Commit, matching pgx semantics, so callers can
// defer it unconditionally.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err == pgx.ErrTxClosed {
		return nil
	}
	return err
}
