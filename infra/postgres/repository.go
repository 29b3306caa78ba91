package postgres

import (
	"catalog/app"
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(dsn string) *PgRepository {
	db := sqlx.MustConnect("postgres", dsn)

	// Connection pool configuration
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}
}

// NewPgRepositoryFromDB wraps an existing handle, e.g. one backed by sqlmock.
func NewPgRepositoryFromDB(db *sqlx.DB) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

// Migrate creates the tables and indexes if they do not exist yet.
func (r *PgRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]interface{} {
	stats := r.db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// Repositories returns repositories that run each statement on the pool.
func (r *PgRepository) Repositories() app.Repositories {
	return bind(r.db)
}

// Run executes fn in a transaction. It commits when fn returns nil and rolls
// back on error or panic.
func (r *PgRepository) Run(ctx context.Context, fn func(repos app.Repositories) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				zap.L().Warn("Failed to roll back transaction", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(bind(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

func bind(q sqlx.ExtContext) app.Repositories {
	return app.Repositories{
		Categories: &CategoryRepository{q: q},
		Products:   &ProductRepository{q: q},
	}
}

var _ app.TxRunner = (*PgRepository)(nil)
