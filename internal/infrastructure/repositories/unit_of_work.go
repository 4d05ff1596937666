package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainrepos "openpayflow/internal/domain/repositories"
)

type contextKey string

const (
	txKey   contextKey = "openpayflow_tx"
	lockKey contextKey = "openpayflow_lock"
)

// UnitOfWork implements domainrepos.UnitOfWork with gorm transactions.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork builds a UnitOfWork over the given database handle.
func NewUnitOfWork(db *gorm.DB) domainrepos.UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do executes fn inside a transaction, rolling back on error or panic and
// committing otherwise.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	txCtx := context.WithValue(ctx, txKey, tx)

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// WithLock marks ctx so repository reads made from it take a row lock.
func (u *UnitOfWork) WithLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, lockKey, true)
}

// dbFrom returns the active transaction's *gorm.DB if ctx carries one,
// falling back to the shared handle, applying a FOR UPDATE SKIP LOCKED
// clause when ctx was marked via WithLock.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	db := fallback.WithContext(ctx)
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		db = tx
	}
	if locked, ok := ctx.Value(lockKey).(bool); ok && locked {
		db = db.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	return db
}
