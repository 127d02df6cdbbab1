package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tamagitchi/internal/domain/care"
)

// querier es lo común entre *sql.DB y *sql.Tx; los repos sirven para ambos.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxRunner implementa care.TxRunner con una transacción de database/sql.
type TxRunner struct {
	db *sql.DB
}

func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (t *TxRunner) InTx(ctx context.Context, fn func(tx care.Store) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres begin tx: %w", err)
	}

	if err := fn(txStore(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("postgres rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres commit: %w", err)
	}
	return nil
}

// txStore no lleva Migrator ni Tx: no hay transacciones anidadas.
func txStore(tx *sql.Tx) care.Store {
	return care.Store{
		Pets:     NewPetsRepo(tx),
		Owners:   NewOwnersRepo(tx),
		Activity: NewActivityRepo(tx),
	}
}
