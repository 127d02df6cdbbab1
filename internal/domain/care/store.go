package care

import (
	"context"

	"tamagitchi/internal/domain/activity"
	"tamagitchi/internal/domain/owners"
	"tamagitchi/internal/domain/pets"
)

// Migrator prepara el esquema. Debe ser idempotente: cada actor lo corre
// al arrancar.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// TxRunner ejecuta fn dentro de una transacción. fn recibe un Store cuyos
// repositorios escriben en esa transacción; si fn devuelve error se hace
// rollback.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx Store) error) error
}

// Store agrupa los repositorios que usa un actor. Migrator y Tx son
// opcionales; sin Tx las escrituras de una interacción no son atómicas.
type Store struct {
	Pets     pets.Repository
	Owners   owners.Repository
	Activity activity.Repository
	Migrator Migrator
	Tx       TxRunner
}

func (s Store) migrate(ctx context.Context) error {
	if s.Migrator == nil {
		return nil
	}
	return s.Migrator.Migrate(ctx)
}

func (s Store) atomic(ctx context.Context, fn func(tx Store) error) error {
	if s.Tx == nil {
		return fn(s)
	}
	return s.Tx.InTx(ctx, fn)
}
