// Package storage elige el backend de persistencia según la configuración.
package storage

import (
	"fmt"

	"tamagitchi/internal/adapters/storage/memory"
	"tamagitchi/internal/adapters/storage/postgres"
	"tamagitchi/internal/adapters/storage/sqlite"
	"tamagitchi/internal/domain/care"
	"tamagitchi/internal/platform/config"
)

// Open devuelve el store del driver configurado y una función para cerrarlo.
// La migración no corre acá: la hace cada actor al arrancar.
func Open(cfg config.StorageConfig) (care.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory, "":
		return memory.NewStore(), noop, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return care.Store{}, noop, err
		}
		return sqlite.NewStore(db), db.Close, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DSN)
		if err != nil {
			return care.Store{}, noop, err
		}
		return postgres.NewStore(db), db.Close, nil

	default:
		return care.Store{}, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
