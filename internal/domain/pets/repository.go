package pets

import "context"

type Repository interface {
	// FindOrCreate devuelve la mascota existente del colo de p.Partition,
	// o inserta p si no existe.
	FindOrCreate(ctx context.Context, p Pet) (Pet, error)

	GetByID(ctx context.Context, id string) (Pet, error)
	GetByPartition(ctx context.Context, partition string) (Pet, error)
	ListByPartition(ctx context.Context, partition string) ([]Pet, error)
	ListPartitions(ctx context.Context) ([]string, error)

	// UpdateStats persiste vitales, nivel, experiencia, contador, estado y timestamps.
	UpdateStats(ctx context.Context, p Pet) error

	// Leaderboard ordena por level desc, experience desc.
	Leaderboard(ctx context.Context, limit int) ([]Pet, error)
}
