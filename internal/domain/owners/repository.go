package owners

import (
	"context"
	"time"
)

type Repository interface {
	// FindOrCreate devuelve el owner existente para (o.Partition, o.Username)
	// o inserta o si no existe.
	FindOrCreate(ctx context.Context, o Owner) (Owner, error)
	GetByID(ctx context.Context, id string) (Owner, error)
	UpdateLastActivity(ctx context.Context, id string, at time.Time) error
}
