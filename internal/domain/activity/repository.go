package activity

import "context"

type Repository interface {
	Create(ctx context.Context, a Activity) error
	// ListRecent devuelve las últimas actividades (occurred_at desc).
	ListRecent(ctx context.Context, limit int) ([]Activity, error)
}
