package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"tamagitchi/internal/domain/activity"
)

type activityRepo struct {
	mu    sync.RWMutex
	items []activity.Activity // orden de inserción
}

func NewActivityRepo() activity.Repository {
	return &activityRepo{}
}

func (r *activityRepo) Create(ctx context.Context, a activity.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("activity id required")
	}
	r.items = append(r.items, a)
	return nil
}

func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]activity.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// recorrido inverso: a igual timestamp, la última insertada primero
	out := make([]activity.Activity, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
