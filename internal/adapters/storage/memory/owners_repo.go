package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"tamagitchi/internal/domain/owners"
)

type ownerRepo struct {
	mu     sync.RWMutex
	byID   map[string]owners.Owner
	byName map[string]string // partition/username -> id
}

func NewOwnerRepo() owners.Repository {
	return &ownerRepo{
		byID:   make(map[string]owners.Owner),
		byName: make(map[string]string),
	}
}

func ownerKey(partition, username string) string {
	return partition + "/" + username
}

func (r *ownerRepo) FindOrCreate(ctx context.Context, o owners.Owner) (owners.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" || strings.TrimSpace(o.Username) == "" {
		return owners.Owner{}, errors.New("owner id and username required")
	}

	key := ownerKey(o.Partition, o.Username)
	if id, ok := r.byName[key]; ok {
		return r.byID[id], nil
	}

	r.byID[o.ID] = o
	r.byName[key] = o.ID
	return o, nil
}

func (r *ownerRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return owners.Owner{}, owners.ErrNotFound
	}
	return o, nil
}

func (r *ownerRepo) UpdateLastActivity(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok {
		return owners.ErrNotFound
	}
	o.LastActivity = at
	r.byID[id] = o
	return nil
}
