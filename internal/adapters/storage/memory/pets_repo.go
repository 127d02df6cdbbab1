package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"tamagitchi/internal/domain/pets"
)

type petRepo struct {
	mu          sync.RWMutex
	byID        map[string]pets.Pet
	byPartition map[string]string // colo -> pet id
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID:        make(map[string]pets.Pet),
		byPartition: make(map[string]string),
	}
}

func (r *petRepo) FindOrCreate(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Partition) == "" {
		return pets.Pet{}, errors.New("pet id and partition required")
	}
	if id, ok := r.byPartition[p.Partition]; ok {
		return r.byID[id], nil
	}

	r.byID[p.ID] = p
	r.byPartition[p.Partition] = p.ID
	return p, nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) GetByPartition(ctx context.Context, partition string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPartition[partition]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *petRepo) ListByPartition(ctx context.Context, partition string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, 1)
	for _, p := range r.byID {
		if p.Partition == partition {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *petRepo) ListPartitions(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byPartition))
	for p := range r.byPartition {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (r *petRepo) UpdateStats(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return pets.ErrNotFound
	}

	// solo campos mutables; identidad y created_at quedan como estaban
	cur.Vitals = p.Vitals
	cur.Level = p.Level
	cur.Experience = p.Experience
	cur.TotalInteractions = p.TotalInteractions
	cur.State = p.State
	cur.LastFed = p.LastFed
	cur.LastPlayed = p.LastPlayed
	cur.DecayedAt = p.DecayedAt
	cur.UpdatedAt = p.UpdatedAt

	r.byID[p.ID] = cur
	return nil
}

func (r *petRepo) Leaderboard(ctx context.Context, limit int) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		if out[i].Experience != out[j].Experience {
			return out[i].Experience > out[j].Experience
		}
		return out[i].Partition < out[j].Partition
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
