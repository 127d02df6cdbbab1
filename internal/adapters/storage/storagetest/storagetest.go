// Package storagetest tiene el set de pruebas común a todos los adapters de
// storage. Cada adapter lo corre desde su propio _test.go.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"tamagitchi/internal/domain/activity"
	"tamagitchi/internal/domain/care"
	"tamagitchi/internal/domain/owners"
	"tamagitchi/internal/domain/pets"
)

var t0 = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

// Run ejecuta el set completo. newStore debe devolver un store vacío y ya
// migrado en cada llamada.
func Run(t *testing.T, newStore func(t *testing.T) care.Store) {
	t.Run("PetFindOrCreateIsIdempotent", func(t *testing.T) { petFindOrCreate(t, newStore(t)) })
	t.Run("PetUpdateStatsRoundTrip", func(t *testing.T) { petUpdateStats(t, newStore(t)) })
	t.Run("PetNotFound", func(t *testing.T) { petNotFound(t, newStore(t)) })
	t.Run("PartitionsAndLeaderboard", func(t *testing.T) { leaderboard(t, newStore(t)) })
	t.Run("OwnerUniquePerPartition", func(t *testing.T) { ownerUnique(t, newStore(t)) })
	t.Run("ActivityListRecent", func(t *testing.T) { activityRecent(t, newStore(t)) })
	t.Run("TxRollbackAndCommit", func(t *testing.T) { txRollback(t, newStore(t)) })
}

func petFindOrCreate(t *testing.T, s care.Store) {
	ctx := context.Background()

	first, err := s.Pets.FindOrCreate(ctx, pets.New("pet-a", "DFW", t0))
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}
	second, err := s.Pets.FindOrCreate(ctx, pets.New("pet-b", "DFW", t0.Add(time.Hour)))
	if err != nil {
		t.Fatalf("find or create again: %v", err)
	}

	if second.ID != first.ID || second.ID != "pet-a" {
		t.Fatalf("expected existing pet-a, got %q", second.ID)
	}
	if second.Name != "Tama-DFW" || second.Health != 100 || second.Level != 1 || second.State != pets.StateHappy {
		t.Fatalf("unexpected fresh pet: %#v", second)
	}
	if !second.LastFed.Equal(t0) {
		t.Fatalf("expected last fed %v, got %v", t0, second.LastFed)
	}
}

func petUpdateStats(t *testing.T, s care.Store) {
	ctx := context.Background()

	p, _ := s.Pets.FindOrCreate(ctx, pets.New("pet-a", "LHR", t0))

	p.Vitals = pets.Vitals{Health: 74.5, Happiness: 16, Energy: 77, Hunger: 122}
	p.Level = 3
	p.Experience = 215
	p.TotalInteractions = 9
	p.State = pets.StateHungry
	p.LastPlayed = t0.Add(2 * time.Hour)
	p.DecayedAt = t0.Add(5 * time.Hour)
	p.UpdatedAt = t0.Add(5 * time.Hour)

	if err := s.Pets.UpdateStats(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Pets.GetByPartition(ctx, "LHR")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Vitals != p.Vitals || got.Level != 3 || got.Experience != 215 || got.TotalInteractions != 9 {
		t.Fatalf("stats not persisted: %#v", got)
	}
	if got.State != pets.StateHungry {
		t.Fatalf("expected hungry, got %s", got.State)
	}
	if !got.LastPlayed.Equal(p.LastPlayed) || !got.DecayedAt.Equal(p.DecayedAt) || !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("timestamps not persisted: %#v", got)
	}

	missing := pets.New("ghost", "NRT", t0)
	if err := s.Pets.UpdateStats(ctx, missing); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing pet, got %v", err)
	}
}

func petNotFound(t *testing.T, s care.Store) {
	ctx := context.Background()

	if _, err := s.Pets.GetByPartition(ctx, "SFO"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Pets.GetByID(ctx, "nope"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, err := s.Pets.ListByPartition(ctx, "SFO")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v (%v)", list, err)
	}
}

func leaderboard(t *testing.T, s care.Store) {
	ctx := context.Background()

	seed := []struct {
		colo  string
		level int
		exp   int
	}{
		{"DFW", 2, 150},
		{"LHR", 3, 210},
		{"NRT", 2, 190},
		{"SFO", 1, 0},
	}
	for i, sd := range seed {
		p, err := s.Pets.FindOrCreate(ctx, pets.New(sd.colo+"-pet", sd.colo, t0.Add(time.Duration(i)*time.Minute)))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		p.Level, p.Experience = sd.level, sd.exp
		if err := s.Pets.UpdateStats(ctx, p); err != nil {
			t.Fatalf("seed update: %v", err)
		}
	}

	parts, err := s.Pets.ListPartitions(ctx)
	if err != nil {
		t.Fatalf("partitions: %v", err)
	}
	if len(parts) != 4 || parts[0] != "DFW" || parts[3] != "SFO" {
		t.Fatalf("unexpected partitions %v", parts)
	}

	top, err := s.Pets.Leaderboard(ctx, 3)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3, got %d", len(top))
	}
	if top[0].Partition != "LHR" || top[1].Partition != "NRT" || top[2].Partition != "DFW" {
		t.Fatalf("unexpected order: %s, %s, %s", top[0].Partition, top[1].Partition, top[2].Partition)
	}
}

func ownerUnique(t *testing.T, s care.Store) {
	ctx := context.Background()

	a, err := s.Owners.FindOrCreate(ctx, owners.Owner{ID: "o-1", Partition: "DFW", Username: "octocat", CreatedAt: t0, LastActivity: t0})
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	b, _ := s.Owners.FindOrCreate(ctx, owners.Owner{ID: "o-2", Partition: "DFW", Username: "octocat", CreatedAt: t0, LastActivity: t0})
	c, _ := s.Owners.FindOrCreate(ctx, owners.Owner{ID: "o-3", Partition: "LHR", Username: "octocat", CreatedAt: t0, LastActivity: t0})

	if b.ID != a.ID {
		t.Fatalf("expected same owner in DFW, got %q", b.ID)
	}
	if c.ID != "o-3" {
		t.Fatalf("expected separate owner in LHR, got %q", c.ID)
	}

	later := t0.Add(3 * time.Hour)
	if err := s.Owners.UpdateLastActivity(ctx, a.ID, later); err != nil {
		t.Fatalf("update last activity: %v", err)
	}
	got, err := s.Owners.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get owner: %v", err)
	}
	if !got.LastActivity.Equal(later) || !got.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected owner timestamps: %#v", got)
	}

	if _, err := s.Owners.GetByID(ctx, "nope"); !errors.Is(err, owners.ErrNotFound) {
		t.Fatalf("expected owners.ErrNotFound, got %v", err)
	}
}

func activityRecent(t *testing.T, s care.Store) {
	ctx := context.Background()

	p, _ := s.Pets.FindOrCreate(ctx, pets.New("pet-a", "DFW", t0))
	o, _ := s.Owners.FindOrCreate(ctx, owners.Owner{ID: "o-1", Partition: "DFW", Username: "octocat", CreatedAt: t0, LastActivity: t0})

	issue := int64(42)
	d := pets.Delta{HealthChange: 5, HappinessChange: 10, EnergyChange: 5, HungerChange: -15, ExperienceGained: 10, PointsEarned: 10}

	for i, sub := range []string{"pizza", "ramen", "sushi"} {
		var in *int64
		if sub == "sushi" {
			in = &issue
		}
		a := activity.FromDelta("act-"+sub, o.ID, p.ID, pets.KindFeed, sub, d, t0.Add(time.Duration(i)*time.Minute), in)
		if err := s.Activity.Create(ctx, a); err != nil {
			t.Fatalf("create activity: %v", err)
		}
	}

	got, err := s.Activity.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(got) != 2 || got[0].Subtype != "sushi" || got[1].Subtype != "ramen" {
		t.Fatalf("unexpected recent activity: %#v", got)
	}
	if got[0].IssueNumber == nil || *got[0].IssueNumber != 42 {
		t.Fatalf("expected issue number 42, got %v", got[0].IssueNumber)
	}
	if got[1].IssueNumber != nil {
		t.Fatalf("expected nil issue number, got %v", *got[1].IssueNumber)
	}
	if got[0].HungerChange != -15 || got[0].Points != 10 || got[0].Kind != pets.KindFeed {
		t.Fatalf("unexpected activity fields: %#v", got[0])
	}
}

var errRollback = errors.New("rollback please")

func txRollback(t *testing.T, s care.Store) {
	if s.Tx == nil {
		t.Skip("store without transactions")
	}
	ctx := context.Background()

	p, err := s.Pets.FindOrCreate(ctx, pets.New("pet-a", "DFW", t0))
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}

	err = s.Tx.InTx(ctx, func(tx care.Store) error {
		changed := p
		changed.Level = 9
		changed.TotalInteractions = 5
		if err := tx.Pets.UpdateStats(ctx, changed); err != nil {
			return err
		}
		return errRollback
	})
	if !errors.Is(err, errRollback) {
		t.Fatalf("expected fn error back, got %v", err)
	}

	got, err := s.Pets.GetByPartition(ctx, "DFW")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Level != 1 || got.TotalInteractions != 0 {
		t.Fatalf("expected rolled back stats, got level=%d count=%d", got.Level, got.TotalInteractions)
	}

	err = s.Tx.InTx(ctx, func(tx care.Store) error {
		changed := got
		changed.TotalInteractions = 1
		return tx.Pets.UpdateStats(ctx, changed)
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, _ = s.Pets.GetByPartition(ctx, "DFW")
	if got.TotalInteractions != 1 {
		t.Fatalf("expected committed count 1, got %d", got.TotalInteractions)
	}
}
