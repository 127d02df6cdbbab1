package care_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tamagitchi/internal/adapters/storage/memory"
	"tamagitchi/internal/domain/care"
	"tamagitchi/internal/domain/pets"
)

var t0 = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

// clock es un reloj manual compartido entre test y actores.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: t0} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func actorOpts(c *clock) care.ActorOptions {
	return care.ActorOptions{MailboxSize: 8, InitTimeout: time.Second, Now: c.Now}
}

func newService(t *testing.T, store care.Store, c *clock) (*care.Service, *care.Registry) {
	t.Helper()
	reg := care.NewRegistry(store, care.RegistryOptions{
		IdleTimeout:   time.Minute,
		SweepInterval: time.Minute,
		Actor:         actorOpts(c),
	})
	t.Cleanup(reg.Close)
	return care.NewService(reg, store, care.ServiceOptions{Concurrency: 2}), reg
}

func feed(colo, subtype string) care.Interaction {
	return care.Interaction{Kind: pets.KindFeed, Subtype: subtype, Owner: "octocat", Partition: colo}
}

func play(colo, subtype string) care.Interaction {
	return care.Interaction{Kind: pets.KindPlay, Subtype: subtype, Owner: "octocat", Partition: colo}
}

var errBoom = errors.New("boom")

// failingPets envuelve un repo real y falla UpdateStats a pedido.
type failingPets struct {
	pets.Repository

	mu         sync.Mutex
	failUpdate bool
}

func (f *failingPets) setFailUpdate(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUpdate = v
}

func (f *failingPets) UpdateStats(ctx context.Context, p pets.Pet) error {
	f.mu.Lock()
	fail := f.failUpdate
	f.mu.Unlock()
	if fail {
		return errBoom
	}
	return f.Repository.UpdateStats(ctx, p)
}

// gatedPets bloquea FindOrCreate hasta que se cierre gate.
type gatedPets struct {
	pets.Repository
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedPets) FindOrCreate(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.gate
	return g.Repository.FindOrCreate(ctx, p)
}

// panicPets entra en pánico en la primera llamada a FindOrCreate.
type panicPets struct {
	pets.Repository
	once sync.Once
}

func (p *panicPets) FindOrCreate(ctx context.Context, pet pets.Pet) (pets.Pet, error) {
	p.once.Do(func() { panic("repo exploded") })
	return p.Repository.FindOrCreate(ctx, pet)
}

// flakyMigrator falla las primeras n migraciones.
type flakyMigrator struct {
	mu    sync.Mutex
	fails int
	calls int
}

func (m *flakyMigrator) Migrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.fails {
		return errBoom
	}
	return nil
}

func memStore() care.Store { return memory.NewStore() }
