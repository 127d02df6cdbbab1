package care_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tamagitchi/internal/adapters/storage/sqlite"
	"tamagitchi/internal/domain/care"
	"tamagitchi/internal/domain/pets"
)

func TestActor_PizzaOnFreshPet(t *testing.T) {
	store := memStore()
	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	res, err := a.Interact(context.Background(), feed("DFW", "pizza"))
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if !res.Success || res.LeveledUp {
		t.Fatalf("unexpected result %#v", res)
	}

	p := res.Pet
	if p.Vitals != (pets.Vitals{Health: 100, Happiness: 100, Energy: 100, Hunger: 0}) {
		t.Fatalf("expected clamped vitals, got %#v", p.Vitals)
	}
	if p.Experience != 10 || p.Level != 1 || p.State != pets.StateHappy || p.TotalInteractions != 1 {
		t.Fatalf("unexpected progress %#v", p)
	}
	if !strings.Contains(res.Message, "Tama-DFW enjoyed the pizza") {
		t.Fatalf("unexpected summary %q", res.Message)
	}

	stored, err := store.Pets.GetByPartition(context.Background(), "DFW")
	if err != nil || stored.TotalInteractions != 1 {
		t.Fatalf("expected persisted pet, got %#v (%v)", stored, err)
	}

	acts, _ := store.Activity.ListRecent(context.Background(), 10)
	if len(acts) != 1 || acts[0].Subtype != "pizza" || acts[0].PetID != p.ID {
		t.Fatalf("expected one activity, got %#v", acts)
	}
}

func TestActor_UnknownSubtype_ZeroDeltaButCounted(t *testing.T) {
	store := memStore()
	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	res, err := a.Interact(context.Background(), play("DFW", "skydiving"))
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if !res.Success || res.Known {
		t.Fatalf("expected success with unknown subtype, got %#v", res)
	}
	if !res.Delta.IsZero() {
		t.Fatalf("expected zero delta, got %#v", res.Delta)
	}
	if res.Pet.TotalInteractions != 1 {
		t.Fatalf("expected interaction counted, got %d", res.Pet.TotalInteractions)
	}

	acts, _ := store.Activity.ListRecent(context.Background(), 10)
	if len(acts) != 1 || acts[0].Points != 0 {
		t.Fatalf("expected zero-point activity, got %#v", acts)
	}
}

func TestActor_InvalidInput_NoMutation(t *testing.T) {
	store := memStore()
	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	cases := []care.Interaction{
		{Kind: "pet", Subtype: "pizza", Owner: "octocat", Partition: "DFW"},
		{Kind: pets.KindFeed, Subtype: "  ", Owner: "octocat", Partition: "DFW"},
		{Kind: pets.KindFeed, Subtype: "pizza", Owner: "", Partition: "DFW"},
		{Kind: pets.KindFeed, Subtype: "pizza", Owner: "octocat", Partition: "??"},
	}
	for _, in := range cases {
		res, err := a.Interact(context.Background(), in)
		if !errors.Is(err, care.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %#v, got %v", in, err)
		}
		if res.Success {
			t.Fatalf("expected failed response")
		}
	}

	if _, err := store.Pets.GetByPartition(context.Background(), "DFW"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected no pet created, got %v", err)
	}
}

func TestActor_ConcurrentInteractionsAreSerialized(t *testing.T) {
	store := memStore()
	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := feed("DFW", "apple")
			if i%2 == 0 {
				in = play("DFW", "puzzle")
			}
			if _, err := a.Interact(context.Background(), in); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("interact: %v", err)
	}

	p, _ := store.Pets.GetByPartition(context.Background(), "DFW")
	if p.TotalInteractions != n {
		t.Fatalf("expected %d interactions, got %d", n, p.TotalInteractions)
	}
	// 20 apples (5 exp) + 20 puzzles (18 exp)
	if p.Experience != 20*5+20*18 || p.Level != p.Experience/100+1 {
		t.Fatalf("unexpected experience/level %d/%d", p.Experience, p.Level)
	}
	acts, _ := store.Activity.ListRecent(context.Background(), 100)
	if len(acts) != n {
		t.Fatalf("expected %d activities, got %d", n, len(acts))
	}
}

func TestActor_DeadPetRejectsInteractions(t *testing.T) {
	store := memStore()
	ctx := context.Background()

	p, _ := store.Pets.FindOrCreate(ctx, pets.New("pet-1", "DFW", t0))
	p.Vitals = pets.Vitals{Health: 0, Hunger: 150}
	p.State = pets.StateDead
	_ = store.Pets.UpdateStats(ctx, p)

	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	res, err := a.Interact(ctx, feed("DFW", "sushi"))
	if !errors.Is(err, care.ErrPetDeceased) {
		t.Fatalf("expected ErrPetDeceased, got %v", err)
	}
	if res.Success || !strings.Contains(res.Message, "passed away") {
		t.Fatalf("unexpected response %#v", res)
	}

	acts, _ := store.Activity.ListRecent(ctx, 10)
	if len(acts) != 0 {
		t.Fatalf("expected no activity for dead pet, got %d", len(acts))
	}
}

func TestActor_DegradeTwiceInSameHour(t *testing.T) {
	store := memStore()
	c := newClock()
	a := care.NewActor("DFW", store, actorOpts(c))
	defer a.Stop()

	ctx := context.Background()
	if _, err := a.Interact(ctx, feed("DFW", "ramen")); err != nil {
		t.Fatalf("interact: %v", err)
	}

	c.Advance(26 * time.Hour)
	first, err := a.Degrade(ctx)
	if err != nil {
		t.Fatalf("degrade: %v", err)
	}
	if !first.Success || first.Summary != (pets.BatchSummary{Processed: 1, Updated: 1}) {
		t.Fatalf("unexpected first run %#v", first)
	}
	if len(first.Updates) != 1 || first.Updates[0].HoursElapsed != 26 {
		t.Fatalf("unexpected updates %#v", first.Updates)
	}

	c.Advance(10 * time.Minute)
	second, err := a.Degrade(ctx)
	if err != nil {
		t.Fatalf("second degrade: %v", err)
	}
	if second.Summary != (pets.BatchSummary{Processed: 1, Updated: 0, Skipped: 1}) {
		t.Fatalf("expected no-op second run, got %#v", second.Summary)
	}

	p, _ := store.Pets.GetByPartition(ctx, "DFW")
	if p.Vitals != first.Updates[0].Pet.Vitals {
		t.Fatalf("second run changed vitals: %#v", p.Vitals)
	}
}

func TestActor_DegradeEmptyPartition(t *testing.T) {
	a := care.NewActor("NRT", memStore(), actorOpts(newClock()))
	defer a.Stop()

	res, err := a.Degrade(context.Background())
	if err != nil {
		t.Fatalf("degrade: %v", err)
	}
	if !res.Success || res.Summary != (pets.BatchSummary{}) {
		t.Fatalf("expected zero summary, got %#v", res)
	}
}

func TestActor_DegradePersistenceFailure(t *testing.T) {
	store := memStore()
	fp := &failingPets{Repository: store.Pets}
	store.Pets = fp

	c := newClock()
	a := care.NewActor("DFW", store, actorOpts(c))
	defer a.Stop()

	ctx := context.Background()
	if _, err := a.Interact(ctx, feed("DFW", "pizza")); err != nil {
		t.Fatalf("interact: %v", err)
	}

	fp.setFailUpdate(true)
	c.Advance(3 * time.Hour)

	res, err := a.Degrade(ctx)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if res.Success || res.Summary != (pets.BatchSummary{Processed: 1, Updated: 0, Skipped: 0, Failed: 1}) {
		t.Fatalf("expected partial failure summary, got %#v", res)
	}
	sum := res.Summary
	if sum.Processed != sum.Updated+sum.Skipped+sum.Failed {
		t.Fatalf("summary counts do not add up: %#v", sum)
	}

	// el actor sigue atendiendo
	fp.setFailUpdate(false)
	res, err = a.Degrade(ctx)
	if err != nil || res.Summary.Updated != 1 {
		t.Fatalf("expected recovery, got %#v (%v)", res, err)
	}
}

func TestActor_InteractionPersistenceFailure(t *testing.T) {
	store := memStore()
	fp := &failingPets{Repository: store.Pets, failUpdate: true}
	store.Pets = fp

	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	res, err := a.Interact(context.Background(), feed("DFW", "pizza"))
	if !errors.Is(err, errBoom) || res.Success {
		t.Fatalf("expected failed interaction, got %#v (%v)", res, err)
	}
	acts, _ := store.Activity.ListRecent(context.Background(), 10)
	if len(acts) != 0 {
		t.Fatalf("expected no activity recorded, got %d", len(acts))
	}
}

func TestActor_PanicDoesNotKillActor(t *testing.T) {
	store := memStore()
	store.Pets = &panicPets{Repository: store.Pets}

	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	if _, err := a.Interact(context.Background(), feed("DFW", "pizza")); err == nil {
		t.Fatalf("expected error from panicking repo")
	}
	if _, err := a.Interact(context.Background(), feed("DFW", "pizza")); err != nil {
		t.Fatalf("expected actor to keep serving, got %v", err)
	}
}

func TestActor_InitFailure(t *testing.T) {
	store := memStore()
	store.Migrator = &flakyMigrator{fails: 1}

	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	_, err := a.Interact(context.Background(), feed("DFW", "pizza"))
	if !errors.Is(err, care.ErrActorUnavailable) {
		t.Fatalf("expected ErrActorUnavailable, got %v", err)
	}
	if !a.Failed() {
		t.Fatalf("expected actor marked failed")
	}
}

func TestActor_StoppedAndCanceled(t *testing.T) {
	a := care.NewActor("DFW", memStore(), actorOpts(newClock()))
	a.Stop()
	a.Stop() // idempotente

	if _, err := a.Interact(context.Background(), feed("DFW", "pizza")); !errors.Is(err, care.ErrActorStopped) {
		t.Fatalf("expected ErrActorStopped, got %v", err)
	}

	b := care.NewActor("DFW", memStore(), actorOpts(newClock()))
	defer b.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Degrade(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestActor_CanceledWhileQueuedIsNotApplied(t *testing.T) {
	store := memStore()
	gp := &gatedPets{Repository: store.Pets, entered: make(chan struct{}, 1), gate: make(chan struct{})}
	store.Pets = gp

	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	first := make(chan error, 1)
	go func() {
		_, err := a.Interact(context.Background(), feed("DFW", "pizza"))
		first <- err
	}()
	<-gp.entered

	ctx, cancel := context.WithCancel(context.Background())
	queued := make(chan error, 1)
	go func() {
		_, err := a.Interact(ctx, feed("DFW", "sushi"))
		queued <- err
	}()

	// el actor está ocupado con la primera: la segunda queda en el mailbox
	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-queued; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for queued caller, got %v", err)
	}

	close(gp.gate)
	if err := <-first; err != nil {
		t.Fatalf("first interact: %v", err)
	}

	// una tercera llamada pasa por detrás del envelope abandonado
	if _, err := a.Interact(context.Background(), feed("DFW", "apple")); err != nil {
		t.Fatalf("third interact: %v", err)
	}

	p, err := store.Pets.GetByPartition(context.Background(), "DFW")
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if p.TotalInteractions != 2 || p.Experience != 15 {
		t.Fatalf("expected pizza+apple only (count=2 exp=15), got count=%d exp=%d", p.TotalInteractions, p.Experience)
	}

	acts, _ := store.Activity.ListRecent(context.Background(), 10)
	if len(acts) != 2 {
		t.Fatalf("expected 2 activity records, got %d", len(acts))
	}
}

func TestActor_InteractionWritesAreAtomic(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tamagitchi.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := sqlite.NewStore(db)
	a := care.NewActor("DFW", store, actorOpts(newClock()))
	defer a.Stop()

	ctx := context.Background()
	if _, err := a.Interact(ctx, feed("DFW", "pizza")); err != nil {
		t.Fatalf("interact: %v", err)
	}

	// sin tabla de actividad el insert del log falla dentro de la transacción
	if _, err := db.ExecContext(ctx, `DROP TABLE interactions`); err != nil {
		t.Fatalf("drop: %v", err)
	}

	res, err := a.Interact(ctx, play("DFW", "code-challenge"))
	if err == nil || res.Success {
		t.Fatalf("expected failure when the activity insert fails, got %#v", res)
	}

	p, err := store.Pets.GetByPartition(ctx, "DFW")
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if p.TotalInteractions != 1 || p.Experience != 10 {
		t.Fatalf("expected stats rolled back to count=1 exp=10, got count=%d exp=%d", p.TotalInteractions, p.Experience)
	}
}
