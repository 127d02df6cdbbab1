package care

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tamagitchi/internal/domain/activity"
	"tamagitchi/internal/domain/owners"
	"tamagitchi/internal/domain/pets"
	"tamagitchi/internal/platform/logger"
	"tamagitchi/internal/platform/metrics"

	"github.com/google/uuid"
)

// ActorOptions configura un actor de partición. Los campos vacíos toman
// defaults razonables.
type ActorOptions struct {
	MailboxSize int
	InitTimeout time.Duration

	Logger  logger.Logger
	Metrics *metrics.Metrics

	Now   func() time.Time
	NewID func() string
}

func (o ActorOptions) withDefaults() ActorOptions {
	if o.MailboxSize < 1 {
		o.MailboxSize = 64
	}
	if o.InitTimeout <= 0 {
		o.InitTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Estados de un envelope. El actor y el llamador compiten por sacarlo de
// queued: si gana el actor la operación corre y el llamador espera la
// respuesta; si gana el llamador (ctx vencido) la operación no corre nunca.
const (
	envQueued int32 = iota
	envTaken
	envAbandoned
)

type envelope struct {
	ctx   context.Context
	fn    func(ctx context.Context) error
	reply chan error
	state atomic.Int32
}

// Actor es el único escritor de la mascota de un colo. Todas las mutaciones
// pasan por su mailbox y se procesan de a una, en orden de llegada.
type Actor struct {
	partition string
	store     Store
	opts      ActorOptions
	log       logger.Logger

	mailbox chan *envelope

	ready   chan struct{} // se cierra al terminar la migración inicial
	initErr error

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewActor arranca la goroutine del actor. La migración corre antes de
// atender el mailbox; los llamadores esperan a que termine.
func NewActor(partition string, store Store, opts ActorOptions) *Actor {
	opts = opts.withDefaults()

	a := &Actor{
		partition: partition,
		store:     store,
		opts:      opts,
		log:       opts.Logger.With(map[string]any{"partition": partition}),
		mailbox:   make(chan *envelope, opts.MailboxSize),
		ready:     make(chan struct{}),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Actor) Partition() string { return a.partition }

func (a *Actor) run() {
	defer close(a.done)

	ctx, cancel := context.WithTimeout(context.Background(), a.opts.InitTimeout)
	a.initErr = a.store.migrate(ctx)
	cancel()
	close(a.ready)

	if a.initErr != nil {
		a.log.Error("actor init failed", map[string]any{"err": a.initErr})
		return
	}
	a.log.Debug("actor ready", nil)

	for {
		select {
		case <-a.quit:
			return
		case env := <-a.mailbox:
			if !env.state.CompareAndSwap(envQueued, envTaken) {
				continue // el llamador ya se fue
			}
			env.reply <- a.handle(env)
		}
	}
}

// handle ejecuta una operación sin dejar que un panic tumbe al actor.
func (a *Actor) handle(env *envelope) (err error) {
	if err := env.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("actor operation panicked", map[string]any{"panic": fmt.Sprint(rec)})
			err = fmt.Errorf("actor operation panicked: %v", rec)
		}
	}()
	return env.fn(env.ctx)
}

// Failed indica si la inicialización terminó con error.
func (a *Actor) Failed() bool {
	select {
	case <-a.ready:
		return a.initErr != nil
	default:
		return false
	}
}

// Stop detiene la goroutine y espera a que salga. Es idempotente.
func (a *Actor) Stop() {
	a.stopOnce.Do(func() { close(a.quit) })
	<-a.done
}

func (a *Actor) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	defer a.opts.Metrics.ObserveOp(op, time.Now())

	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-a.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if a.initErr != nil {
		return fmt.Errorf("%w: %v", ErrActorUnavailable, a.initErr)
	}

	env := &envelope{ctx: ctx, fn: fn, reply: make(chan error, 1)}

	select {
	case <-a.quit:
		return ErrActorStopped
	default:
	}

	select {
	case a.mailbox <- env:
	case <-a.quit:
		return ErrActorStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-env.reply:
		return err
	case <-ctx.Done():
		if env.state.CompareAndSwap(envQueued, envAbandoned) {
			return ctx.Err()
		}
		// ya está corriendo: el resultado refleja lo que quedó persistido
		return a.await(env)
	case <-a.done:
		return a.await(env)
	}
}

// await espera la respuesta de un envelope que el actor pudo haber tomado.
// done se cierra recién cuando handle volvió, así que nunca se pierde.
func (a *Actor) await(env *envelope) error {
	select {
	case err := <-env.reply:
		return err
	case <-a.done:
		select {
		case err := <-env.reply:
			return err
		default:
			return ErrActorStopped
		}
	}
}

// Interact valida el request y lo aplica dentro del actor.
func (a *Actor) Interact(ctx context.Context, in Interaction) (InteractionResponse, error) {
	if err := in.Validate(); err != nil {
		a.opts.Metrics.Interaction(kindLabel(in.Kind), "invalid")
		return InteractionResponse{Message: err.Error()}, err
	}

	var out InteractionResponse
	err := a.do(ctx, "interact", func(ctx context.Context) error {
		return a.store.atomic(ctx, func(tx Store) error {
			var err error
			out, err = a.interact(ctx, tx, in)
			return err
		})
	})
	if err != nil {
		a.opts.Metrics.Interaction(string(in.Kind), outcome(err))
		a.log.Warn("interaction failed", map[string]any{
			"kind":    in.Kind,
			"subtype": in.Subtype,
			"owner":   in.Owner,
			"err":     err,
		})
		return InteractionResponse{Message: failureMessage(err)}, err
	}

	a.opts.Metrics.Interaction(string(in.Kind), "ok")
	if out.LeveledUp {
		a.opts.Metrics.LevelUp()
	}
	return out, nil
}

func (a *Actor) interact(ctx context.Context, store Store, in Interaction) (InteractionResponse, error) {
	now := a.opts.Now()

	owner, err := store.Owners.FindOrCreate(ctx, owners.Owner{
		ID:           a.opts.NewID(),
		Partition:    a.partition,
		Username:     in.Owner,
		CreatedAt:    now,
		LastActivity: now,
	})
	if err != nil {
		return InteractionResponse{}, fmt.Errorf("find or create owner: %w", err)
	}

	pet, err := store.Pets.FindOrCreate(ctx, pets.New(a.opts.NewID(), a.partition, now))
	if err != nil {
		return InteractionResponse{}, fmt.Errorf("find or create pet: %w", err)
	}
	if pet.State == pets.StateDead {
		return InteractionResponse{}, fmt.Errorf("%w: %s", ErrPetDeceased, pet.Name)
	}

	res := pets.Interact(in.Kind, in.Subtype, pet)
	if !res.Known {
		a.log.Warn("unknown subtype, applying zero effect", map[string]any{
			"kind":    in.Kind,
			"subtype": in.Subtype,
		})
	}

	updated := res.Apply(pet, now)
	if err := store.Pets.UpdateStats(ctx, updated); err != nil {
		return InteractionResponse{}, fmt.Errorf("update pet stats: %w", err)
	}

	act := activity.FromDelta(a.opts.NewID(), owner.ID, pet.ID, in.Kind, in.Subtype, res.Delta, now, in.IssueNumber)
	if err := store.Activity.Create(ctx, act); err != nil {
		return InteractionResponse{}, fmt.Errorf("record activity: %w", err)
	}

	if err := store.Owners.UpdateLastActivity(ctx, owner.ID, now); err != nil {
		return InteractionResponse{}, fmt.Errorf("update owner activity: %w", err)
	}

	a.log.Info("interaction applied", map[string]any{
		"kind":      in.Kind,
		"subtype":   in.Subtype,
		"owner":     owner.Username,
		"level":     updated.Level,
		"state":     updated.State,
		"leveledUp": res.LeveledUp,
	})

	return InteractionResponse{
		Success:   true,
		Message:   res.Summary,
		Pet:       updated,
		Delta:     res.Delta,
		LeveledUp: res.LeveledUp,
		Known:     res.Known,
	}, nil
}

// Degrade aplica el decaimiento por tiempo a las mascotas del colo.
func (a *Actor) Degrade(ctx context.Context) (DegradationResponse, error) {
	// el parcial se lee por canal; queda vacío si la operación no llegó a correr
	partial := make(chan DegradationResponse, 1)
	err := a.do(ctx, "degrade", func(ctx context.Context) error {
		res, err := a.degrade(ctx)
		partial <- res
		return err
	})

	var out DegradationResponse
	select {
	case out = <-partial:
	default:
	}

	if err != nil {
		a.opts.Metrics.DegradeRun("error", out.Summary.Updated)
		a.log.Error("degradation failed", map[string]any{
			"processed": out.Summary.Processed,
			"updated":   out.Summary.Updated,
			"err":       err,
		})
		if out.Message == "" {
			out = DegradationResponse{Message: failureMessage(err)}
		}
		out.Partition = a.partition
		out.Success = false
		return out, err
	}

	a.opts.Metrics.DegradeRun("ok", out.Summary.Updated)
	return out, nil
}

func (a *Actor) degrade(ctx context.Context) (DegradationResponse, error) {
	now := a.opts.Now()

	list, err := a.store.Pets.ListByPartition(ctx, a.partition)
	if err != nil {
		return DegradationResponse{}, fmt.Errorf("list pets: %w", err)
	}

	batch := pets.DegradeBatch(list, now)

	persisted := make([]pets.DegradedPet, 0, len(batch.Updates))
	for _, u := range batch.Updates {
		if err := a.store.Pets.UpdateStats(ctx, u.Pet); err != nil {
			// lo ya persistido queda; se reporta el parcial
			sum := pets.BatchSummary{
				Processed: batch.Summary.Processed,
				Updated:   len(persisted),
				Skipped:   batch.Summary.Skipped,
				Failed:    len(batch.Updates) - len(persisted),
			}
			return DegradationResponse{
				Partition: a.partition,
				Message: fmt.Sprintf("degradation stopped after %d of %d updates: %v",
					len(persisted), len(batch.Updates), err),
				Summary: sum,
				Updates: persisted,
			}, fmt.Errorf("update pet %s: %w", u.Pet.ID, err)
		}
		persisted = append(persisted, u)

		fields := map[string]any{
			"pet":   u.Pet.ID,
			"hours": u.HoursElapsed,
			"from":  u.Previous,
			"to":    u.Pet.State,
		}
		if u.Pet.State == pets.StateDead && u.Previous != pets.StateDead {
			a.log.Warn("pet died of neglect", fields)
		} else {
			a.log.Debug("pet degraded", fields)
		}
	}

	msg := fmt.Sprintf("Processed %d tamagitchis, updated %d", batch.Summary.Processed, batch.Summary.Updated)
	if batch.Summary.Processed == 0 {
		msg = "No tamagitchis to degrade"
	}

	return DegradationResponse{
		Partition: a.partition,
		Success:   true,
		Message:   msg,
		Summary:   batch.Summary,
		Updates:   persisted,
	}, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrPetDeceased):
		return "deceased"
	case errors.Is(err, ErrActorUnavailable), errors.Is(err, ErrActorStopped):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrPetDeceased):
		return "This tamagitchi has passed away and can no longer interact."
	case errors.Is(err, ErrActorUnavailable), errors.Is(err, ErrActorStopped):
		return "Tamagitchi is unavailable right now, try again later."
	default:
		return "Request failed: " + err.Error()
	}
}

// kindLabel evita que valores arbitrarios del request lleguen como label.
func kindLabel(k pets.InteractionKind) string {
	if kind, ok := pets.ParseKind(string(k)); ok {
		return string(kind)
	}
	return "unknown"
}
