package care

import (
	"context"
	"sort"
	"sync"
	"time"

	"tamagitchi/internal/platform/logger"
	"tamagitchi/internal/platform/metrics"
)

type RegistryOptions struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration

	Actor ActorOptions
}

type entry struct {
	actor    *Actor
	inflight int
	lastUsed time.Time
}

// Registry resuelve colo => actor vivo. Crea actores bajo demanda y desaloja
// los que quedan ociosos. Nunca hay dos actores vivos para el mismo colo.
type Registry struct {
	store   Store
	opts    RegistryOptions
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu     sync.Mutex
	actors map[string]*entry
	closed bool
}

func NewRegistry(store Store, opts RegistryOptions) *Registry {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 10 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	opts.Actor = opts.Actor.withDefaults()

	return &Registry{
		store:   store,
		opts:    opts,
		log:     opts.Actor.Logger.With(map[string]any{"component": "registry"}),
		metrics: opts.Actor.Metrics,
		now:     time.Now,
		actors:  map[string]*entry{},
	}
}

// acquire devuelve el actor del colo (creándolo si hace falta) y marca una
// llamada en curso. release debe llamarse siempre.
func (r *Registry) acquire(partition string) (*Actor, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, nil, ErrActorStopped
	}

	e, ok := r.actors[partition]
	if ok && e.actor.Failed() {
		// un actor con init fallido no se reintenta; se reemplaza
		r.log.Warn("replacing failed actor", map[string]any{"partition": partition})
		e.actor.Stop()
		ok = false
	}
	if !ok {
		e = &entry{actor: NewActor(partition, r.store, r.opts.Actor)}
		r.actors[partition] = e
		r.metrics.ActorsLive(len(r.actors))
		r.log.Debug("actor created", map[string]any{"partition": partition})
	}

	e.inflight++
	e.lastUsed = r.now()

	release := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		e.inflight--
		e.lastUsed = r.now()
	}
	return e.actor, release, nil
}

// Interact enruta la interacción al actor de in.Partition.
func (r *Registry) Interact(ctx context.Context, in Interaction) (InteractionResponse, error) {
	if err := in.Validate(); err != nil {
		r.metrics.Interaction(kindLabel(in.Kind), "invalid")
		return InteractionResponse{Message: err.Error()}, err
	}

	a, release, err := r.acquire(in.Partition)
	if err != nil {
		return InteractionResponse{Message: failureMessage(err)}, err
	}
	defer release()

	return a.Interact(ctx, in)
}

// Degrade enruta la degradación al actor del colo.
func (r *Registry) Degrade(ctx context.Context, partition string) (DegradationResponse, error) {
	a, release, err := r.acquire(partition)
	if err != nil {
		return DegradationResponse{Partition: partition, Message: failureMessage(err)}, err
	}
	defer release()

	return a.Degrade(ctx)
}

// Sweep desaloja actores sin llamadas en curso y ociosos más de IdleTimeout.
// Devuelve cuántos se detuvieron.
func (r *Registry) Sweep(now time.Time) int {
	var stale []*Actor

	r.mu.Lock()
	for partition, e := range r.actors {
		if e.inflight > 0 {
			continue
		}
		if now.Sub(e.lastUsed) < r.opts.IdleTimeout && !e.actor.Failed() {
			continue
		}
		delete(r.actors, partition)
		stale = append(stale, e.actor)
	}
	live := len(r.actors)
	r.mu.Unlock()

	if len(stale) == 0 {
		return 0
	}

	for _, a := range stale {
		a.Stop()
	}
	r.metrics.ActorsLive(live)
	r.log.Debug("evicted idle actors", map[string]any{"evicted": len(stale), "live": live})
	return len(stale)
}

// Run barre periódicamente hasta que ctx se cancela; al salir cierra todo.
func (r *Registry) Run(ctx context.Context) {
	t := time.NewTicker(r.opts.SweepInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-t.C:
			r.Sweep(r.now())
		}
	}
}

// Close detiene todos los actores. Las llamadas posteriores fallan con
// ErrActorStopped.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	all := make([]*Actor, 0, len(r.actors))
	for _, e := range r.actors {
		all = append(all, e.actor)
	}
	r.actors = map[string]*entry{}
	r.mu.Unlock()

	for _, a := range all {
		a.Stop()
	}
	r.metrics.ActorsLive(0)
}

// Live devuelve los colos con actor residente, ordenados.
func (r *Registry) Live() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.actors))
	for p := range r.actors {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
