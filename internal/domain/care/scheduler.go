package care

import (
	"context"
	"time"

	"tamagitchi/internal/platform/logger"
)

// Degrader es lo que el scheduler dispara en cada tick.
type Degrader interface {
	DegradeAll(ctx context.Context) (RunSummary, error)
}

// Scheduler dispara la degradación de todos los colos cada Interval.
type Scheduler struct {
	target   Degrader
	interval time.Duration
	log      logger.Logger
}

func NewScheduler(target Degrader, interval time.Duration, log logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		target:   target,
		interval: interval,
		log:      log.With(map[string]any{"component": "scheduler"}),
	}
}

// Run bloquea hasta que ctx se cancela. Un tick que falla no detiene al
// scheduler; el error ya quedó logueado por DegradeAll.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.log.Info("degradation scheduler started", map[string]any{"interval": s.interval.String()})

	for {
		select {
		case <-ctx.Done():
			s.log.Info("degradation scheduler stopped", nil)
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	sum, err := s.target.DegradeAll(ctx)
	fields := map[string]any{
		"partitions": sum.Partitions,
		"updated":    sum.Updated,
		"took":       time.Since(start).String(),
	}
	if err != nil {
		fields["err"] = err
		s.log.Warn("scheduled degradation incomplete", fields)
		return
	}
	s.log.Debug("scheduled degradation done", fields)
}
