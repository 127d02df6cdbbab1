package care

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"tamagitchi/internal/domain/owners"
	"tamagitchi/internal/domain/pets"
	"tamagitchi/internal/platform/logger"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type ServiceOptions struct {
	// Concurrency limita cuántos colos se degradan en paralelo en DegradeAll.
	Concurrency int
	Logger      logger.Logger
}

// Service es la fachada de casos de uso: las mutaciones van por el registry
// (serializadas por colo) y las lecturas van directo a los repositorios.
type Service struct {
	registry    *Registry
	store       Store
	log         logger.Logger
	concurrency int
}

func NewService(registry *Registry, store Store, opts ServiceOptions) *Service {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Service{
		registry:    registry,
		store:       store,
		log:         opts.Logger,
		concurrency: opts.Concurrency,
	}
}

func (s *Service) Interact(ctx context.Context, in Interaction) (InteractionResponse, error) {
	return s.registry.Interact(ctx, in)
}

// Degrade degrada un solo colo.
func (s *Service) Degrade(ctx context.Context, partition string) (DegradationResponse, error) {
	p, ok := pets.NormalizePartition(partition)
	if !ok {
		err := fmt.Errorf("%w: invalid colo %q", ErrInvalidInput, partition)
		return DegradationResponse{Partition: partition, Message: err.Error()}, err
	}
	return s.registry.Degrade(ctx, p)
}

// RunSummary agrega el resultado de degradar todos los colos.
type RunSummary struct {
	Partitions int
	Failed     int

	Processed int
	Updated   int
	Skipped   int
	// mascotas que debían actualizarse pero no se persistieron
	Unsaved int

	Results []DegradationResponse
}

// DegradeAll degrada cada colo conocido por storage, en paralelo con un
// límite. Un colo que falla no corta a los demás.
func (s *Service) DegradeAll(ctx context.Context) (RunSummary, error) {
	partitions, err := s.store.Pets.ListPartitions(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("list partitions: %w", err)
	}

	var (
		mu   sync.Mutex
		sum  = RunSummary{Partitions: len(partitions)}
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, p := range partitions {
		g.Go(func() error {
			res, err := s.registry.Degrade(ctx, p)

			mu.Lock()
			defer mu.Unlock()

			sum.Results = append(sum.Results, res)
			sum.Processed += res.Summary.Processed
			sum.Updated += res.Summary.Updated
			sum.Skipped += res.Summary.Skipped
			sum.Unsaved += res.Summary.Failed
			if err != nil {
				sum.Failed++
				errs = append(errs, fmt.Errorf("%s: %w", p, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(sum.Results, func(i, j int) bool {
		return sum.Results[i].Partition < sum.Results[j].Partition
	})

	fields := map[string]any{
		"partitions": sum.Partitions,
		"failed":     sum.Failed,
		"processed":  sum.Processed,
		"updated":    sum.Updated,
		"skipped":    sum.Skipped,
		"unsaved":    sum.Unsaved,
	}
	if len(errs) > 0 {
		joined := errors.Join(errs...)
		fields["err"] = joined
		s.log.Error("degradation run finished with errors", fields)
		return sum, fmt.Errorf("%d of %d partitions failed: %w", sum.Failed, sum.Partitions, joined)
	}
	s.log.Info("degradation run finished", fields)
	return sum, nil
}

// Pet devuelve el snapshot actual del colo (puede estar levemente atrasado
// respecto de una mutación en curso).
func (s *Service) Pet(ctx context.Context, partition string) (pets.Pet, error) {
	p, ok := pets.NormalizePartition(partition)
	if !ok {
		return pets.Pet{}, fmt.Errorf("%w: invalid colo %q", ErrInvalidInput, partition)
	}
	return s.store.Pets.GetByPartition(ctx, p)
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]pets.Pet, error) {
	return s.store.Pets.Leaderboard(ctx, ClampLimit(limit))
}

// Feed devuelve las últimas actividades con owner y mascota resueltos.
// Actividades cuyo owner o mascota ya no existen se omiten.
func (s *Service) Feed(ctx context.Context, limit int) ([]FeedItem, error) {
	acts, err := s.store.Activity.ListRecent(ctx, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	ownerByID := map[string]owners.Owner{}
	petByID := map[string]pets.Pet{}

	out := make([]FeedItem, 0, len(acts))
	for _, a := range acts {
		o, ok := ownerByID[a.OwnerID]
		if !ok {
			o, err = s.store.Owners.GetByID(ctx, a.OwnerID)
			if errors.Is(err, owners.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("get owner: %w", err)
			}
			ownerByID[a.OwnerID] = o
		}

		p, ok := petByID[a.PetID]
		if !ok {
			p, err = s.store.Pets.GetByID(ctx, a.PetID)
			if errors.Is(err, pets.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("get pet: %w", err)
			}
			petByID[a.PetID] = p
		}

		out = append(out, FeedItem{
			Activity: a,
			Owner:    o,
			Pet:      p,
			Message:  feedMessage(o.Username, a.Verb(), a.Subtype, p.Name),
		})
	}
	return out, nil
}

// "octocat fed pizza to Tama-DFW" / "octocat played music with Tama-DFW"
func feedMessage(owner, verb, subtype, petName string) string {
	switch verb {
	case "fed":
		return fmt.Sprintf("%s fed %s to %s", owner, subtype, petName)
	case "played":
		return fmt.Sprintf("%s played %s with %s", owner, subtype, petName)
	default:
		return fmt.Sprintf("%s interacted with %s", owner, petName)
	}
}

type feedRow struct {
	OccurredAt string  `csv:"occurred_at"`
	Colo       string  `csv:"colo"`
	Pet        string  `csv:"pet"`
	Owner      string  `csv:"owner"`
	Kind       string  `csv:"type"`
	Subtype    string  `csv:"subtype"`
	Points     int     `csv:"points"`
	Experience int     `csv:"experience_gained"`
	Health     float64 `csv:"health_change"`
	Happiness  float64 `csv:"happiness_change"`
	Energy     float64 `csv:"energy_change"`
	Hunger     float64 `csv:"hunger_change"`
	Issue      string  `csv:"issue_number"`
	Message    string  `csv:"message"`
}

// FeedCSV exporta el mismo feed en CSV (con header).
func (s *Service) FeedCSV(ctx context.Context, limit int) ([]byte, error) {
	items, err := s.Feed(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]*feedRow, 0, len(items))
	for _, it := range items {
		issue := ""
		if it.Activity.IssueNumber != nil {
			issue = strconv.FormatInt(*it.Activity.IssueNumber, 10)
		}
		rows = append(rows, &feedRow{
			OccurredAt: it.Activity.OccurredAt.UTC().Format(time.RFC3339),
			Colo:       it.Pet.Partition,
			Pet:        it.Pet.Name,
			Owner:      it.Owner.Username,
			Kind:       string(it.Activity.Kind),
			Subtype:    it.Activity.Subtype,
			Points:     it.Activity.Points,
			Experience: it.Activity.ExperienceGained,
			Health:     it.Activity.HealthChange,
			Happiness:  it.Activity.HappinessChange,
			Energy:     it.Activity.EnergyChange,
			Hunger:     it.Activity.HungerChange,
			Issue:      issue,
			Message:    it.Message,
		})
	}

	if len(rows) == 0 {
		// feed vacío: solo el header
		return []byte(strings.Join(feedHeader, ",") + "\n"), nil
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return nil, fmt.Errorf("marshal feed csv: %w", err)
	}
	return buf.Bytes(), nil
}

var feedHeader = []string{
	"occurred_at", "colo", "pet", "owner", "type", "subtype", "points",
	"experience_gained", "health_change", "happiness_change", "energy_change",
	"hunger_change", "issue_number", "message",
}

// ClampLimit aplica default 10 y tope 100.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
