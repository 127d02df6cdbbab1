package care

import (
	"errors"
	"fmt"
	"strings"

	"tamagitchi/internal/domain/activity"
	"tamagitchi/internal/domain/owners"
	"tamagitchi/internal/domain/pets"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPetDeceased      = errors.New("pet is deceased")
	ErrActorUnavailable = errors.New("partition actor unavailable")
	ErrActorStopped     = errors.New("partition actor stopped")
)

// Interaction es el request ya tipado que llega al actor. Solo existen dos
// variantes (feed / play); el subtipo es libre y uno desconocido no es error.
type Interaction struct {
	Kind      pets.InteractionKind
	Subtype   string
	Owner     string // login externo (GitHub)
	Partition string // colo

	IssueNumber *int64 // opcional
}

// Validate normaliza y valida el request. Devuelve error envolviendo
// ErrInvalidInput con el detalle del campo.
func (in *Interaction) Validate() error {
	kind, ok := pets.ParseKind(string(in.Kind))
	if !ok {
		return fmt.Errorf("%w: type must be one of feed, play", ErrInvalidInput)
	}
	in.Kind = kind

	in.Subtype = strings.ToLower(strings.TrimSpace(in.Subtype))
	if in.Subtype == "" {
		return fmt.Errorf("%w: subtype is required (known: %s)", ErrInvalidInput, strings.Join(pets.Subtypes(kind), ", "))
	}

	in.Owner = strings.TrimSpace(in.Owner)
	if in.Owner == "" {
		return fmt.Errorf("%w: github_username is required", ErrInvalidInput)
	}

	partition, ok := pets.NormalizePartition(in.Partition)
	if !ok {
		return fmt.Errorf("%w: invalid colo %q", ErrInvalidInput, in.Partition)
	}
	in.Partition = partition

	if in.IssueNumber != nil && *in.IssueNumber <= 0 {
		return fmt.Errorf("%w: issue_number must be positive", ErrInvalidInput)
	}
	return nil
}

// InteractionResponse es lo que devuelve el actor tras una interacción.
type InteractionResponse struct {
	Success   bool
	Message   string
	Pet       pets.Pet
	Delta     pets.Delta
	LeveledUp bool
	Known     bool
}

// DegradationResponse resume una corrida de degradación de un colo.
// Ante un error de persistencia Success es false y Summary refleja lo que
// llegó a persistirse.
type DegradationResponse struct {
	Partition string
	Success   bool
	Message   string
	Summary   pets.BatchSummary
	Updates   []pets.DegradedPet
}

// FeedItem es una actividad con los datos de owner y mascota ya resueltos.
type FeedItem struct {
	Activity activity.Activity
	Owner    owners.Owner
	Pet      pets.Pet
	Message  string
}
