package mutate

import (
	"errors"
	"fmt"

	"jupiter-cli/internal/model"
)

type NotFoundError struct {
	Kind string
	ID   model.EntityID
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrInFlux matches every InFluxError.
var ErrInFlux = errors.New("entity in flux")

// InFluxError means another mutation of the same entity has not finished yet.
type InFluxError struct {
	Tag model.NamedEntityTag
	ID  model.EntityID
}

func (e InFluxError) Error() string {
	return fmt.Sprintf("%s %s has a change in progress; try again shortly", e.Tag, e.ID)
}

func (e InFluxError) Is(target error) bool { return target == ErrInFlux }
