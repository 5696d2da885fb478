package cli

import (
	"errors"
	"fmt"

	"jupiter-cli/internal/api"
	"jupiter-cli/internal/hometab"
	"jupiter-cli/internal/mutate"
	"jupiter-cli/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// errorHint suggests the next command for errors a user can fix.
func errorHint(err error) string {
	switch {
	case errors.Is(err, store.ErrNotSynced):
		return "run `jupiter sync` first"
	case errors.Is(err, api.ErrUnauthorized):
		return "check the token (`jupiter config set token ...` or --token)"
	case errors.Is(err, api.ErrConflict), errors.Is(err, mutate.ErrInFlux):
		return "run `jupiter sync` and try again"
	}
	var iv *hometab.InvariantViolationError
	if errors.As(err, &iv) && iv.Kind == "home tab" {
		return "run `jupiter tabs repair --target <target>` to rebuild the order list"
	}
	return ""
}
