package cli

import (
	"fmt"

	"github.com/nhle/tasknest/internal/model"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func (e notFoundError) Is(target error) bool {
	return target == model.ErrNotFound
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}
