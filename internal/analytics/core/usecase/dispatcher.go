package usecase

import (
	"context"
	"fmt"

	"analytics-query-service/internal/analytics/core/domain"
)

// Dispatcher selects the active backend. The selection is fixed at
// construction and only read afterwards.
type Dispatcher struct {
	backend domain.Backend
}

func NewDispatcher(backend domain.Backend) (*Dispatcher, error) {
	switch backend {
	case domain.Relational, domain.Columnar:
		return &Dispatcher{backend: backend}, nil
	default:
		return nil, fmt.Errorf("unknown analytics backend %s", backend)
	}
}

func (d *Dispatcher) Backend() domain.Backend {
	return d.backend
}

// Dispatch runs exactly one of the two computations and returns its result
// or error unchanged. A failure is never retried on the other backend.
func Dispatch[T any](
	ctx context.Context,
	d *Dispatcher,
	relational func(context.Context) (T, error),
	columnar func(context.Context) (T, error),
) (T, error) {
	if d.backend == domain.Columnar {
		return columnar(ctx)
	}
	return relational(ctx)
}
