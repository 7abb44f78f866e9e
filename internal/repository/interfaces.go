package repository

import (
	"context"
	"errors"

	"github.com/rvergnes/edtcal/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// CalendarRepo persists the calendar collection. Callers follow
// copy-on-write: load, clone, modify, store. A loaded value is never
// mutated in place.
type CalendarRepo interface {
	List(ctx context.Context) ([]*domain.Calendar, error)
	Get(ctx context.Context, id string) (*domain.Calendar, error)
	Upsert(ctx context.Context, cal *domain.Calendar) error
	Delete(ctx context.Context, id string) error
}

// KVRepo is the string-keyed fallback store.
type KVRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// RulesRepo persists the user's normalization rules as one value.
type RulesRepo interface {
	Get(ctx context.Context) (domain.Rules, error)
	Put(ctx context.Context, rules domain.Rules) error
}
