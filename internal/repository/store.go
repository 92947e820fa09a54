package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/checkin-points/internal/model"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateCheckIn = errors.New("check-in already recorded for event and member")
)

// Collection is the per-entity view of the record store.
// Put is an upsert; Get and Delete return ErrNotFound for unknown ids.
type Collection[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Put(ctx context.Context, v *T) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]T, error)
	Clear(ctx context.Context) (int64, error)
}

// CheckInRepository adds the lookups the ledger needs on top of the plain collection.
// Records are insert-only: Put on an existing (event, member) pair fails.
type CheckInRepository interface {
	Collection[model.CheckInRecord]
	FindByEventMember(ctx context.Context, eventID, memberID string) (*model.CheckInRecord, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.CheckInRecord, error)
	ListByMember(ctx context.Context, memberID string) ([]model.CheckInRecord, error)
	DeleteByMember(ctx context.Context, memberID string) (int64, error)
}

// Tx is the set of collections visible inside a View or Update callback.
type Tx interface {
	Members() Collection[model.Member]
	Teams() Collection[model.Team]
	Events() Collection[model.Event]
	CheckIns() CheckInRepository
}

// Store serializes writers. Update holds exclusive access for the whole callback and
// applies the callback atomically; View callbacks may run concurrently with each other.
type Store interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
	Persist(ctx context.Context) error
	Close() error
}
