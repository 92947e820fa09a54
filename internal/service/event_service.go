package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
)

type EventInput struct {
	Name        string
	Points      float64
	Date        string
	Status      model.EventStatus // empty means active
	Description *string
}

type EventPatch struct {
	Name        *string
	Points      *float64
	Date        *string
	Status      *model.EventStatus
	Description *string
}

type EventService interface {
	List(ctx context.Context, status model.EventStatus) ([]model.Event, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	Create(ctx context.Context, in EventInput) (*model.Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	store repository.Store
}

func NewEventService(store repository.Store) EventService {
	return &eventService{store: store}
}

func validPoints(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

func (s *eventService) List(ctx context.Context, status model.EventStatus) ([]model.Event, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	var all []model.Event
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		all, err = tx.Events().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	out := make([]model.Event, 0, len(all))
	for _, e := range all {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*model.Event, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	var ev *model.Event
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		ev, err = tx.Events().Get(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	return ev, err
}

func (s *eventService) Create(ctx context.Context, in EventInput) (*model.Event, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 120 {
		return nil, invalid("name is required and at most 120 characters")
	}
	if !validPoints(in.Points) {
		return nil, invalid("points must be a non-negative number")
	}
	status := in.Status
	if status == "" {
		status = model.EventStatusActive
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	ev := &model.Event{
		Name:        name,
		Points:      in.Points,
		Date:        strings.TrimSpace(in.Date),
		Status:      status,
		Description: in.Description,
		CreatedAt:   now(),
	}
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		id, err := repository.NewID(ctx, tx.Events(), "event")
		if err != nil {
			return err
		}
		ev.ID = id
		return tx.Events().Put(ctx, ev)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Update edits the event in place. Records already written keep the points they were awarded.
func (s *eventService) Update(ctx context.Context, id string, patch EventPatch) (*model.Event, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name must not be empty")
	}
	if patch.Points != nil && !validPoints(*patch.Points) {
		return nil, invalid("points must be a non-negative number")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalid("unknown status %q", *patch.Status)
	}
	var ev *model.Event
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		var err error
		ev, err = tx.Events().Get(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			ev.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Points != nil {
			ev.Points = *patch.Points
		}
		if patch.Date != nil {
			ev.Date = strings.TrimSpace(*patch.Date)
		}
		if patch.Status != nil {
			ev.Status = *patch.Status
		}
		if patch.Description != nil {
			ev.Description = patch.Description
		}
		return tx.Events().Put(ctx, ev)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		return tx.Events().Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}
