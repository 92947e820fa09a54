package service

import (
	"context"
	"strings"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
)

type TeamWithCount struct {
	model.Team
	MemberCount int
}

type TeamService interface {
	List(ctx context.Context) ([]TeamWithCount, error)
	Create(ctx context.Context, name string, description *string) (*model.Team, error)
}

type teamService struct {
	store repository.Store
}

func NewTeamService(store repository.Store) TeamService {
	return &teamService{store: store}
}

// List counts members per team by matching the member's team name at read time.
func (s *teamService) List(ctx context.Context) ([]TeamWithCount, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	var (
		teams   []model.Team
		members []model.Member
	)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		if teams, err = tx.Teams().List(ctx); err != nil {
			return err
		}
		members, err = tx.Members().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(teams))
	for _, m := range members {
		counts[m.Team]++
	}
	out := make([]TeamWithCount, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamWithCount{Team: t, MemberCount: counts[t.Name]})
	}
	return out, nil
}

func (s *teamService) Create(ctx context.Context, name string, description *string) (*model.Team, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 120 {
		return nil, invalid("name is required and at most 120 characters")
	}
	t := &model.Team{
		Name:        name,
		Description: description,
		CreatedAt:   now(),
	}
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		id, err := repository.NewID(ctx, tx.Teams(), "team")
		if err != nil {
			return err
		}
		t.ID = id
		return tx.Teams().Put(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
