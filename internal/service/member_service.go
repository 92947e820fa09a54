package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
)

type MemberFilter struct {
	Team   string
	Search string
}

type MemberInput struct {
	Name  string
	Team  string
	Email *string
}

// MemberPatch changes only the non-nil fields.
type MemberPatch struct {
	Name  *string
	Team  *string
	Email *string
}

type MemberService interface {
	List(ctx context.Context, f MemberFilter) ([]model.Member, error)
	Get(ctx context.Context, id string) (*model.Member, error)
	Create(ctx context.Context, in MemberInput) (*model.Member, error)
	Update(ctx context.Context, id string, patch MemberPatch) (*model.Member, error)
	Delete(ctx context.Context, id string) error
}

type memberService struct {
	store repository.Store
}

func NewMemberService(store repository.Store) MemberService {
	return &memberService{store: store}
}

func (s *memberService) List(ctx context.Context, f MemberFilter) ([]model.Member, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	var all []model.Member
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		all, err = tx.Members().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.Member, 0, len(all))
	for _, m := range all {
		if f.Team != "" && m.Team != f.Team {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.Name), search) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *memberService) Get(ctx context.Context, id string) (*model.Member, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	var m *model.Member
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		m, err = tx.Members().Get(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	return m, err
}

func (s *memberService) Create(ctx context.Context, in MemberInput) (*model.Member, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 120 {
		return nil, invalid("name is required and at most 120 characters")
	}
	m := &model.Member{
		Name:      name,
		Team:      strings.TrimSpace(in.Team),
		Email:     in.Email,
		Points:    0,
		CreatedAt: now(),
	}
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		id, err := repository.NewID(ctx, tx.Members(), "member")
		if err != nil {
			return err
		}
		m.ID = id
		return tx.Members().Put(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *memberService) Update(ctx context.Context, id string, patch MemberPatch) (*model.Member, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name must not be empty")
	}
	var m *model.Member
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		var err error
		m, err = tx.Members().Get(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			m.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Team != nil {
			m.Team = strings.TrimSpace(*patch.Team)
		}
		if patch.Email != nil {
			m.Email = patch.Email
		}
		return tx.Members().Put(ctx, m)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the member only. Their check-in records stay and show an empty name.
func (s *memberService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		return tx.Members().Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMemberNotFound
	}
	return err
}
