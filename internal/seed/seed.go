// Package seed loads starter data into a record store and dumps it back out.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrStoreNotEmpty = errors.New("store already has data")

type TeamFixture struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
}

// MemberFixture may carry an opening balance; it is written as-is and has no
// check-in records behind it.
type MemberFixture struct {
	Name   string  `yaml:"name"`
	Team   string  `yaml:"team"`
	Points float64 `yaml:"points"`
	Email  *string `yaml:"email"`
}

type EventFixture struct {
	Name        string            `yaml:"name"`
	Points      float64           `yaml:"points"`
	Date        string            `yaml:"date"`
	Status      model.EventStatus `yaml:"status"`
	Description *string           `yaml:"description"`
}

type Fixture struct {
	Teams   []TeamFixture   `yaml:"teams"`
	Members []MemberFixture `yaml:"members"`
	Events  []EventFixture  `yaml:"events"`
}

type Summary struct {
	Teams   int
	Members int
	Events  int
}

func strptr(s string) *string { return &s }

// Sample is the demo organisation: four departments, eight members with
// opening balances and one event per status.
func Sample() *Fixture {
	fx := &Fixture{
		Teams: []TeamFixture{
			{Name: "技術部", Description: strptr("負責技術開發")},
			{Name: "行銷部", Description: strptr("負責市場行銷")},
			{Name: "人資部", Description: strptr("負責人力資源")},
			{Name: "財務部", Description: strptr("負責財務管理")},
		},
		Members: []MemberFixture{
			{Name: "張小明", Team: "技術部", Points: 150},
			{Name: "李美華", Team: "技術部", Points: 230},
			{Name: "王大偉", Team: "行銷部", Points: 180},
			{Name: "陳思琪", Team: "行銷部", Points: 95},
			{Name: "林志豪", Team: "人資部", Points: 210},
			{Name: "黃雅婷", Team: "人資部", Points: 175},
			{Name: "劉建國", Team: "財務部", Points: 120},
			{Name: "吳佳玲", Team: "財務部", Points: 88},
		},
		Events: []EventFixture{
			{Name: "週會簽到", Points: 10, Date: "2026-01-27", Status: model.EventStatusActive},
			{Name: "培訓課程", Points: 30, Date: "2026-01-28", Status: model.EventStatusUpcoming},
			{Name: "團隊建設", Points: 50, Date: "2026-01-25", Status: model.EventStatusCompleted},
		},
	}
	for i := range fx.Members {
		fx.Members[i].Email = strptr(fx.Members[i].Name + "@example.com")
	}
	return fx
}

// ParseFixture decodes a YAML fixture. Unknown keys are rejected.
func ParseFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) Validate() error {
	for i, t := range fx.Teams {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("teams[%d]: name is required", i)
		}
	}
	for i, m := range fx.Members {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("members[%d]: name is required", i)
		}
		if m.Points < 0 || math.IsNaN(m.Points) || math.IsInf(m.Points, 0) {
			return fmt.Errorf("members[%d]: points must be a non-negative number", i)
		}
	}
	for i := range fx.Events {
		ev := &fx.Events[i]
		if strings.TrimSpace(ev.Name) == "" {
			return fmt.Errorf("events[%d]: name is required", i)
		}
		if ev.Points < 0 || math.IsNaN(ev.Points) || math.IsInf(ev.Points, 0) {
			return fmt.Errorf("events[%d]: points must be a non-negative number", i)
		}
		if ev.Status == "" {
			ev.Status = model.EventStatusActive
		}
		if !ev.Status.Valid() {
			return fmt.Errorf("events[%d]: unknown status %q", i, ev.Status)
		}
	}
	return nil
}

// Apply writes the fixture in a single update. Unless force is set it refuses
// to touch a store that already holds members, teams or events.
func Apply(ctx context.Context, store repository.Store, fx *Fixture, force bool) (Summary, error) {
	if err := fx.Validate(); err != nil {
		return Summary{}, err
	}
	var sum Summary
	err := store.Update(ctx, func(tx repository.Tx) error {
		if !force {
			empty, err := isEmpty(ctx, tx)
			if err != nil {
				return err
			}
			if !empty {
				return ErrStoreNotEmpty
			}
		}
		now := time.Now().UTC()
		for _, t := range fx.Teams {
			id, err := repository.NewID(ctx, tx.Teams(), "team")
			if err != nil {
				return err
			}
			if err := tx.Teams().Put(ctx, &model.Team{
				ID:          id,
				Name:        strings.TrimSpace(t.Name),
				Description: t.Description,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			sum.Teams++
		}
		for _, m := range fx.Members {
			id, err := repository.NewID(ctx, tx.Members(), "member")
			if err != nil {
				return err
			}
			if err := tx.Members().Put(ctx, &model.Member{
				ID:        id,
				Name:      strings.TrimSpace(m.Name),
				Team:      strings.TrimSpace(m.Team),
				Points:    m.Points,
				Email:     m.Email,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			sum.Members++
		}
		for _, ev := range fx.Events {
			id, err := repository.NewID(ctx, tx.Events(), "event")
			if err != nil {
				return err
			}
			if err := tx.Events().Put(ctx, &model.Event{
				ID:          id,
				Name:        strings.TrimSpace(ev.Name),
				Points:      ev.Points,
				Date:        ev.Date,
				Status:      ev.Status,
				Description: ev.Description,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			sum.Events++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	log.WithFields(log.Fields{
		"teams":   sum.Teams,
		"members": sum.Members,
		"events":  sum.Events,
	}).Info("seed applied")
	return sum, nil
}

func isEmpty(ctx context.Context, tx repository.Tx) (bool, error) {
	members, err := tx.Members().List(ctx)
	if err != nil {
		return false, err
	}
	teams, err := tx.Teams().List(ctx)
	if err != nil {
		return false, err
	}
	events, err := tx.Events().List(ctx)
	if err != nil {
		return false, err
	}
	return len(members) == 0 && len(teams) == 0 && len(events) == 0, nil
}

// Dump is the full contents of a store.
type Dump struct {
	Members        []model.Member        `json:"members"`
	Teams          []model.Team          `json:"teams"`
	Events         []model.Event         `json:"events"`
	CheckInRecords []model.CheckInRecord `json:"checkin_records"`
}

func Export(ctx context.Context, store repository.Store) (*Dump, error) {
	var d Dump
	err := store.View(ctx, func(tx repository.Tx) error {
		var err error
		if d.Members, err = tx.Members().List(ctx); err != nil {
			return err
		}
		if d.Teams, err = tx.Teams().List(ctx); err != nil {
			return err
		}
		if d.Events, err = tx.Events().List(ctx); err != nil {
			return err
		}
		d.CheckInRecords, err = tx.CheckIns().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
