package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
)

const DefaultLeaderboardLimit = 50

type LeaderboardEntry struct {
	Rank int
	model.Member
}

type TeamStat struct {
	Members     int
	TotalPoints float64
}

type Statistics struct {
	TotalMembers           int
	TotalEvents            int
	TotalCheckIns          int
	TotalPointsDistributed float64
	ActiveEvents           int
	Teams                  map[string]TeamStat
}

type RecordFilter struct {
	EventID  string
	MemberID string
}

// EnrichedRecord joins a record with the current event and member. Names are empty
// when the referenced event or member no longer exists.
type EnrichedRecord struct {
	model.CheckInRecord
	EventName  string
	MemberName string
	MemberTeam string
}

// ReportService derives rankings and totals from the store on every call.
type ReportService interface {
	Leaderboard(ctx context.Context, team string, limit int) ([]LeaderboardEntry, error)
	Statistics(ctx context.Context) (*Statistics, error)
	ListRecords(ctx context.Context, f RecordFilter) ([]EnrichedRecord, error)
}

type reportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) ReportService {
	return &reportService{store: store}
}

func (s *reportService) Leaderboard(ctx context.Context, team string, limit int) ([]LeaderboardEntry, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	var members []model.Member
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		members, err = tx.Members().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return RankMembers(members, team, limit), nil
}

// RankMembers orders members by descending points, breaking ties by ascending id,
// keeps the first limit entries (DefaultLeaderboardLimit when limit <= 0) and numbers them from 1.
// An empty team keeps every member.
func RankMembers(members []model.Member, team string, limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	picked := make([]model.Member, 0, len(members))
	for _, m := range members {
		if team == "" || m.Team == team {
			picked = append(picked, m)
		}
	}
	slices.SortStableFunc(picked, func(a, b model.Member) int {
		return cmp.Or(cmp.Compare(b.Points, a.Points), cmp.Compare(a.ID, b.ID))
	})
	if len(picked) > limit {
		picked = picked[:limit]
	}
	out := make([]LeaderboardEntry, 0, len(picked))
	for i, m := range picked {
		out = append(out, LeaderboardEntry{Rank: i + 1, Member: m})
	}
	return out
}

func (s *reportService) Statistics(ctx context.Context) (*Statistics, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	var (
		members []model.Member
		events  []model.Event
		records []model.CheckInRecord
	)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		if members, err = tx.Members().List(ctx); err != nil {
			return err
		}
		if events, err = tx.Events().List(ctx); err != nil {
			return err
		}
		records, err = tx.CheckIns().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalMembers:  len(members),
		TotalEvents:   len(events),
		TotalCheckIns: len(records),
		Teams:         map[string]TeamStat{},
	}
	for _, m := range members {
		stats.TotalPointsDistributed += m.Points
		ts := stats.Teams[m.Team]
		ts.Members++
		ts.TotalPoints += m.Points
		stats.Teams[m.Team] = ts
	}
	for _, e := range events {
		if e.Status == model.EventStatusActive {
			stats.ActiveEvents++
		}
	}
	return stats, nil
}

func (s *reportService) ListRecords(ctx context.Context, f RecordFilter) ([]EnrichedRecord, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	var (
		records []model.CheckInRecord
		events  = map[string]model.Event{}
		members = map[string]model.Member{}
	)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		switch {
		case f.MemberID != "":
			records, err = tx.CheckIns().ListByMember(ctx, f.MemberID)
		case f.EventID != "":
			records, err = tx.CheckIns().ListByEvent(ctx, f.EventID)
		default:
			records, err = tx.CheckIns().List(ctx)
		}
		if err != nil {
			return err
		}
		evs, err := tx.Events().List(ctx)
		if err != nil {
			return err
		}
		for _, e := range evs {
			events[e.ID] = e
		}
		ms, err := tx.Members().List(ctx)
		if err != nil {
			return err
		}
		for _, m := range ms {
			members[m.ID] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]EnrichedRecord, 0, len(records))
	for _, r := range records {
		if f.EventID != "" && r.EventID != f.EventID {
			continue
		}
		er := EnrichedRecord{CheckInRecord: r}
		if e, ok := events[r.EventID]; ok {
			er.EventName = e.Name
		}
		if m, ok := members[r.MemberID]; ok {
			er.MemberName = m.Name
			er.MemberTeam = m.Team
		}
		out = append(out, er)
	}
	return out, nil
}
