package service

import (
	"context"
	"errors"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
	"github.com/shinyyama/checkin-points/internal/reqctx"
	log "github.com/sirupsen/logrus"
)

type CheckInResult struct {
	Success        bool
	CheckedInCount int
	FailedCount    int
	TotalPoints    float64
	Records        []model.CheckInRecord
}

type BatchCheckInResult struct {
	Success            bool
	EventName          string
	PointsPerPerson    float64
	SuccessCount       int
	FailedCount        int
	TotalPointsAwarded float64
	Records            []CheckedInRecord
}

// CheckedInRecord is a freshly created record with the member name copied in.
type CheckedInRecord struct {
	model.CheckInRecord
	MemberName string
}

type RecordReversal struct {
	PointsDeducted float64
	MemberID       string
}

type MemberPointsCleared struct {
	PointsCleared  float64
	RecordsDeleted int64
}

type PointsReset struct {
	MembersAffected    int
	TotalPointsCleared float64
	RecordsCleared     int64
}

type SystemReset struct {
	MembersDeleted int64
	TeamsDeleted   int64
	EventsDeleted  int64
	RecordsDeleted int64
}

// LedgerService awards event points through check-ins and takes them back through reversals.
type LedgerService interface {
	CheckIn(ctx context.Context, eventID string, memberIDs []string) (*CheckInResult, error)
	BatchCheckIn(ctx context.Context, eventID string, memberIDs []string) (*BatchCheckInResult, error)
	DeleteRecord(ctx context.Context, recordID string) (*RecordReversal, error)
	ClearMemberPoints(ctx context.Context, memberID string) (*MemberPointsCleared, error)
	ResetAllPoints(ctx context.Context) (*PointsReset, error)
	ResetSystem(ctx context.Context) (*SystemReset, error)
}

type ledgerService struct {
	store repository.Store
}

func NewLedgerService(store repository.Store) LedgerService {
	return &ledgerService{store: store}
}

type checkInOutcome struct {
	event   model.Event
	applied []CheckedInRecord
	failed  int
}

func (o *checkInOutcome) total() float64 {
	var sum float64
	for _, r := range o.applied {
		sum += r.PointsAwarded
	}
	return sum
}

// apply runs the whole check-in under the store's write lock, so the duplicate
// check and the balance increment for a member cannot interleave with another request.
func (s *ledgerService) apply(ctx context.Context, eventID string, memberIDs []string) (*checkInOutcome, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	var out checkInOutcome
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		out = checkInOutcome{}
		ev, err := tx.Events().Get(ctx, eventID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if ev.Status != model.EventStatusActive {
			return ErrEventNotCheckable
		}
		out.event = *ev

		for _, memberID := range memberIDs {
			member, err := tx.Members().Get(ctx, memberID)
			if errors.Is(err, repository.ErrNotFound) {
				out.failed++
				continue
			} else if err != nil {
				return err
			}

			_, err = tx.CheckIns().FindByEventMember(ctx, eventID, memberID)
			if err == nil {
				out.failed++
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			recordID, err := repository.NewID[model.CheckInRecord](ctx, tx.CheckIns(), "record")
			if err != nil {
				return err
			}
			member.Points = clampPoints(member.Points + ev.Points)
			rec := model.CheckInRecord{
				ID:            recordID,
				EventID:       eventID,
				MemberID:      memberID,
				PointsAwarded: ev.Points,
				CheckedInAt:   now(),
			}
			if err := tx.Members().Put(ctx, member); err != nil {
				return err
			}
			if err := tx.CheckIns().Put(ctx, &rec); err != nil {
				return err
			}
			out.applied = append(out.applied, CheckedInRecord{CheckInRecord: rec, MemberName: member.Name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"rid":      reqctx.RequestID(ctx),
		"event_id": eventID,
		"success":  len(out.applied),
		"failed":   out.failed,
		"points":   out.total(),
	}).Info("check-in applied")
	return &out, nil
}

func (s *ledgerService) CheckIn(ctx context.Context, eventID string, memberIDs []string) (*CheckInResult, error) {
	out, err := s.apply(ctx, eventID, memberIDs)
	if err != nil {
		return nil, err
	}
	records := make([]model.CheckInRecord, 0, len(out.applied))
	for _, r := range out.applied {
		records = append(records, r.CheckInRecord)
	}
	return &CheckInResult{
		Success:        true,
		CheckedInCount: len(out.applied),
		FailedCount:    out.failed,
		TotalPoints:    out.total(),
		Records:        records,
	}, nil
}

func (s *ledgerService) BatchCheckIn(ctx context.Context, eventID string, memberIDs []string) (*BatchCheckInResult, error) {
	out, err := s.apply(ctx, eventID, memberIDs)
	if err != nil {
		return nil, err
	}
	records := out.applied
	if records == nil {
		records = []CheckedInRecord{}
	}
	return &BatchCheckInResult{
		Success:            true,
		EventName:          out.event.Name,
		PointsPerPerson:    out.event.Points,
		SuccessCount:       len(out.applied),
		FailedCount:        out.failed,
		TotalPointsAwarded: out.total(),
		Records:            records,
	}, nil
}

type reversalScope int

const (
	scopeRecord reversalScope = iota
	scopeMember
	scopeAllPoints
	scopeEverything
)

func (s reversalScope) String() string {
	switch s {
	case scopeRecord:
		return "record"
	case scopeMember:
		return "member"
	case scopeAllPoints:
		return "all_points"
	case scopeEverything:
		return "everything"
	}
	return "unknown"
}

type reversalOutcome struct {
	memberID        string
	pointsCleared   float64
	membersAffected int
	recordsDeleted  int64
	membersDeleted  int64
	teamsDeleted    int64
	eventsDeleted   int64
}

// reverse undoes awarded points. The scopes differ only in how much they remove:
// one record, every record of one member, every record, or every collection.
func (s *ledgerService) reverse(ctx context.Context, scope reversalScope, id string) (*reversalOutcome, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	var out reversalOutcome
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		out = reversalOutcome{}
		switch scope {
		case scopeRecord:
			return reverseRecord(ctx, tx, id, &out)
		case scopeMember:
			return reverseMember(ctx, tx, id, &out)
		case scopeAllPoints:
			return reverseAllPoints(ctx, tx, &out)
		case scopeEverything:
			return reverseEverything(ctx, tx, &out)
		}
		return errors.New("unknown reversal scope")
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"rid":     reqctx.RequestID(ctx),
		"scope":   scope.String(),
		"target":  id,
		"points":  out.pointsCleared,
		"records": out.recordsDeleted,
	}).Info("points reversed")
	return &out, nil
}

func reverseRecord(ctx context.Context, tx repository.Tx, recordID string, out *reversalOutcome) error {
	rec, err := tx.CheckIns().Get(ctx, recordID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	member, err := tx.Members().Get(ctx, rec.MemberID)
	switch {
	case err == nil:
		member.Points = clampPoints(member.Points - rec.PointsAwarded)
		if err := tx.Members().Put(ctx, member); err != nil {
			return err
		}
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	if err := tx.CheckIns().Delete(ctx, recordID); err != nil {
		return err
	}
	out.memberID = rec.MemberID
	out.pointsCleared = rec.PointsAwarded
	out.recordsDeleted = 1
	return nil
}

func reverseMember(ctx context.Context, tx repository.Tx, memberID string, out *reversalOutcome) error {
	member, err := tx.Members().Get(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	out.memberID = memberID
	out.pointsCleared = member.Points
	out.membersAffected = 1
	member.Points = 0
	if err := tx.Members().Put(ctx, member); err != nil {
		return err
	}
	n, err := tx.CheckIns().DeleteByMember(ctx, memberID)
	if err != nil {
		return err
	}
	out.recordsDeleted = n
	return nil
}

func reverseAllPoints(ctx context.Context, tx repository.Tx, out *reversalOutcome) error {
	members, err := tx.Members().List(ctx)
	if err != nil {
		return err
	}
	for i := range members {
		m := &members[i]
		out.membersAffected++
		if m.Points == 0 {
			continue
		}
		out.pointsCleared += m.Points
		m.Points = 0
		if err := tx.Members().Put(ctx, m); err != nil {
			return err
		}
	}
	n, err := tx.CheckIns().Clear(ctx)
	if err != nil {
		return err
	}
	out.recordsDeleted = n
	return nil
}

func reverseEverything(ctx context.Context, tx repository.Tx, out *reversalOutcome) error {
	var err error
	if out.recordsDeleted, err = tx.CheckIns().Clear(ctx); err != nil {
		return err
	}
	if out.membersDeleted, err = tx.Members().Clear(ctx); err != nil {
		return err
	}
	if out.teamsDeleted, err = tx.Teams().Clear(ctx); err != nil {
		return err
	}
	if out.eventsDeleted, err = tx.Events().Clear(ctx); err != nil {
		return err
	}
	return nil
}

func (s *ledgerService) DeleteRecord(ctx context.Context, recordID string) (*RecordReversal, error) {
	out, err := s.reverse(ctx, scopeRecord, recordID)
	if err != nil {
		return nil, err
	}
	return &RecordReversal{PointsDeducted: out.pointsCleared, MemberID: out.memberID}, nil
}

func (s *ledgerService) ClearMemberPoints(ctx context.Context, memberID string) (*MemberPointsCleared, error) {
	out, err := s.reverse(ctx, scopeMember, memberID)
	if err != nil {
		return nil, err
	}
	return &MemberPointsCleared{PointsCleared: out.pointsCleared, RecordsDeleted: out.recordsDeleted}, nil
}

func (s *ledgerService) ResetAllPoints(ctx context.Context) (*PointsReset, error) {
	out, err := s.reverse(ctx, scopeAllPoints, "")
	if err != nil {
		return nil, err
	}
	return &PointsReset{
		MembersAffected:    out.membersAffected,
		TotalPointsCleared: out.pointsCleared,
		RecordsCleared:     out.recordsDeleted,
	}, nil
}

func (s *ledgerService) ResetSystem(ctx context.Context) (*SystemReset, error) {
	out, err := s.reverse(ctx, scopeEverything, "")
	if err != nil {
		return nil, err
	}
	return &SystemReset{
		MembersDeleted: out.membersDeleted,
		TeamsDeleted:   out.teamsDeleted,
		EventsDeleted:  out.eventsDeleted,
		RecordsDeleted: out.recordsDeleted,
	}, nil
}
