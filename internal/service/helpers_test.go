package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/config"
	"github.com/shinyyama/checkin-points/internal/db"
	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
	"github.com/stretchr/testify/require"
)

var (
	adminCtx = auth.WithIdentity(context.Background(), auth.Identity{UserID: "user-1", Username: "admin", Role: auth.RoleAdmin})
	userCtx  = auth.WithIdentity(context.Background(), auth.Identity{UserID: "user-2", Username: "kiosk", Role: auth.RoleUser})
	anonCtx  = context.Background()
	seedTime = time.Date(2026, 1, 27, 9, 0, 0, 0, time.UTC)
)

func sqliteStore(t *testing.T) repository.Store {
	t.Helper()
	conn, err := db.Connect(&config.Config{
		StoreDriver: db.DriverSQLite,
		DatabaseURL: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	s := repository.NewGormStore(conn)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func forEachStore(t *testing.T, fn func(t *testing.T, s repository.Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, repository.NewMemoryStore()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, sqliteStore(t)) })
}

func putMember(t *testing.T, s repository.Store, id, name, team string, points float64) {
	t.Helper()
	require.NoError(t, s.Update(context.Background(), func(tx repository.Tx) error {
		return tx.Members().Put(context.Background(), &model.Member{ID: id, Name: name, Team: team, Points: points, CreatedAt: seedTime})
	}))
}

func putEvent(t *testing.T, s repository.Store, id string, points float64, status model.EventStatus) {
	t.Helper()
	require.NoError(t, s.Update(context.Background(), func(tx repository.Tx) error {
		return tx.Events().Put(context.Background(), &model.Event{ID: id, Name: "event " + id, Points: points, Status: status, CreatedAt: seedTime})
	}))
}

func memberPoints(t *testing.T, s repository.Store, id string) float64 {
	t.Helper()
	var points float64
	require.NoError(t, s.View(context.Background(), func(tx repository.Tx) error {
		m, err := tx.Members().Get(context.Background(), id)
		if err != nil {
			return err
		}
		points = m.Points
		return nil
	}))
	return points
}

func countRecords(t *testing.T, s repository.Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.View(context.Background(), func(tx repository.Tx) error {
		list, err := tx.CheckIns().List(context.Background())
		n = len(list)
		return err
	}))
	return n
}

func sumAwarded(t *testing.T, s repository.Store, memberID string) float64 {
	t.Helper()
	var sum float64
	require.NoError(t, s.View(context.Background(), func(tx repository.Tx) error {
		list, err := tx.CheckIns().ListByMember(context.Background(), memberID)
		for _, r := range list {
			sum += r.PointsAwarded
		}
		return err
	}))
	return sum
}
