package service_test

import (
	"testing"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
	"github.com/shinyyama/checkin-points/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankMembers(t *testing.T) {
	members := []model.Member{
		{ID: "member-d", Name: "D", Team: "dev", Points: 50},
		{ID: "member-c", Name: "C", Team: "ops", Points: 90},
		{ID: "member-a", Name: "A", Team: "dev", Points: 90},
		{ID: "member-b", Name: "B", Team: "ops", Points: 10},
	}
	tests := []struct {
		name    string
		team    string
		limit   int
		wantIDs []string
	}{
		{"all, ties by id", "", 10, []string{"member-a", "member-c", "member-d", "member-b"}},
		{"default limit", "", 0, []string{"member-a", "member-c", "member-d", "member-b"}},
		{"truncated", "", 2, []string{"member-a", "member-c"}},
		{"team filter", "ops", 10, []string{"member-c", "member-b"}},
		{"unknown team", "hr", 10, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.RankMembers(members, tt.team, tt.limit)
			ids := make([]string, 0, len(got))
			for i, e := range got {
				assert.Equal(t, i+1, e.Rank)
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRankMembersDefaultLimit(t *testing.T) {
	members := make([]model.Member, 0, 60)
	for i := 0; i < 60; i++ {
		members = append(members, model.Member{ID: string(rune('A'+i%26)) + string(rune('a'+i/26)), Points: float64(i)})
	}
	got := service.RankMembers(members, "", -1)
	require.Len(t, got, service.DefaultLeaderboardLimit)
	assert.Equal(t, 59.0, got[0].Points)
	assert.Equal(t, 50, got[49].Rank)
}

func TestLeaderboard(t *testing.T) {
	forEachStore(t, func(t *testing.T, s repository.Store) {
		putMember(t, s, "member-1", "One", "dev", 50)
		putMember(t, s, "member-2", "Two", "dev", 90)
		putMember(t, s, "member-3", "Three", "ops", 90)
		putMember(t, s, "member-4", "Four", "ops", 10)
		reports := service.NewReportService(s)

		board, err := reports.Leaderboard(userCtx, "", 4)
		require.NoError(t, err)
		require.Len(t, board, 4)
		assert.Equal(t, "member-2", board[0].ID)
		assert.Equal(t, "member-3", board[1].ID)
		assert.Equal(t, "member-1", board[2].ID)
		assert.Equal(t, "member-4", board[3].ID)
		assert.Equal(t, 4, board[3].Rank)

		_, err = reports.Leaderboard(anonCtx, "", 4)
		assert.ErrorIs(t, err, service.ErrUnauthenticated)
	})
}

func TestStatistics(t *testing.T) {
	forEachStore(t, func(t *testing.T, s repository.Store) {
		putMember(t, s, "member-1", "One", "dev", 150)
		putMember(t, s, "member-2", "Two", "dev", 230)
		putMember(t, s, "member-3", "Three", "", 5)
		putEvent(t, s, "event-1", 10, model.EventStatusActive)
		putEvent(t, s, "event-2", 30, model.EventStatusUpcoming)
		_, err := service.NewLedgerService(s).CheckIn(userCtx, "event-1", []string{"member-3"})
		require.NoError(t, err)
		reports := service.NewReportService(s)

		_, err = reports.Statistics(userCtx)
		assert.ErrorIs(t, err, service.ErrForbidden)

		stats, err := reports.Statistics(adminCtx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalMembers)
		assert.Equal(t, 2, stats.TotalEvents)
		assert.Equal(t, 1, stats.TotalCheckIns)
		assert.Equal(t, 1, stats.ActiveEvents)
		assert.Equal(t, 395.0, stats.TotalPointsDistributed)
		assert.Equal(t, service.TeamStat{Members: 2, TotalPoints: 380}, stats.Teams["dev"])
		assert.Equal(t, service.TeamStat{Members: 1, TotalPoints: 15}, stats.Teams[""])
	})
}

func TestListRecordsEnrichedAndFiltered(t *testing.T) {
	forEachStore(t, func(t *testing.T, s repository.Store) {
		putMember(t, s, "member-1", "One", "dev", 0)
		putMember(t, s, "member-2", "Two", "ops", 0)
		putEvent(t, s, "event-1", 10, model.EventStatusActive)
		putEvent(t, s, "event-2", 20, model.EventStatusActive)
		ledger := service.NewLedgerService(s)
		for _, ev := range []string{"event-1", "event-2"} {
			_, err := ledger.BatchCheckIn(userCtx, ev, []string{"member-1", "member-2"})
			require.NoError(t, err)
		}
		require.NoError(t, service.NewMemberService(s).Delete(adminCtx, "member-2"))
		require.NoError(t, service.NewEventService(s).Delete(adminCtx, "event-2"))
		reports := service.NewReportService(s)

		all, err := reports.ListRecords(userCtx, service.RecordFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 4)

		byBoth, err := reports.ListRecords(userCtx, service.RecordFilter{EventID: "event-1", MemberID: "member-1"})
		require.NoError(t, err)
		require.Len(t, byBoth, 1)
		assert.Equal(t, "event event-1", byBoth[0].EventName)
		assert.Equal(t, "One", byBoth[0].MemberName)
		assert.Equal(t, "dev", byBoth[0].MemberTeam)

		dangling, err := reports.ListRecords(userCtx, service.RecordFilter{EventID: "event-2", MemberID: "member-2"})
		require.NoError(t, err)
		require.Len(t, dangling, 1)
		assert.Empty(t, dangling[0].EventName)
		assert.Empty(t, dangling[0].MemberName)
		assert.Empty(t, dangling[0].MemberTeam)
		assert.Equal(t, 20.0, dangling[0].PointsAwarded)

		byEvent, err := reports.ListRecords(userCtx, service.RecordFilter{EventID: "event-1"})
		require.NoError(t, err)
		assert.Len(t, byEvent, 2)
	})
}
