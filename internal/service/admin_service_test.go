package service_test

import (
	"testing"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/repository"
	"github.com/shinyyama/checkin-points/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemberLifecycle(t *testing.T) {
	s := repository.NewMemoryStore()
	members := service.NewMemberService(s)

	_, err := members.Create(userCtx, service.MemberInput{Name: "Ann"})
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = members.Create(adminCtx, service.MemberInput{Name: "  "})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	ann, err := members.Create(adminCtx, service.MemberInput{Name: "Ann Lee", Team: "dev", Email: strPtr("ann@example.com")})
	require.NoError(t, err)
	assert.Regexp(t, `^member-[0-9a-f]{8}$`, ann.ID)
	assert.Zero(t, ann.Points)
	_, err = members.Create(adminCtx, service.MemberInput{Name: "Ben", Team: "ops"})
	require.NoError(t, err)

	list, err := members.List(userCtx, service.MemberFilter{Team: "dev"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = members.List(userCtx, service.MemberFilter{Search: "LEE"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ann.ID, list[0].ID)
	_, err = members.List(anonCtx, service.MemberFilter{})
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	updated, err := members.Update(adminCtx, ann.ID, service.MemberPatch{Team: strPtr("ops")})
	require.NoError(t, err)
	assert.Equal(t, "ops", updated.Team)
	assert.Equal(t, "Ann Lee", updated.Name)
	assert.Equal(t, "ann@example.com", *updated.Email)

	_, err = members.Update(adminCtx, "member-missing", service.MemberPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrMemberNotFound)

	require.NoError(t, members.Delete(adminCtx, ann.ID))
	_, err = members.Get(userCtx, ann.ID)
	assert.ErrorIs(t, err, service.ErrMemberNotFound)
	assert.ErrorIs(t, members.Delete(adminCtx, ann.ID), service.ErrMemberNotFound)
}

func TestTeamMemberCountIsDerived(t *testing.T) {
	s := repository.NewMemoryStore()
	teams := service.NewTeamService(s)
	members := service.NewMemberService(s)

	_, err := teams.Create(adminCtx, "dev", strPtr("engineering"))
	require.NoError(t, err)
	_, err = teams.Create(adminCtx, "ops", nil)
	require.NoError(t, err)
	_, err = teams.Create(adminCtx, "", nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	ann, err := members.Create(adminCtx, service.MemberInput{Name: "Ann", Team: "dev"})
	require.NoError(t, err)
	_, err = members.Create(adminCtx, service.MemberInput{Name: "Ben", Team: "dev"})
	require.NoError(t, err)

	counts := func() map[string]int {
		list, err := teams.List(userCtx)
		require.NoError(t, err)
		out := map[string]int{}
		for _, tm := range list {
			out[tm.Name] = tm.MemberCount
		}
		return out
	}
	assert.Equal(t, map[string]int{"dev": 2, "ops": 0}, counts())

	_, err = members.Update(adminCtx, ann.ID, service.MemberPatch{Team: strPtr("ops")})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"dev": 1, "ops": 1}, counts())
}

func TestEventLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s repository.Store) {
		events := service.NewEventService(s)

		_, err := events.Create(adminCtx, service.EventInput{Name: "weekly", Points: -1})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		_, err = events.Create(adminCtx, service.EventInput{Name: "weekly", Points: 1, Status: "paused"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		ev, err := events.Create(adminCtx, service.EventInput{Name: "weekly", Points: 10, Date: "2026-01-27"})
		require.NoError(t, err)
		assert.Equal(t, model.EventStatusActive, ev.Status)
		_, err = events.Create(adminCtx, service.EventInput{Name: "training", Points: 30, Status: model.EventStatusUpcoming})
		require.NoError(t, err)

		active, err := events.List(userCtx, model.EventStatusActive)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, ev.ID, active[0].ID)
		_, err = events.List(userCtx, "bogus")
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		done := model.EventStatusCompleted
		updated, err := events.Update(adminCtx, ev.ID, service.EventPatch{Status: &done, Description: strPtr("over")})
		require.NoError(t, err)
		assert.Equal(t, done, updated.Status)
		assert.Equal(t, 10.0, updated.Points)

		got, err := events.Get(userCtx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, "over", *got.Description)

		bad := model.EventStatus("paused")
		_, err = events.Update(adminCtx, ev.ID, service.EventPatch{Status: &bad})
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		require.NoError(t, events.Delete(adminCtx, ev.ID))
		_, err = events.Get(userCtx, ev.ID)
		assert.ErrorIs(t, err, service.ErrEventNotFound)
		assert.ErrorIs(t, events.Delete(adminCtx, ev.ID), service.ErrEventNotFound)
	})
}
