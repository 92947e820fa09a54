package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/service"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type LeaderboardEntryResponse struct {
	Rank int `json:"rank"`
	MemberResponse
}

type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntryResponse `json:"leaderboard"`
}

type TeamStatResponse struct {
	Members     int     `json:"members"`
	TotalPoints float64 `json:"total_points"`
}

type StatisticsResponse struct {
	TotalMembers           int                         `json:"total_members"`
	TotalEvents            int                         `json:"total_events"`
	TotalCheckIns          int                         `json:"total_checkins"`
	TotalPointsDistributed float64                     `json:"total_points_distributed"`
	ActiveEvents           int                         `json:"active_events"`
	TeamStatistics         map[string]TeamStatResponse `json:"team_statistics"`
}

type EnrichedRecordResponse struct {
	CheckInRecordResponse
	EventName  string `json:"event_name"`
	MemberName string `json:"member_name"`
	MemberTeam string `json:"member_team"`
}

type RecordListResponse struct {
	Records []EnrichedRecordResponse `json:"records"`
}

func (h *ReportHandler) Leaderboard(c echo.Context) error {
	limit := service.DefaultLeaderboardLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid limit"))
		}
		limit = n
	}
	entries, err := h.svc.Leaderboard(c.Request().Context(), c.QueryParam("team"), limit)
	if err != nil {
		return writeError(c, err)
	}
	resp := LeaderboardResponse{Leaderboard: make([]LeaderboardEntryResponse, 0, len(entries))}
	for i := range entries {
		resp.Leaderboard = append(resp.Leaderboard, LeaderboardEntryResponse{
			Rank:           entries[i].Rank,
			MemberResponse: toMemberResponse(&entries[i].Member),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) Statistics(c echo.Context) error {
	stats, err := h.svc.Statistics(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	teams := make(map[string]TeamStatResponse, len(stats.Teams))
	for name, ts := range stats.Teams {
		teams[name] = TeamStatResponse{Members: ts.Members, TotalPoints: ts.TotalPoints}
	}
	return c.JSON(http.StatusOK, StatisticsResponse{
		TotalMembers:           stats.TotalMembers,
		TotalEvents:            stats.TotalEvents,
		TotalCheckIns:          stats.TotalCheckIns,
		TotalPointsDistributed: stats.TotalPointsDistributed,
		ActiveEvents:           stats.ActiveEvents,
		TeamStatistics:         teams,
	})
}

func (h *ReportHandler) ListRecords(c echo.Context) error {
	list, err := h.svc.ListRecords(c.Request().Context(), service.RecordFilter{
		EventID:  c.QueryParam("event_id"),
		MemberID: c.QueryParam("member_id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	resp := RecordListResponse{Records: make([]EnrichedRecordResponse, 0, len(list))}
	for i := range list {
		resp.Records = append(resp.Records, EnrichedRecordResponse{
			CheckInRecordResponse: toRecordResponse(&list[i].CheckInRecord),
			EventName:             list[i].EventName,
			MemberName:            list[i].MemberName,
			MemberTeam:            list[i].MemberTeam,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
