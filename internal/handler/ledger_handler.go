package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/service"
)

type LedgerHandler struct {
	svc service.LedgerService
}

func NewLedgerHandler(svc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

type checkInRequest struct {
	EventID   string   `json:"event_id"`
	MemberIDs []string `json:"member_ids"`
}

type CheckInRecordResponse struct {
	ID            string  `json:"id"`
	EventID       string  `json:"event_id"`
	MemberID      string  `json:"member_id"`
	MemberName    *string `json:"member_name,omitempty"`
	PointsAwarded float64 `json:"points_awarded"`
	CheckedInAt   string  `json:"checked_in_at"`
}

type CheckInResponse struct {
	Success        bool                    `json:"success"`
	CheckedInCount int                     `json:"checked_in_count"`
	FailedCount    int                     `json:"failed_count"`
	TotalPoints    float64                 `json:"total_points_awarded"`
	Records        []CheckInRecordResponse `json:"records"`
}

type BatchCheckInResponse struct {
	Success            bool                    `json:"success"`
	EventName          string                  `json:"event_name"`
	PointsPerPerson    float64                 `json:"points_per_person"`
	SuccessCount       int                     `json:"success_count"`
	FailedCount        int                     `json:"failed_count"`
	TotalPointsAwarded float64                 `json:"total_points_awarded"`
	Records            []CheckInRecordResponse `json:"records"`
}

type RecordDeletedResponse struct {
	Message        string  `json:"message"`
	PointsDeducted float64 `json:"points_deducted"`
	MemberID       string  `json:"member_id"`
}

type MemberPointsClearedResponse struct {
	Message        string  `json:"message"`
	PointsCleared  float64 `json:"points_cleared"`
	RecordsDeleted int64   `json:"records_deleted"`
}

type PointsResetResponse struct {
	Message            string  `json:"message"`
	MembersAffected    int     `json:"members_affected"`
	TotalPointsCleared float64 `json:"total_points_cleared"`
	RecordsCleared     int64   `json:"records_cleared"`
}

type SystemResetResponse struct {
	Message        string `json:"message"`
	MembersDeleted int64  `json:"members_deleted"`
	TeamsDeleted   int64  `json:"teams_deleted"`
	EventsDeleted  int64  `json:"events_deleted"`
	RecordsDeleted int64  `json:"records_deleted"`
}

func toRecordResponse(r *model.CheckInRecord) CheckInRecordResponse {
	return CheckInRecordResponse{
		ID:            r.ID,
		EventID:       r.EventID,
		MemberID:      r.MemberID,
		PointsAwarded: r.PointsAwarded,
		CheckedInAt:   formatTime(r.CheckedInAt),
	}
}

func (h *LedgerHandler) CheckIn(c echo.Context) error {
	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.EventID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "event_id is required"))
	}
	res, err := h.svc.CheckIn(c.Request().Context(), req.EventID, req.MemberIDs)
	if err != nil {
		return writeError(c, err)
	}
	resp := CheckInResponse{
		Success:        res.Success,
		CheckedInCount: res.CheckedInCount,
		FailedCount:    res.FailedCount,
		TotalPoints:    res.TotalPoints,
		Records:        make([]CheckInRecordResponse, 0, len(res.Records)),
	}
	for i := range res.Records {
		resp.Records = append(resp.Records, toRecordResponse(&res.Records[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) BatchCheckIn(c echo.Context) error {
	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.EventID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "event_id is required"))
	}
	res, err := h.svc.BatchCheckIn(c.Request().Context(), req.EventID, req.MemberIDs)
	if err != nil {
		return writeError(c, err)
	}
	resp := BatchCheckInResponse{
		Success:            res.Success,
		EventName:          res.EventName,
		PointsPerPerson:    res.PointsPerPerson,
		SuccessCount:       res.SuccessCount,
		FailedCount:        res.FailedCount,
		TotalPointsAwarded: res.TotalPointsAwarded,
		Records:            make([]CheckInRecordResponse, 0, len(res.Records)),
	}
	for i := range res.Records {
		rr := toRecordResponse(&res.Records[i].CheckInRecord)
		name := res.Records[i].MemberName
		rr.MemberName = &name
		resp.Records = append(resp.Records, rr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) DeleteRecord(c echo.Context) error {
	res, err := h.svc.DeleteRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, RecordDeletedResponse{
		Message:        "deleted",
		PointsDeducted: res.PointsDeducted,
		MemberID:       res.MemberID,
	})
}

func (h *LedgerHandler) ClearMemberPoints(c echo.Context) error {
	res, err := h.svc.ClearMemberPoints(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MemberPointsClearedResponse{
		Message:        "points cleared",
		PointsCleared:  res.PointsCleared,
		RecordsDeleted: res.RecordsDeleted,
	})
}

func (h *LedgerHandler) ResetAllPoints(c echo.Context) error {
	res, err := h.svc.ResetAllPoints(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, PointsResetResponse{
		Message:            "all points cleared",
		MembersAffected:    res.MembersAffected,
		TotalPointsCleared: res.TotalPointsCleared,
		RecordsCleared:     res.RecordsCleared,
	})
}

func (h *LedgerHandler) ResetSystem(c echo.Context) error {
	res, err := h.svc.ResetSystem(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SystemResetResponse{
		Message:        "all data cleared",
		MembersDeleted: res.MembersDeleted,
		TeamsDeleted:   res.TeamsDeleted,
		EventsDeleted:  res.EventsDeleted,
		RecordsDeleted: res.RecordsDeleted,
	})
}
