package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/service"
)

type TeamHandler struct {
	svc service.TeamService
}

func NewTeamHandler(svc service.TeamService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

type TeamResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MemberCount *int    `json:"member_count,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type TeamListResponse struct {
	Teams []TeamResponse `json:"teams"`
}

type createTeamRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func toTeamResponse(t *model.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   formatTime(t.CreatedAt),
	}
}

func (h *TeamHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	resp := TeamListResponse{Teams: make([]TeamResponse, 0, len(list))}
	for i := range list {
		tr := toTeamResponse(&list[i].Team)
		count := list[i].MemberCount
		tr.MemberCount = &count
		resp.Teams = append(resp.Teams, tr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TeamHandler) Create(c echo.Context) error {
	var req createTeamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	t, err := h.svc.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toTeamResponse(t))
}
