package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/service"
)

type MemberHandler struct {
	svc service.MemberService
}

func NewMemberHandler(svc service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

type MemberResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Team      string  `json:"team"`
	Points    float64 `json:"points"`
	Email     *string `json:"email"`
	CreatedAt string  `json:"created_at"`
}

type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
	Total   int              `json:"total"`
}

type memberRequest struct {
	Name  *string `json:"name"`
	Team  *string `json:"team"`
	Email *string `json:"email"`
}

func toMemberResponse(m *model.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Team:      m.Team,
		Points:    m.Points,
		Email:     m.Email,
		CreatedAt: formatTime(m.CreatedAt),
	}
}

func (h *MemberHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), service.MemberFilter{
		Team:   c.QueryParam("team"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return writeError(c, err)
	}
	resp := MemberListResponse{Members: make([]MemberResponse, 0, len(list)), Total: len(list)}
	for i := range list {
		resp.Members = append(resp.Members, toMemberResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *MemberHandler) Get(c echo.Context) error {
	m, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toMemberResponse(m))
}

func (h *MemberHandler) Create(c echo.Context) error {
	var req memberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	in := service.MemberInput{Email: req.Email}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Team != nil {
		in.Team = *req.Team
	}
	m, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toMemberResponse(m))
}

func (h *MemberHandler) Update(c echo.Context) error {
	var req memberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	m, err := h.svc.Update(c.Request().Context(), c.Param("id"), service.MemberPatch{
		Name:  req.Name,
		Team:  req.Team,
		Email: req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toMemberResponse(m))
}

func (h *MemberHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "deleted"})
}
