package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/service"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

type EventResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Points      float64 `json:"points"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

type eventRequest struct {
	Name        *string            `json:"name"`
	Points      *float64           `json:"points"`
	Date        *string            `json:"date"`
	Status      *model.EventStatus `json:"status"`
	Description *string            `json:"description"`
}

func toEventResponse(e *model.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Points:      e.Points,
		Date:        e.Date,
		Status:      string(e.Status),
		Description: e.Description,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func (h *EventHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), model.EventStatus(c.QueryParam("status")))
	if err != nil {
		return writeError(c, err)
	}
	resp := EventListResponse{Events: make([]EventResponse, 0, len(list))}
	for i := range list {
		resp.Events = append(resp.Events, toEventResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) Get(c echo.Context) error {
	ev, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(ev))
}

func (h *EventHandler) Create(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.Points == nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "points is required"))
	}
	in := service.EventInput{Points: *req.Points, Description: req.Description}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Date != nil {
		in.Date = *req.Date
	}
	if req.Status != nil {
		in.Status = *req.Status
	}
	ev, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toEventResponse(ev))
}

func (h *EventHandler) Update(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	ev, err := h.svc.Update(c.Request().Context(), c.Param("id"), service.EventPatch{
		Name:        req.Name,
		Points:      req.Points,
		Date:        req.Date,
		Status:      req.Status,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(ev))
}

func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "deleted"})
}
