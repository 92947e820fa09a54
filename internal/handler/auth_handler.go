package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func toUserResponse(id auth.Identity) UserResponse {
	return UserResponse{ID: id.UserID, Username: id.Username, Name: id.Name, Role: string(id.Role)}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	res, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		User:        toUserResponse(res.User),
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	id, err := h.svc.Me(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(id))
}
