package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "mesto/internal/errors"
	"mesto/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest carries the editable profile fields. A nil field resets to its default.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	About *string `json:"about"`
}

// UpdateAvatarRequest carries the new avatar link.
type UpdateAvatarRequest struct {
	Avatar *string `json:"avatar"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetCurrentUser godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user, err := h.svc.GetCurrentUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update name and about
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest(msgBadRequest, err)
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), currentUserID(c), req.Name, req.About)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateAvatar godoc
// @Summary Update avatar
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateAvatarRequest true "Avatar link"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	var req UpdateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest(msgBadRequest, err)
	}

	user, err := h.svc.UpdateAvatar(c.Request().Context(), currentUserID(c), req.Avatar)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
