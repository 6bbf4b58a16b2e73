package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "mesto/internal/errors"
	"mesto/internal/service"
)

const msgInvalidCardBody = "Переданы некорректные данные при создании карточки."

// CardHandler handles card endpoints.
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new card handler.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CreateCardRequest represents a new card.
type CreateCardRequest struct {
	Name string `json:"name" validate:"required,min=2,max=30"`
	Link string `json:"link" validate:"required,link"`
}

// ListCards godoc
// @Summary List cards, newest first
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Card
// @Failure 401 {object} errors.ErrorResponse
// @Router /cards [get]
func (h *CardHandler) ListCards(c echo.Context) error {
	cards, err := h.cardService.ListCards(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

// CreateCard godoc
// @Summary Create a card owned by the caller
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCardRequest true "Card data"
// @Success 200 {object} model.Card
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cards [post]
func (h *CardHandler) CreateCard(c echo.Context) error {
	var req CreateCardRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest(msgInvalidCardBody, err)
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(msgInvalidCardBody, err)
	}

	card, err := h.cardService.CreateCard(c.Request().Context(), currentUserID(c), req.Name, req.Link)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

// DeleteCard godoc
// @Summary Delete one of the caller's cards
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} model.Card
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c echo.Context) error {
	card, err := h.cardService.DeleteCard(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

// LikeCard godoc
// @Summary Like a card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} model.Card
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id}/likes [put]
func (h *CardHandler) LikeCard(c echo.Context) error {
	card, err := h.cardService.LikeCard(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

// UnlikeCard godoc
// @Summary Remove the caller's like
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} model.Card
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id}/likes [delete]
func (h *CardHandler) UnlikeCard(c echo.Context) error {
	card, err := h.cardService.UnlikeCard(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}
