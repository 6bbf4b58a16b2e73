package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "mesto/internal/errors"
	"mesto/internal/model"
	"mesto/internal/repository"
)

const (
	msgInvalidCard    = "Переданы некорректные данные при создании карточки."
	msgCardNotFound   = "Карточка с указанным _id не найдена."
	msgInvalidCardID  = "Передан невалидный идентификатор карточки."
	msgForeignCard    = "Нельзя удалить чужую карточку."
	msgInvalidOwnerID = "Был передан невалидный идентификатор пользователя."
)

// CardService handles card operations.
type CardService interface {
	ListCards(ctx context.Context) ([]model.Card, error)
	CreateCard(ctx context.Context, ownerID, name, link string) (*model.Card, error)
	DeleteCard(ctx context.Context, cardID, userID string) (*model.Card, error)
	LikeCard(ctx context.Context, cardID, userID string) (*model.Card, error)
	UnlikeCard(ctx context.Context, cardID, userID string) (*model.Card, error)
}

type cardService struct {
	cardRepo repository.CardRepository
	validate *validator.Validate
}

// NewCardService creates a new card service.
func NewCardService(cardRepo repository.CardRepository, validate *validator.Validate) CardService {
	return &cardService{
		cardRepo: cardRepo,
		validate: validate,
	}
}

func (s *cardService) ListCards(ctx context.Context) ([]model.Card, error) {
	cards, err := s.cardRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list cards: %w", err))
	}
	return cards, nil
}

func (s *cardService) CreateCard(ctx context.Context, ownerID, name, link string) (*model.Card, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, apperrors.BadRequest(msgInvalidOwnerID, err)
	}

	card := &model.Card{
		Name:    name,
		Link:    link,
		OwnerID: owner,
	}
	if err := s.validate.Struct(card); err != nil {
		return nil, apperrors.BadRequest(msgInvalidCard, err)
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create card: %w", err))
	}
	return card, nil
}

// DeleteCard removes a card owned by userID and returns it.
func (s *cardService) DeleteCard(ctx context.Context, cardID, userID string) (*model.Card, error) {
	id, user, err := parseCardAndUser(cardID, userID)
	if err != nil {
		return nil, err
	}

	card, err := s.cardRepo.Delete(ctx, id, user)
	if errors.Is(err, repository.ErrNotOwner) {
		return nil, apperrors.Forbidden(msgForeignCard, nil)
	}
	if err != nil {
		return nil, cardLookupError(err)
	}
	return card, nil
}

func (s *cardService) LikeCard(ctx context.Context, cardID, userID string) (*model.Card, error) {
	id, user, err := parseCardAndUser(cardID, userID)
	if err != nil {
		return nil, err
	}

	card, err := s.cardRepo.AddLike(ctx, id, user)
	if err != nil {
		return nil, cardLookupError(err)
	}
	return card, nil
}

func (s *cardService) UnlikeCard(ctx context.Context, cardID, userID string) (*model.Card, error) {
	id, user, err := parseCardAndUser(cardID, userID)
	if err != nil {
		return nil, err
	}

	card, err := s.cardRepo.RemoveLike(ctx, id, user)
	if err != nil {
		return nil, cardLookupError(err)
	}
	return card, nil
}

func parseCardAndUser(cardID, userID string) (uuid.UUID, uuid.UUID, error) {
	id, err := uuid.Parse(cardID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperrors.BadRequest(msgInvalidCardID, err)
	}
	user, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperrors.BadRequest(msgInvalidID, err)
	}
	return id, user, nil
}

func cardLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(msgCardNotFound, nil)
	}
	return apperrors.Internal(err)
}
