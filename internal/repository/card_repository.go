package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mesto/internal/model"
)

// ErrNotOwner is returned by Delete when the card belongs to another user.
var ErrNotOwner = errors.New("card belongs to another user")

// CardRepository defines card persistence operations.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	List(ctx context.Context) ([]model.Card, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Card, error)
	AddLike(ctx context.Context, cardID, userID uuid.UUID) (*model.Card, error)
	RemoveLike(ctx context.Context, cardID, userID uuid.UUID) (*model.Card, error)
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

// Create creates a new card.
func (r *cardRepository) Create(ctx context.Context, card *model.Card) error {
	if err := r.db.WithContext(ctx).Omit("LikeRows").Create(card).Error; err != nil {
		return err
	}
	card.SyncLikes()
	return nil
}

// List returns all cards, newest first, with their like sets.
func (r *cardRepository) List(ctx context.Context) ([]model.Card, error) {
	cards := make([]model.Card, 0)
	if err := r.db.WithContext(ctx).Preload("LikeRows").Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// FindByID finds a card by ID.
func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	return findCard(r.db.WithContext(ctx), id)
}

// Delete removes a card owned by ownerID together with its like set and
// returns the card as it was before removal.
func (r *cardRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Card, error) {
	var card *model.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		card, err = findCard(tx, id)
		if err != nil {
			return err
		}
		if card.OwnerID != ownerID {
			return ErrNotOwner
		}
		if err := tx.Where("card_id = ?", id).Delete(&model.CardLike{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Card{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// AddLike puts userID into the card's like set. Adding an existing like is a no-op.
func (r *cardRepository) AddLike(ctx context.Context, cardID, userID uuid.UUID) (*model.Card, error) {
	var card *model.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ?", cardID).First(&model.Card{}).Error; err != nil {
			return err
		}
		like := &model.CardLike{CardID: cardID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
			return err
		}
		var err error
		card, err = findCard(tx, cardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// RemoveLike takes userID out of the card's like set. Removing a missing like is a no-op.
func (r *cardRepository) RemoveLike(ctx context.Context, cardID, userID uuid.UUID) (*model.Card, error) {
	var card *model.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ?", cardID).First(&model.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("card_id = ? AND user_id = ?", cardID, userID).Delete(&model.CardLike{}).Error; err != nil {
			return err
		}
		var err error
		card, err = findCard(tx, cardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func findCard(db *gorm.DB, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := db.Preload("LikeRows", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	}).Where("id = ?", id).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}
