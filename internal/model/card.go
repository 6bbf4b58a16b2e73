package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card represents a photo post published by a user.
type Card struct {
	ID        uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string      `json:"name" gorm:"size:30;not null" validate:"required,min=2,max=30"`
	Link      string      `json:"link" gorm:"size:2048;not null" validate:"required,link"`
	OwnerID   uuid.UUID   `json:"owner" gorm:"type:char(36);not null;index" validate:"required"`
	Likes     []uuid.UUID `json:"likes" gorm:"-"`
	CreatedAt time.Time   `json:"createdAt" gorm:"index"`

	// Relations
	LikeRows []CardLike `json:"-" gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
}

// CardLike is one entry of a card's like set. The composite primary key
// keeps a user from liking the same card twice.
type CardLike struct {
	CardID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey;index"`
	CreatedAt time.Time
}

// BeforeCreate sets UUID before creating the record.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// AfterFind flattens the preloaded like rows into the Likes set.
func (c *Card) AfterFind(tx *gorm.DB) error {
	c.SyncLikes()
	return nil
}

// SyncLikes rebuilds Likes from LikeRows. Likes is never nil so it
// serializes as an empty array.
func (c *Card) SyncLikes() {
	likes := make([]uuid.UUID, 0, len(c.LikeRows))
	for _, row := range c.LikeRows {
		likes = append(likes, row.UserID)
	}
	c.Likes = likes
}

// LikedBy reports whether userID is in the like set.
func (c *Card) LikedBy(userID uuid.UUID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
