package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile defaults applied when a field is omitted.
const (
	DefaultName   = "Жак-Ив Кусто"
	DefaultAbout  = "Исследователь"
	DefaultAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

// User represents a registered Mesto user.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:30;not null" validate:"min=2,max=30"`
	About     string    `json:"about" gorm:"size:200;not null" validate:"min=2,max=200"`
	Avatar    string    `json:"avatar" gorm:"size:2048;not null" validate:"link"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"column:password;size:255;not null"` // bcrypt hash, never exposed
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// ApplyDefaults fills omitted profile fields.
func (u *User) ApplyDefaults() {
	if u.Name == "" {
		u.Name = DefaultName
	}
	if u.About == "" {
		u.About = DefaultAbout
	}
	if u.Avatar == "" {
		u.Avatar = DefaultAvatar
	}
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
