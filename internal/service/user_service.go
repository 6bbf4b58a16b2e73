package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mesto/internal/cache"
	apperrors "mesto/internal/errors"
	"mesto/internal/model"
	"mesto/internal/repository"
)

const userCacheTTL = 5 * time.Minute

const (
	msgUserNotFound     = "Пользователь не найден."
	msgUserIDNotFound   = "Пользователь по указанному _id не найден."
	msgInvalidID        = "Был передан невалидный идентификатор _id."
	msgInvalidProfile   = "Переданы некорректные данные при обновлении профиля."
	msgInvalidAvatarURL = "Переданы некорректные данные при обновлении аватара пользователя."
)

// UserService exposes user profile operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetCurrentUser(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, name, about *string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID string, avatar *string) (*model.User, error)
}

type userService struct {
	repo     repository.UserRepository
	cache    *cache.Client
	validate *validator.Validate
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, validate *validator.Validate) UserService {
	return &userService{repo: repo, cache: cache, validate: validate}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

// GetCurrentUser reports every lookup failure, malformed ids included, as NotFound.
func (s *userService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NotFound(msgUserNotFound, err)
	}

	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound(msgUserNotFound, err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, name, about *string) (*model.User, error) {
	patch := model.User{Name: model.DefaultName, About: model.DefaultAbout}
	if name != nil {
		patch.Name = *name
	}
	if about != nil {
		patch.About = *about
	}

	if err := s.validate.StructPartial(patch, "Name", "About"); err != nil {
		return nil, apperrors.BadRequest(msgInvalidProfile, err)
	}

	return s.update(ctx, userID, map[string]interface{}{
		"name":  patch.Name,
		"about": patch.About,
	})
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, avatar *string) (*model.User, error) {
	patch := model.User{Avatar: model.DefaultAvatar}
	if avatar != nil {
		patch.Avatar = *avatar
	}

	if err := s.validate.StructPartial(patch, "Avatar"); err != nil {
		return nil, apperrors.BadRequest(msgInvalidAvatarURL, err)
	}

	return s.update(ctx, userID, map[string]interface{}{
		"avatar": patch.Avatar,
	})
}

func (s *userService) update(ctx context.Context, userID string, fields map[string]interface{}) (*model.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.BadRequest(msgInvalidID, err)
	}

	user, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(msgUserIDNotFound, nil)
		}
		return nil, apperrors.Internal(fmt.Errorf("update user: %w", err))
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}
