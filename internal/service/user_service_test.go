package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mesto/internal/cache"
	apperrors "mesto/internal/errors"
	"mesto/internal/model"
	"mesto/internal/validation"
)

func newUserService(t *testing.T, repo *MockUserRepository) (UserService, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	c := cache.New(s.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return NewUserService(repo, c, validation.New()), s
}

func strPtr(s string) *string {
	return &s
}

func TestUserService_ListUsers(t *testing.T) {
	repo := new(MockUserRepository)
	service, _ := newUserService(t, repo)

	repo.On("List", mock.Anything).Return([]model.User{{Name: "Жак"}}, nil).Once()
	users, err := service.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)

	repo.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()
	_, err = service.ListUsers(context.Background())
	assert.True(t, apperrors.IsKind(err, apperrors.KindInternal))
}

func TestUserService_GetCurrentUser(t *testing.T) {
	t.Run("loads from repository then serves from cache", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, s := newUserService(t, repo)
		id := uuid.New()

		repo.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, Name: "Жак", Email: "a@b.ru"}, nil).Once()

		first, err := service.GetCurrentUser(context.Background(), id.String())
		require.NoError(t, err)
		assert.Equal(t, "Жак", first.Name)
		assert.True(t, s.Exists("user:"+id.String()))

		second, err := service.GetCurrentUser(context.Background(), id.String())
		require.NoError(t, err)
		assert.Equal(t, id, second.ID)
		assert.Equal(t, "a@b.ru", second.Email)

		repo.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newUserService(t, repo)
		id := uuid.New()

		repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetCurrentUser(context.Background(), id.String())
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newUserService(t, repo)

		_, err := service.GetCurrentUser(context.Background(), "123")
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name         string
		userID       string
		newName      *string
		about        *string
		setupMock    func(*MockUserRepository)
		expectedKind *apperrors.Kind
	}{
		{
			name:    "updates both fields",
			userID:  id.String(),
			newName: strPtr("Марина"),
			about:   strPtr("Фотограф"),
			setupMock: func(m *MockUserRepository) {
				m.On("UpdateFields", mock.Anything, id, map[string]interface{}{
					"name":  "Марина",
					"about": "Фотограф",
				}).Return(&model.User{ID: id, Name: "Марина", About: "Фотограф"}, nil)
			},
		},
		{
			name:    "omitted about resets to default",
			userID:  id.String(),
			newName: strPtr("Марина"),
			setupMock: func(m *MockUserRepository) {
				m.On("UpdateFields", mock.Anything, id, map[string]interface{}{
					"name":  "Марина",
					"about": model.DefaultAbout,
				}).Return(&model.User{ID: id, Name: "Марина", About: model.DefaultAbout}, nil)
			},
		},
		{
			name:         "name too short",
			userID:       id.String(),
			newName:      strPtr("М"),
			setupMock:    func(m *MockUserRepository) {},
			expectedKind: kindPtr(apperrors.KindBadRequest),
		},
		{
			name:         "about too short",
			userID:       id.String(),
			about:        strPtr("Ф"),
			setupMock:    func(m *MockUserRepository) {},
			expectedKind: kindPtr(apperrors.KindBadRequest),
		},
		{
			name:         "malformed id",
			userID:       "not-a-uuid",
			newName:      strPtr("Марина"),
			setupMock:    func(m *MockUserRepository) {},
			expectedKind: kindPtr(apperrors.KindBadRequest),
		},
		{
			name:    "user vanished",
			userID:  id.String(),
			newName: strPtr("Марина"),
			setupMock: func(m *MockUserRepository) {
				m.On("UpdateFields", mock.Anything, id, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedKind: kindPtr(apperrors.KindNotFound),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			service, _ := newUserService(t, repo)

			user, err := service.UpdateProfile(context.Background(), tt.userID, tt.newName, tt.about)

			if tt.expectedKind != nil {
				assert.True(t, apperrors.IsKind(err, *tt.expectedKind), "got %v", err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, user.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateProfileInvalidatesCache(t *testing.T) {
	repo := new(MockUserRepository)
	service, s := newUserService(t, repo)
	id := uuid.New()

	require.NoError(t, s.Set("user:"+id.String(), `{"name":"old"}`))
	repo.On("UpdateFields", mock.Anything, id, mock.Anything).Return(&model.User{ID: id, Name: "Марина"}, nil)

	_, err := service.UpdateProfile(context.Background(), id.String(), strPtr("Марина"), nil)
	require.NoError(t, err)
	assert.False(t, s.Exists("user:"+id.String()))
}

func TestUserService_UpdateAvatar(t *testing.T) {
	id := uuid.New()

	t.Run("valid link", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newUserService(t, repo)
		repo.On("UpdateFields", mock.Anything, id, map[string]interface{}{"avatar": "https://example.com/a.png"}).
			Return(&model.User{ID: id, Avatar: "https://example.com/a.png"}, nil)

		user, err := service.UpdateAvatar(context.Background(), id.String(), strPtr("https://example.com/a.png"))
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a.png", user.Avatar)
	})

	t.Run("omitted avatar resets to default", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newUserService(t, repo)
		repo.On("UpdateFields", mock.Anything, id, map[string]interface{}{"avatar": model.DefaultAvatar}).
			Return(&model.User{ID: id, Avatar: model.DefaultAvatar}, nil)

		user, err := service.UpdateAvatar(context.Background(), id.String(), nil)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultAvatar, user.Avatar)
	})

	t.Run("invalid link", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newUserService(t, repo)

		_, err := service.UpdateAvatar(context.Background(), id.String(), strPtr("ftp://example.com/a.png"))
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})
}
