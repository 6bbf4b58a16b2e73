package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mesto/internal/auth"
	apperrors "mesto/internal/errors"
	"mesto/internal/model"
	"mesto/internal/repository"
)

const bcryptCost = 10

const (
	msgCredentialsMissing = "Email или пароль отсутствует."
	msgEmailTaken         = "Пользователь с таким Email уже зарегистрирован."
	msgEmailNotFound      = "Пользователь по указанному Email не найден."
	msgBadCredentials     = "Email или пароль некорректный."
	msgInvalidSignup      = "Переданы некорректные данные при создании пользователя."
)

// RegisterInput carries the sign-up fields. Empty profile fields take the defaults.
type RegisterInput struct {
	Name     string
	About    string
	Avatar   string
	Email    string
	Password string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	validate   *validator.Validate
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	validate *validator.Validate,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		validate:   validate,
	}
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperrors.BadRequest(msgCredentialsMissing, nil)
	}

	user := &model.User{
		Name:   in.Name,
		About:  in.About,
		Avatar: in.Avatar,
		Email:  in.Email,
	}
	user.ApplyDefaults()
	if err := s.validate.Struct(user); err != nil {
		return nil, apperrors.BadRequest(msgInvalidSignup, err)
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict(msgEmailTaken, nil)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(fmt.Errorf("check user existence: %w", err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict(msgEmailTaken, err)
		}
		return nil, apperrors.Internal(fmt.Errorf("create user: %w", err))
	}

	user.Password = ""
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperrors.BadRequest(msgCredentialsMissing, nil)
	}

	user, err := s.userRepo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound(msgEmailNotFound, nil)
		}
		return "", apperrors.Internal(fmt.Errorf("find user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", apperrors.Unauthorized(msgBadCredentials, nil)
		}
		return "", apperrors.Internal(fmt.Errorf("compare password: %w", err))
	}

	token, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("generate token: %w", err))
	}
	return token, nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(apperrors.MsgAuthRequired, err)
	}

	revoked, err := s.tokenStore.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("check revocation: %w", err))
	}
	if revoked {
		return nil, apperrors.Unauthorized(apperrors.MsgAuthRequired, nil)
	}
	return claims, nil
}

// Logout revokes the token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.Unauthorized(apperrors.MsgAuthRequired, nil)
	}

	ttl := s.jwtService.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.tokenStore.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return apperrors.Internal(fmt.Errorf("revoke token: %w", err))
	}
	return nil
}
