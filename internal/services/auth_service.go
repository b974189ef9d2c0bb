package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/apperrors"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

// AuthService owns signup and credential verification. It issues identity
// only; organization context is resolved separately on every request.
type AuthService struct {
	db  database.Database
	jwt *JWTService
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewAuthService(db database.Database, jwt *JWTService) *AuthService {
	return &AuthService{db: db, jwt: jwt}
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.ValidateEmail(email) {
		return nil, apperrors.Validation("invalid email address")
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var existing models.Profile
	err := s.db.DB().WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.Validation("an account with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	profile := &models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}

	if err := s.db.DB().WithContext(ctx).Create(profile).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return profile, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var profile models.Profile
	err := s.db.DB().WithContext(ctx).
		Where("email = ? AND is_active = ?", email, true).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.InvalidCredentials()
		}
		return nil, nil, apperrors.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, nil, apperrors.InvalidCredentials()
	}

	pair, err := s.issueTokens(&profile)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if err := s.db.DB().WithContext(ctx).Model(&profile).
		Update("last_login_at", &now).Error; err != nil {
		utils.LogWarn(ctx, "failed to record last login", utils.LogFields{"profile_id": profile.ID})
	}

	return &profile, pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthenticated()
	}

	var profile models.Profile
	dbErr := s.db.DB().WithContext(ctx).
		Where("id = ? AND is_active = ?", claims.UserID, true).
		First(&profile).Error
	if dbErr != nil {
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated()
		}
		return nil, apperrors.Internal(dbErr)
	}

	return s.issueTokens(&profile)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.DB().WithContext(ctx).
		Where("id = ? AND is_active = ?", userID, true).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated()
		}
		return nil, apperrors.Internal(err)
	}
	return &profile, nil
}

func (s *AuthService) issueTokens(profile *models.Profile) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(profile.ID, profile.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(profile.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
