package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-admin/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentials = "invalid username or password"

// UserSummary is the user block returned with a login.
type UserSummary struct {
	ID        uint     `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	IsStaff   bool     `json:"is_staff"`
	Roles     []string `json:"roles"`
}

func NewUserSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		Roles:     u.RoleNames(),
	}
}

type LoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	User         UserSummary `json:"user"`
}

type RefreshResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AuthService struct {
	db        *gorm.DB
	jwt       *JWTService
	blacklist TokenBlacklist
}

func NewAuthService(db *gorm.DB, jwt *JWTService, blacklist TokenBlacklist) *AuthService {
	return &AuthService{db: db, jwt: jwt, blacklist: blacklist}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles", preloadRoles).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, Unauthorized(invalidCredentials)
	}
	if !user.IsActive {
		return nil, Unauthorized("user account is disabled")
	}

	access, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.Email, user.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwt.AccessExpiration().Seconds()),
		User:         NewUserSummary(&user),
	}, nil
}

// Refresh issues a new access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenInvalid("invalid refresh token", err)
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, TokenInvalid("invalid refresh token", ErrTokenRevoked)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, TokenInvalid("invalid refresh token", err)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, Unauthorized("user account is disabled")
	}

	access, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.Email, user.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &RefreshResult{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwt.AccessExpiration().Seconds()),
	}, nil
}

// Logout revokes refreshToken for the rest of its lifetime. The token must
// belong to userID.
func (s *AuthService) Logout(ctx context.Context, userID uint, refreshToken string) error {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return TokenInvalid("invalid refresh token", err)
	}
	if claims.UserID != userID {
		return TokenInvalid("invalid refresh token", ErrInvalidToken)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		return err
	}
	return nil
}

// Me reloads the user with roles for the current-user endpoint.
func (s *AuthService) Me(ctx context.Context, userID uint) (*UserSummary, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Roles", preloadRoles).First(&user, userID).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	summary := NewUserSummary(&user)
	return &summary, nil
}
