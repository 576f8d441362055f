package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// AuthService defines authentication operations. TokensFor is the single
// token-issuing point shared with the OAuth flow.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	Logout(ctx context.Context, userID int64) error
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error)
	TokensFor(ctx context.Context, userID int64, username, role string) (*LoginResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	redis      *redis.Client
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, redisClient *redis.Client) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redisClient,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash == "" {
		// OAuth-only account, no local credential to verify.
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountPending
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user.ID, user.Username, user.Role)
}

func (s *authService) Logout(ctx context.Context, userID int64) error {
	s.redis.Del(ctx, refreshTokenKey(userID))
	return nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	storedToken, err := s.redis.Get(ctx, refreshTokenKey(claims.UserID)).Result()
	if err != nil || storedToken != refreshToken {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountPending
	}

	return s.issueTokens(ctx, user.ID, user.Username, user.Role)
}

// TokensFor issues an access/refresh token pair for an already
// authenticated user and stores the refresh token in Redis.
func (s *authService) TokensFor(ctx context.Context, userID int64, username, role string) (*LoginResponse, error) {
	return s.issueTokens(ctx, userID, username, role)
}

func (s *authService) issueTokens(ctx context.Context, userID int64, username, role string) (*LoginResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(userID, username, role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(userID, username, role)
	if err != nil {
		return nil, err
	}

	s.redis.Set(ctx, refreshTokenKey(userID), refreshToken, s.jwtService.GetRefreshExpiry())

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.GetAccessExpiry().Seconds()),
		UserID:       userID,
		Username:     username,
		Role:         role,
	}, nil
}

func refreshTokenKey(userID int64) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}
