package service

import (
	"context"
	"errors"
	"testing"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/alicebob/miniredis/v2"
)

func setupTestAuthService(t *testing.T) (*authService, *miniredis.Miniredis, *mockUserRepository) {
	t.Helper()

	redisClient, mr := setupTestRedis(t)
	jwtService := NewJWTService(testSecret, testAccessExpiry, testRefreshExpiry)
	mockRepo := &mockUserRepository{}

	service := NewAuthService(mockRepo, jwtService, redisClient).(*authService)
	return service, mr, mockRepo
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	return &models.User{
		ID:           1,
		Username:     "anna.berzina",
		Email:        "anna.berzina@example.com",
		PasswordHash: hashPassword(t, password),
		Role:         models.RoleEmployee,
		IsActive:     true,
	}
}

// =============================================================================
// Login Tests
// =============================================================================

func TestLogin_Success(t *testing.T) {
	service, mr, mockRepo := setupTestAuthService(t)
	defer mr.Close()

	user := activeUser(t, "testpassword")
	mockRepo.findByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return user, nil
	}

	result, err := service.Login(context.Background(), "anna.berzina", "testpassword")

	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.AccessToken == "" {
		t.Error("Login() should return access token")
	}
	if result.RefreshToken == "" {
		t.Error("Login() should return refresh token")
	}
	if result.Role != models.RoleEmployee {
		t.Errorf("Login() Role = %q, want %q", result.Role, models.RoleEmployee)
	}
	if user.LastLogin == nil {
		t.Error("Login() should stamp LastLogin")
	}

	// Verify refresh token was stored in Redis
	stored, err := mr.Get("refresh_token:1")
	if err != nil || stored != result.RefreshToken {
		t.Error("Login() should store refresh token in Redis")
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	service, mr, mockRepo := setupTestAuthService(t)
	defer mr.Close()

	mockRepo.findByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return nil, nil
	}

	_, err := service.Login(context.Background(), "nonexistent", "password")

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	service, mr, mockRepo := setupTestAuthService(t)
	defer mr.Close()

	user := activeUser(t, "correctpassword")
	mockRepo.findByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return user, nil
	}

	_, err := service.Login(context.Background(), "anna.berzina", "wrongpassword")

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestLogin_OAuthOnlyAccount(t *testing.T) {
	service, mr, mockRepo := setupTestAuthService(t)
	defer mr.Close()

	user := activeUser(t, "whatever")
	user.PasswordHash = ""
	mockRepo.findByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return user, nil
	}

	_, err := service.Login(context.Background(), "anna.berzina", "whatever")

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestLogin_PendingAccount(t *testing.T) {
	service, mr, mockRepo := setupTestAuthService(t)
	defer mr.Close()

	user := activeUser(t, "testpassword")
	user.IsActive = false
	mockRepo.findByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return user, nil
	}

	_, err := service.Login(context.Background(), "anna.berzina", "testpassword")

	if !errors.Is(err, ErrAccountPending) {
		t.Errorf("Login() error = %v, want %v", err, ErrAccountPending)
	}
}

// =============================================================================
// Refresh Tests
// =============================================================================

func TestRefreshToken_Success(t *testing.T) {
	service, mr, mockRepo := setupTestAuthService(t)
	defer mr.Close()

	user := activeUser(t, "testpassword")
	mockRepo.findByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return user, nil
	}
	mockRepo.findByIDFunc = func(ctx context.Context, id int64) (*models.User, error) {
		return user, nil
	}

	login, err := service.Login(context.Background(), "anna.berzina", "testpassword")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	result, err := service.RefreshToken(context.Background(), login.RefreshToken)

	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if result.AccessToken == "" {
		t.Error("RefreshToken() should return a new access token")
	}
}

func TestRefreshToken_NotStored(t *testing.T) {
	service, mr, _ := setupTestAuthService(t)
	defer mr.Close()

	jwtService := NewJWTService(testSecret, testAccessExpiry, testRefreshExpiry)
	token, _ := jwtService.GenerateRefreshToken(1, "anna.berzina", models.RoleEmployee)

	_, err := service.RefreshToken(context.Background(), token)

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("RefreshToken() error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestRefreshToken_Garbage(t *testing.T) {
	service, mr, _ := setupTestAuthService(t)
	defer mr.Close()

	_, err := service.RefreshToken(context.Background(), "not-a-jwt")

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("RefreshToken() error = %v, want %v", err, ErrInvalidCredentials)
	}
}

// =============================================================================
// Logout Tests
// =============================================================================

func TestLogout_RemovesStoredToken(t *testing.T) {
	service, mr, mockRepo := setupTestAuthService(t)
	defer mr.Close()

	user := activeUser(t, "testpassword")
	mockRepo.findByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return user, nil
	}

	if _, err := service.Login(context.Background(), "anna.berzina", "testpassword"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := service.Logout(context.Background(), 1); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if mr.Exists("refresh_token:1") {
		t.Error("Logout() should delete the stored refresh token")
	}
}
