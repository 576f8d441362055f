package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/handlers"
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/gin-gonic/gin"
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id int64) (*models.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return nil, nil
}

func (m *mockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error { return nil }

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error { return nil }

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) { return nil, nil }

func (m *mockUserRepository) ListByRole(ctx context.Context, role string, activeOnly bool) ([]*models.User, error) {
	return nil, nil
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupAuthRouter(t *testing.T, jwtService service.JWTService, userRepo *mockUserRepository, requiredRole string) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("", Auth(jwtService, userRepo))
	if requiredRole != "" {
		group = group.Group("", RequireRole(requiredRole))
	}
	group.GET("/protected", func(c *gin.Context) {
		user := handlers.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return router
}

func issueToken(t *testing.T, jwtService service.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// =============================================================================
// Auth Middleware Tests
// =============================================================================

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	user := &models.User{ID: 7, Username: "anna.berzina", Role: models.RoleEmployee, IsActive: true}
	userRepo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return user, nil
		},
	}
	router := setupAuthRouter(t, jwtService, userRepo, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, user))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	router := setupAuthRouter(t, jwtService, &mockUserRepository{}, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	router := setupAuthRouter(t, jwtService, &mockUserRepository{}, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	otherService := service.NewJWTService("other-secret", 15*time.Minute, time.Hour)
	user := &models.User{ID: 7, Username: "anna.berzina", Role: models.RoleEmployee, IsActive: true}
	router := setupAuthRouter(t, jwtService, &mockUserRepository{}, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, otherService, user))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InactiveUser(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	user := &models.User{ID: 7, Username: "anna.berzina", Role: models.RoleEmployee, IsActive: false}
	userRepo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return user, nil
		},
	}
	router := setupAuthRouter(t, jwtService, userRepo, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, user))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	user := &models.User{ID: 7, Username: "anna.berzina", Role: models.RoleEmployee, IsActive: true}
	router := setupAuthRouter(t, jwtService, &mockUserRepository{}, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, user))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d for token of deleted account", w.Code, http.StatusUnauthorized)
	}
}

// =============================================================================
// RequireRole Middleware Tests
// =============================================================================

func TestRequireRole_AllowsEqualAndHigher(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)

	tests := []struct {
		name     string
		role     string
		required string
		want     int
	}{
		{"manager accessing manager route", models.RoleManager, models.RoleManager, http.StatusOK},
		{"admin accessing manager route", models.RoleAdmin, models.RoleManager, http.StatusOK},
		{"employee accessing manager route", models.RoleEmployee, models.RoleManager, http.StatusForbidden},
		{"hr accessing admin route", models.RoleHR, models.RoleAdmin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{ID: 7, Username: "anna.berzina", Role: tt.role, IsActive: true}
			userRepo := &mockUserRepository{
				findByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
					return user, nil
				},
			}
			router := setupAuthRouter(t, jwtService, userRepo, tt.required)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, user))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
