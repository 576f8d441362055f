package handlers

import (
	"net/http"
	"strings"

	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ProfileHandler handles the current user's profile requests.
type ProfileHandler struct {
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(userRepo repository.UserRepository, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo, logger: logger}
}

// UpdateProfileRequest represents the self-service profile update payload.
// A password change must carry the current password.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	CurrentPassword *string `json:"current_password"`
	Password        *string `json:"password"`
}

// GetProfile godoc
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUser(c))
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Change display name or password. A password change requires the current password. Role and activation are admin-only and not accepted here.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user := CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "first name cannot be empty")
			return
		}
		user.FirstName = name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "last name cannot be empty")
			return
		}
		user.LastName = name
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "password must be at least 8 characters")
			return
		}
		// OAuth-only accounts have no password to confirm against.
		if user.PasswordHash != "" {
			if req.CurrentPassword == nil ||
				bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.CurrentPassword)) != nil {
				RespondError(c, http.StatusBadRequest, CodeValidationError, "current password is incorrect")
				return
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			RespondServiceError(c, h.logger, err)
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
