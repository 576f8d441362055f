package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler handles user administration and reference data requests.
type AdminHandler struct {
	adminService service.AdminService
	logger       *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(adminService service.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, logger: logger}
}

// CreateUserRequest represents an administrative user creation payload.
type CreateUserRequest struct {
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	Email        string  `json:"email" binding:"required"`
	Password     string  `json:"password" binding:"required"`
	Role         string  `json:"role"`
	DepartmentID *int64  `json:"department_id"`
	HireDate     *string `json:"hire_date"`
}

// UpdateUserRequest represents an administrative user update payload.
type UpdateUserRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	Role         *string `json:"role"`
	DepartmentID *int64  `json:"department_id"`
	HireDate     *string `json:"hire_date"`
	IsActive     *bool   `json:"is_active"`
}

// CreateDepartmentRequest represents the department creation payload.
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ManagerID   *int64 `json:"manager_id"`
}

// CreateProjectRequest represents the project creation payload.
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ClientName  string  `json:"client_name"`
	ProjectCode string  `json:"project_code"`
	HourlyRate  float64 `json:"hourly_rate"`
	IsBillable  *bool   `json:"is_billable"`
}

// CreateGeofenceRequest represents the geofence creation payload.
type CreateGeofenceRequest struct {
	Name      string  `json:"name" binding:"required"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Radius    float64 `json:"radius" binding:"required"`
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context(), CurrentUser(c))
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create a user
// @Description Provision an account directly; it is active and verified immediately. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "Account details"
// @Success 201 {object} models.User
// @Failure 403 {object} ErrorResponse
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	create := service.CreateUserRequest{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
	}
	if req.HireDate != nil {
		hireDate, err := time.Parse("2006-01-02", *req.HireDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "hire_date must be YYYY-MM-DD")
			return
		}
		create.HireDate = &hireDate
	}

	user, err := h.adminService.CreateUser(c.Request.Context(), CurrentUser(c), create)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary Get a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "invalid user id")
		return
	}

	user, err := h.adminService.GetUser(c.Request.Context(), CurrentUser(c), userID)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Description HR may edit profile fields; role and activation changes require admin.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 403 {object} ErrorResponse
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	patch := service.UserPatch{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		IsActive:     req.IsActive,
	}
	if req.HireDate != nil {
		hireDate, err := time.Parse("2006-01-02", *req.HireDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "hire_date must be YYYY-MM-DD")
			return
		}
		patch.HireDate = &hireDate
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), CurrentUser(c), userID, patch)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeactivateUser godoc
// @Summary Deactivate a user
// @Description Disable the account; history stays attributable. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "invalid user id")
		return
	}

	if err := h.adminService.DeactivateUser(c.Request.Context(), CurrentUser(c), userID); err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deactivated"})
}

// ListEmployees godoc
// @Summary List active employees
// @Description Active accounts with the employee role, for team views. Manager and above.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} ErrorResponse
// @Router /admin/employees [get]
func (h *AdminHandler) ListEmployees(c *gin.Context) {
	employees, err := h.adminService.ListEmployees(c.Request.Context(), CurrentUser(c))
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// ListDepartments godoc
// @Summary List active departments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Department
// @Router /admin/departments [get]
func (h *AdminHandler) ListDepartments(c *gin.Context) {
	departments, err := h.adminService.ListDepartments(c.Request.Context())
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// CreateDepartment godoc
// @Summary Create a department
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDepartmentRequest true "Department details"
// @Success 201 {object} models.Department
// @Failure 403 {object} ErrorResponse
// @Router /admin/departments [post]
func (h *AdminHandler) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	department := &models.Department{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
		IsActive:    true,
	}
	if err := h.adminService.CreateDepartment(c.Request.Context(), CurrentUser(c), department); err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, department)
}

// ListProjects godoc
// @Summary List projects
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Project
// @Router /admin/projects [get]
func (h *AdminHandler) ListProjects(c *gin.Context) {
	projects, err := h.adminService.ListProjects(c.Request.Context())
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Create a project
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project details"
// @Success 201 {object} models.Project
// @Failure 403 {object} ErrorResponse
// @Router /admin/projects [post]
func (h *AdminHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		ClientName:  req.ClientName,
		ProjectCode: req.ProjectCode,
		HourlyRate:  req.HourlyRate,
		IsBillable:  true,
		Status:      models.ProjectStatusActive,
	}
	if req.IsBillable != nil {
		project.IsBillable = *req.IsBillable
	}
	if err := h.adminService.CreateProject(c.Request.Context(), CurrentUser(c), project); err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// DeleteProject godoc
// @Summary Delete a project
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /admin/projects/{id} [delete]
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "invalid project id")
		return
	}

	if err := h.adminService.DeleteProject(c.Request.Context(), CurrentUser(c), projectID); err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// ListGeofences godoc
// @Summary List geofences
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Geofence
// @Failure 403 {object} ErrorResponse
// @Router /admin/geofences [get]
func (h *AdminHandler) ListGeofences(c *gin.Context) {
	geofences, err := h.adminService.ListGeofences(c.Request.Context(), CurrentUser(c))
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, geofences)
}

// CreateGeofence godoc
// @Summary Create a geofence
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGeofenceRequest true "Geofence details"
// @Success 201 {object} models.Geofence
// @Failure 403 {object} ErrorResponse
// @Router /admin/geofences [post]
func (h *AdminHandler) CreateGeofence(c *gin.Context) {
	var req CreateGeofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	geofence := &models.Geofence{
		Name:      req.Name,
		CenterLat: req.CenterLat,
		CenterLon: req.CenterLon,
		Radius:    req.Radius,
		IsActive:  true,
	}
	if err := h.adminService.CreateGeofence(c.Request.Context(), CurrentUser(c), geofence); err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, geofence)
}
