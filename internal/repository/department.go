package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"gorm.io/gorm"
)

// DepartmentRepository defines the interface for department data operations.
type DepartmentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
	ListActive(ctx context.Context) ([]*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository instance.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).First(&department, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find department %d: %w", id, err)
	}
	return &department, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	var departments []*models.Department
	if err := r.db.WithContext(ctx).Order("id").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) ListActive(ctx context.Context) ([]*models.Department, error) {
	var departments []*models.Department
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&departments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active departments: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	if err := r.db.WithContext(ctx).Create(department).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}
