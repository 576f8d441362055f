package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data operations.
type ProjectRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository instance.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project %d: %w", id, err)
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	if err := r.db.WithContext(ctx).Order("id").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	return nil
}
