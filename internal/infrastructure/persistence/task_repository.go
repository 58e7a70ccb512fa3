package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskRepository implements crm.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByIDForCompany finds a task by ID within a company
func (r *GormTaskRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*crm.Task, error) {
	var task crm.Task
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindAllForCompany lists tasks for a company with total count
func (r *GormTaskRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter crm.TaskFilter) ([]crm.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Task{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ?", pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []crm.Task
	if err := query.
		Order("due_date ASC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Save creates a task
func (r *GormTaskRepository) Save(ctx context.Context, task *crm.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update persists changes to an existing task
func (r *GormTaskRepository) Update(ctx context.Context, task *crm.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// DeleteForCompany deletes a task within a company
func (r *GormTaskRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&crm.Task{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTaskRepository implements TaskRepository
var _ crm.TaskRepository = (*GormTaskRepository)(nil)
