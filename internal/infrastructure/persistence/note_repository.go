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

// GormNoteRepository implements crm.NoteRepository using GORM
type GormNoteRepository struct {
	db *gorm.DB
}

// NewGormNoteRepository creates a new GormNoteRepository
func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db}
}

// FindByIDForCompany finds a note by ID within a company
func (r *GormNoteRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*crm.Note, error) {
	var note crm.Note
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// FindAllForCompany lists notes for a company, pinned notes first
func (r *GormNoteRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]crm.Note, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Note{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(content) LIKE ?", pattern)
	}
	if contactID, ok := filter.Filters["contact_id"]; ok {
		query = query.Where("contact_id = ?", contactID)
	}
	if dealID, ok := filter.Filters["deal_id"]; ok {
		query = query.Where("deal_id = ?", dealID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []crm.Note
	if err := query.
		Order("is_pinned DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&notes).Error; err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// Save creates a note
func (r *GormNoteRepository) Save(ctx context.Context, note *crm.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// Update persists changes to an existing note
func (r *GormNoteRepository) Update(ctx context.Context, note *crm.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

// DeleteForCompany deletes a note within a company
func (r *GormNoteRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&crm.Note{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormNoteRepository implements NoteRepository
var _ crm.NoteRepository = (*GormNoteRepository)(nil)
