package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoteService handles free-form notes
type NoteService struct {
	notes   crm.NoteRepository
	auditor auditor
	logger  *zap.Logger
}

// NewNoteService creates a new NoteService
func NewNoteService(notes crm.NoteRepository, audits crm.AuditLogRepository, logger *zap.Logger) *NoteService {
	return &NoteService{
		notes:   notes,
		auditor: auditor{audits: audits, logger: logger},
		logger:  logger,
	}
}

// CreateNoteInput contains data for creating a note
type CreateNoteInput struct {
	Content    string  `json:"content" binding:"required"`
	ContactID  *string `json:"contact_id" binding:"omitempty,uuid"`
	DealID     *string `json:"deal_id" binding:"omitempty,uuid"`
	ActivityID *string `json:"activity_id" binding:"omitempty,uuid"`
}

// UpdateNoteInput contains data for updating a note
type UpdateNoteInput struct {
	Content  *string `json:"content" binding:"omitempty"`
	IsPinned *bool   `json:"is_pinned" binding:"omitempty"`
}

// Create creates a note attached to a contact, deal or activity
func (s *NoteService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateNoteInput, info RequestInfo) (*crm.Note, error) {
	note, err := crm.NewNote(companyID, userID, input.Content)
	if err != nil {
		return nil, err
	}
	if input.ContactID != nil {
		contactID, err := uuid.Parse(*input.ContactID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		note.ContactID = &contactID
	}
	if input.DealID != nil {
		dealID, err := uuid.Parse(*input.DealID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		note.DealID = &dealID
	}
	if input.ActivityID != nil {
		activityID, err := uuid.Parse(*input.ActivityID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		note.ActivityID = &activityID
	}

	if err := s.notes.Save(ctx, note); err != nil {
		s.logger.Error("Failed to create note", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "note", note.ID, info)
	return note, nil
}

// Get returns one note
func (s *NoteService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Note, error) {
	return s.notes.FindByIDForCompany(ctx, companyID, id)
}

// List returns a page of notes, pinned first
func (s *NoteService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[crm.Note], error) {
	notes, total, err := s.notes.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list notes", zap.Error(err))
		return shared.Paginated[crm.Note]{}, shared.ErrInternal
	}
	return shared.NewPaginated(notes, total, filter.Page, filter.Limit), nil
}

// Update modifies a note's content or pinned state
func (s *NoteService) Update(ctx context.Context, companyID, userID, id uuid.UUID, input UpdateNoteInput, info RequestInfo) (*crm.Note, error) {
	note, err := s.notes.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.Content != nil && *input.Content != "" {
		note.Content = *input.Content
	}
	if input.IsPinned != nil {
		if *input.IsPinned {
			note.Pin()
		} else {
			note.Unpin()
		}
	}

	if err := s.notes.Update(ctx, note); err != nil {
		s.logger.Error("Failed to update note", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "note", id, info)
	return note, nil
}

// Delete removes a note
func (s *NoteService) Delete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	if err := s.notes.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "note", id, info)
	return nil
}
