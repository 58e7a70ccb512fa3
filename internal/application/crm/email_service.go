package crm

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailService tracks outbound email records. Delivery itself happens
// through an external provider; this service only manages the lifecycle
// of the stored record.
type EmailService struct {
	emails  crm.EmailRepository
	auditor auditor
	logger  *zap.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(emails crm.EmailRepository, audits crm.AuditLogRepository, logger *zap.Logger) *EmailService {
	return &EmailService{
		emails:  emails,
		auditor: auditor{audits: audits, logger: logger},
		logger:  logger,
	}
}

// CreateEmailInput contains data for creating a draft email.
// Recipient lists are JSON arrays of addresses.
type CreateEmailInput struct {
	ToEmails  string  `json:"to_emails" binding:"required"`
	CcEmails  string  `json:"cc_emails" binding:"omitempty"`
	BccEmails string  `json:"bcc_emails" binding:"omitempty"`
	Subject   string  `json:"subject" binding:"required,max=500"`
	BodyHTML  string  `json:"body_html" binding:"required"`
	BodyText  string  `json:"body_text" binding:"omitempty"`
	ContactID *string `json:"contact_id" binding:"omitempty,uuid"`
	DealID    *string `json:"deal_id" binding:"omitempty,uuid"`
}

// UpdateEmailInput contains data for updating a draft
type UpdateEmailInput struct {
	ToEmails  *string `json:"to_emails" binding:"omitempty"`
	CcEmails  *string `json:"cc_emails" binding:"omitempty"`
	BccEmails *string `json:"bcc_emails" binding:"omitempty"`
	Subject   *string `json:"subject" binding:"omitempty,max=500"`
	BodyHTML  *string `json:"body_html" binding:"omitempty"`
	BodyText  *string `json:"body_text" binding:"omitempty"`
}

// ScheduleEmailInput sets a future send time
type ScheduleEmailInput struct {
	ScheduledAt string `json:"scheduled_at" binding:"required"`
}

// Create creates a draft email from the caller
func (s *EmailService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateEmailInput, info RequestInfo) (*crm.Email, error) {
	email, err := crm.NewEmail(companyID, userID, input.ToEmails, input.Subject, input.BodyHTML)
	if err != nil {
		return nil, err
	}
	if input.CcEmails != "" {
		email.CcEmails = input.CcEmails
	}
	if input.BccEmails != "" {
		email.BccEmails = input.BccEmails
	}
	email.BodyText = input.BodyText
	if input.ContactID != nil {
		contactID, err := uuid.Parse(*input.ContactID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		email.ContactID = &contactID
	}
	if input.DealID != nil {
		dealID, err := uuid.Parse(*input.DealID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		email.DealID = &dealID
	}

	if err := s.emails.Save(ctx, email); err != nil {
		s.logger.Error("Failed to create email", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "email", email.ID, info)
	return email, nil
}

// Get returns one email record
func (s *EmailService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Email, error) {
	return s.emails.FindByIDForCompany(ctx, companyID, id)
}

// List returns a page of email records
func (s *EmailService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[crm.Email], error) {
	emails, total, err := s.emails.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list emails", zap.Error(err))
		return shared.Paginated[crm.Email]{}, shared.ErrInternal
	}
	return shared.NewPaginated(emails, total, filter.Page, filter.Limit), nil
}

// Update modifies a draft. Sent emails are immutable.
func (s *EmailService) Update(ctx context.Context, companyID, userID, id uuid.UUID, input UpdateEmailInput, info RequestInfo) (*crm.Email, error) {
	email, err := s.emails.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if email.Status == crm.EmailStatusSent {
		return nil, shared.NewDomainError("INVALID_STATE", "Sent emails cannot be modified")
	}

	if input.ToEmails != nil && *input.ToEmails != "" {
		email.ToEmails = *input.ToEmails
	}
	if input.CcEmails != nil {
		email.CcEmails = *input.CcEmails
	}
	if input.BccEmails != nil {
		email.BccEmails = *input.BccEmails
	}
	if input.Subject != nil && *input.Subject != "" {
		email.Subject = *input.Subject
	}
	if input.BodyHTML != nil {
		email.BodyHTML = *input.BodyHTML
	}
	if input.BodyText != nil {
		email.BodyText = *input.BodyText
	}

	if err := s.emails.Update(ctx, email); err != nil {
		s.logger.Error("Failed to update email", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "email", id, info)
	return email, nil
}

// Schedule queues an email for a future send
func (s *EmailService) Schedule(ctx context.Context, companyID, userID, id uuid.UUID, input ScheduleEmailInput, info RequestInfo) (*crm.Email, error) {
	email, err := s.emails.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	at, err := time.Parse(time.RFC3339, input.ScheduledAt)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Scheduled time must be RFC 3339")
	}
	if err := email.Schedule(at); err != nil {
		return nil, err
	}

	if err := s.emails.Update(ctx, email); err != nil {
		s.logger.Error("Failed to schedule email", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "email", id, info)
	return email, nil
}

// MarkSent records that the provider accepted the email
func (s *EmailService) MarkSent(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) (*crm.Email, error) {
	email, err := s.emails.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	email.MarkSent()

	if err := s.emails.Update(ctx, email); err != nil {
		s.logger.Error("Failed to mark email sent", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "email", id, info)
	return email, nil
}

// Delete removes an email record
func (s *EmailService) Delete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	if err := s.emails.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "email", id, info)
	return nil
}
