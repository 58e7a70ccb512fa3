package crm

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactService handles contact operations with read-through caching.
// List results are cached per company; any write drops the company's whole
// contact cache slice. The cache never affects correctness: on any cache
// failure the database is the source of truth.
type ContactService struct {
	contacts crm.ContactRepository
	cache    *cache.Cache
	auditor  auditor
	listTTL  time.Duration
	itemKey  cache.Key
	listKey  cache.Key
	logger   *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(
	contacts crm.ContactRepository,
	audits crm.AuditLogRepository,
	c *cache.Cache,
	listTTL time.Duration,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contacts: contacts,
		cache:    c,
		auditor:  auditor{audits: audits, logger: logger},
		listTTL:  listTTL,
		itemKey:  cache.NewKey("contacts", "item"),
		listKey:  cache.NewKey("contacts", "list"),
		logger:   logger,
	}
}

// CreateContactInput contains data for creating a contact
type CreateContactInput struct {
	FirstName      string  `json:"first_name" binding:"required,max=100"`
	LastName       string  `json:"last_name" binding:"required,max=100"`
	Email          string  `json:"email" binding:"omitempty,email"`
	Phone          string  `json:"phone" binding:"omitempty,max=50"`
	Title          string  `json:"title" binding:"omitempty,max=100"`
	Department     string  `json:"department" binding:"omitempty,max=100"`
	CompanyName    string  `json:"company_name" binding:"omitempty,max=200"`
	CompanyWebsite string  `json:"company_website" binding:"omitempty,max=500"`
	LeadSource     string  `json:"lead_source" binding:"omitempty"`
	OwnerID        *string `json:"owner_id" binding:"omitempty,uuid"`
}

// UpdateContactInput contains data for updating a contact; nil fields are
// left unchanged
type UpdateContactInput struct {
	FirstName      *string `json:"first_name" binding:"omitempty,max=100"`
	LastName       *string `json:"last_name" binding:"omitempty,max=100"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
	Title          *string `json:"title" binding:"omitempty,max=100"`
	Department     *string `json:"department" binding:"omitempty,max=100"`
	CompanyName    *string `json:"company_name" binding:"omitempty,max=200"`
	CompanyWebsite *string `json:"company_website" binding:"omitempty,max=500"`
	Status         *string `json:"status" binding:"omitempty"`
	LeadScore      *int    `json:"lead_score" binding:"omitempty,min=0,max=100"`
	Tags           *string `json:"tags" binding:"omitempty"`
}

// Create creates a contact owned by the caller unless another owner is given
func (s *ContactService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateContactInput, info RequestInfo) (*crm.Contact, error) {
	ownerID := userID
	if input.OwnerID != nil {
		parsed, err := uuid.Parse(*input.OwnerID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		ownerID = parsed
	}

	contact, err := crm.NewContact(companyID, ownerID, userID, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	contact.Email = input.Email
	contact.Phone = input.Phone
	contact.Title = input.Title
	contact.Department = input.Department
	contact.CompanyName = input.CompanyName
	contact.CompanyWebsite = input.CompanyWebsite
	if input.LeadSource != "" {
		contact.LeadSource = crm.LeadSource(input.LeadSource)
	}

	if err := s.contacts.Save(ctx, contact); err != nil {
		s.logger.Error("Failed to create contact", zap.Error(err))
		return nil, shared.ErrInternal
	}

	s.invalidate(ctx, companyID, contact.ID)
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "contact", contact.ID, info)
	return contact, nil
}

// Get returns one contact, read through the item cache
func (s *ContactService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Contact, error) {
	key := s.itemKey.For(companyID, id.String())

	var cached crm.Contact
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	contact, err := s.contacts.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, contact, s.listTTL)
	return contact, nil
}

// List returns a page of contacts, read through the list cache
func (s *ContactService) List(ctx context.Context, companyID uuid.UUID, filter crm.ContactFilter) (shared.Paginated[crm.Contact], error) {
	key := s.listKey.For(companyID, listDiscriminators(filter.Filter,
		discriminator("status", string(filter.Status)),
		discriminator("source", string(filter.LeadSource)),
	)...)

	var cached shared.Paginated[crm.Contact]
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	contacts, total, err := s.contacts.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list contacts", zap.Error(err))
		return shared.Paginated[crm.Contact]{}, shared.ErrInternal
	}

	page := shared.NewPaginated(contacts, total, filter.Page, filter.Limit)
	s.cache.Set(ctx, key, page, s.listTTL)
	return page, nil
}

// Update applies a partial update to a contact
func (s *ContactService) Update(ctx context.Context, companyID, userID, id uuid.UUID, input UpdateContactInput, info RequestInfo) (*crm.Contact, error) {
	contact, err := s.contacts.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil && *input.FirstName != "" {
		contact.FirstName = *input.FirstName
	}
	if input.LastName != nil && *input.LastName != "" {
		contact.LastName = *input.LastName
	}
	if input.Email != nil {
		contact.Email = *input.Email
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}
	if input.Title != nil {
		contact.Title = *input.Title
	}
	if input.Department != nil {
		contact.Department = *input.Department
	}
	if input.CompanyName != nil {
		contact.CompanyName = *input.CompanyName
	}
	if input.CompanyWebsite != nil {
		contact.CompanyWebsite = *input.CompanyWebsite
	}
	if input.Status != nil {
		if err := contact.SetStatus(crm.ContactStatus(*input.Status)); err != nil {
			return nil, err
		}
	}
	if input.LeadScore != nil {
		if err := contact.SetLeadScore(*input.LeadScore); err != nil {
			return nil, err
		}
	}
	if input.Tags != nil {
		contact.Tags = *input.Tags
	}

	if err := s.contacts.Update(ctx, contact); err != nil {
		s.logger.Error("Failed to update contact", zap.Error(err))
		return nil, shared.ErrInternal
	}

	s.invalidate(ctx, companyID, id)
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "contact", id, info)
	return contact, nil
}

// Delete removes a contact
func (s *ContactService) Delete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	if err := s.contacts.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}

	s.invalidate(ctx, companyID, id)
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "contact", id, info)
	return nil
}

func (s *ContactService) invalidate(ctx context.Context, companyID, id uuid.UUID) {
	s.cache.Delete(ctx, s.itemKey.For(companyID, id.String()))
	s.cache.DeleteByPrefix(ctx, s.listKey.Prefix(companyID))
}
