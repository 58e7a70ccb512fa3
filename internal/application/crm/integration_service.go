package crm

import (
	"context"
	"encoding/json"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IntegrationService manages third-party provider connections.
// Credentials are stored but never returned in responses.
type IntegrationService struct {
	integrations crm.IntegrationRepository
	auditor      auditor
	logger       *zap.Logger
}

// NewIntegrationService creates a new IntegrationService
func NewIntegrationService(integrations crm.IntegrationRepository, audits crm.AuditLogRepository, logger *zap.Logger) *IntegrationService {
	return &IntegrationService{
		integrations: integrations,
		auditor:      auditor{audits: audits, logger: logger},
		logger:       logger,
	}
}

// ConnectIntegrationInput contains data for connecting a provider
type ConnectIntegrationInput struct {
	Provider    string          `json:"provider" binding:"required"`
	Credentials json.RawMessage `json:"credentials" binding:"omitempty"`
	Settings    json.RawMessage `json:"settings" binding:"omitempty"`
}

// UpdateIntegrationInput contains data for updating a connection
type UpdateIntegrationInput struct {
	Credentials json.RawMessage `json:"credentials" binding:"omitempty"`
	Settings    json.RawMessage `json:"settings" binding:"omitempty"`
	IsActive    *bool           `json:"is_active" binding:"omitempty"`
}

// Connect creates a provider connection for the company
func (s *IntegrationService) Connect(ctx context.Context, companyID, userID uuid.UUID, input ConnectIntegrationInput, info RequestInfo) (*crm.Integration, error) {
	credentials := "{}"
	if len(input.Credentials) > 0 {
		if !json.Valid(input.Credentials) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Credentials must be valid JSON")
		}
		credentials = string(input.Credentials)
	}

	integration, err := crm.NewIntegration(companyID, crm.IntegrationProvider(input.Provider), credentials)
	if err != nil {
		return nil, err
	}
	if len(input.Settings) > 0 {
		if !json.Valid(input.Settings) {
			return nil, shared.NewDomainError("INVALID_SETTINGS", "Settings must be valid JSON")
		}
		integration.Settings = string(input.Settings)
	}

	if err := s.integrations.Save(ctx, integration); err != nil {
		s.logger.Error("Failed to connect integration", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "integration", integration.ID, info)
	return integration, nil
}

// Get returns one integration
func (s *IntegrationService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Integration, error) {
	return s.integrations.FindByIDForCompany(ctx, companyID, id)
}

// List returns a page of integrations
func (s *IntegrationService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[crm.Integration], error) {
	integrations, total, err := s.integrations.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list integrations", zap.Error(err))
		return shared.Paginated[crm.Integration]{}, shared.ErrInternal
	}
	return shared.NewPaginated(integrations, total, filter.Page, filter.Limit), nil
}

// Update modifies a connection's credentials, settings or active flag
func (s *IntegrationService) Update(ctx context.Context, companyID, userID, id uuid.UUID, input UpdateIntegrationInput, info RequestInfo) (*crm.Integration, error) {
	integration, err := s.integrations.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if len(input.Credentials) > 0 {
		if !json.Valid(input.Credentials) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Credentials must be valid JSON")
		}
		integration.Credentials = string(input.Credentials)
	}
	if len(input.Settings) > 0 {
		if !json.Valid(input.Settings) {
			return nil, shared.NewDomainError("INVALID_SETTINGS", "Settings must be valid JSON")
		}
		integration.Settings = string(input.Settings)
	}
	if input.IsActive != nil {
		integration.IsActive = *input.IsActive
	}

	if err := s.integrations.Update(ctx, integration); err != nil {
		s.logger.Error("Failed to update integration", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "integration", id, info)
	return integration, nil
}

// Disconnect removes a provider connection
func (s *IntegrationService) Disconnect(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	if err := s.integrations.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "integration", id, info)
	return nil
}
