package crm

import (
	"context"
	"encoding/json"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService manages saved report definitions
type ReportService struct {
	reports crm.ReportRepository
	auditor auditor
	logger  *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reports crm.ReportRepository, audits crm.AuditLogRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		auditor: auditor{audits: audits, logger: logger},
		logger:  logger,
	}
}

// CreateReportInput contains data for saving a report definition
type CreateReportInput struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"omitempty"`
	Type        string          `json:"type" binding:"required"`
	Config      json.RawMessage `json:"config" binding:"omitempty"`
	IsPublic    bool            `json:"is_public"`
}

// Create saves a report definition
func (s *ReportService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateReportInput, info RequestInfo) (*crm.Report, error) {
	report, err := crm.NewReport(companyID, userID, input.Name, crm.ReportType(input.Type))
	if err != nil {
		return nil, err
	}
	report.Description = input.Description
	report.IsPublic = input.IsPublic
	if len(input.Config) > 0 {
		if !json.Valid(input.Config) {
			return nil, shared.NewDomainError("INVALID_CONFIG", "Report config must be valid JSON")
		}
		report.Config = string(input.Config)
	}

	if err := s.reports.Save(ctx, report); err != nil {
		s.logger.Error("Failed to create report", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "report", report.ID, info)
	return report, nil
}

// Get returns one report definition
func (s *ReportService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Report, error) {
	return s.reports.FindByIDForCompany(ctx, companyID, id)
}

// List returns a page of report definitions
func (s *ReportService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[crm.Report], error) {
	reports, total, err := s.reports.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list reports", zap.Error(err))
		return shared.Paginated[crm.Report]{}, shared.ErrInternal
	}
	return shared.NewPaginated(reports, total, filter.Page, filter.Limit), nil
}

// Delete removes a report definition
func (s *ReportService) Delete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	if err := s.reports.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "report", id, info)
	return nil
}
