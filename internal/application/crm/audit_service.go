package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditService exposes the append-only audit trail for administrators
type AuditService struct {
	audits crm.AuditLogRepository
	logger *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(audits crm.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{audits: audits, logger: logger}
}

// List returns a page of audit entries, newest first
func (s *AuditService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[crm.AuditLog], error) {
	logs, total, err := s.audits.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list audit logs", zap.Error(err))
		return shared.Paginated[crm.AuditLog]{}, shared.ErrInternal
	}
	return shared.NewPaginated(logs, total, filter.Page, filter.Limit), nil
}
