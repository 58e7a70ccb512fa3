// Package crm contains the application services for the CRM domain.
// Services own the caching and audit discipline: repositories stay pure
// data access, handlers stay pure transport.
package crm

import (
	"context"
	"fmt"
	"strconv"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestInfo carries the caller's network details for audit logging
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// auditor records audit entries without ever failing the caller's operation
type auditor struct {
	audits crm.AuditLogRepository
	logger *zap.Logger
}

func (a *auditor) record(ctx context.Context, companyID, userID uuid.UUID, action, entityType string, entityID uuid.UUID, info RequestInfo) {
	entry := crm.NewAuditLog(companyID, userID, action, entityType, entityID).
		WithRequestInfo(info.IPAddress, info.UserAgent)
	if err := a.audits.Save(ctx, entry); err != nil {
		a.logger.Error("Failed to write audit log",
			zap.String("entity_type", entityType),
			zap.String("action", action),
			zap.Error(err))
	}
}

// listDiscriminators renders pagination and search into cache key parts
func listDiscriminators(filter shared.Filter, extra ...string) []string {
	parts := []string{
		strconv.Itoa(filter.Page),
		strconv.Itoa(filter.Limit),
	}
	if filter.Search != "" {
		parts = append(parts, "q="+filter.Search)
	}
	if filter.OwnerID != nil {
		parts = append(parts, "owner="+filter.OwnerID.String())
	}
	for _, e := range extra {
		if e != "" {
			parts = append(parts, e)
		}
	}
	return parts
}

func discriminator(name, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s=%s", name, value)
}
