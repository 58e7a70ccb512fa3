package crm

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportType classifies saved reports
type ReportType string

const (
	ReportTypeSales      ReportType = "sales"
	ReportTypeActivities ReportType = "activities"
	ReportTypePipeline   ReportType = "pipeline"
	ReportTypeForecast   ReportType = "forecast"
)

// Report is a saved report definition. Report execution is out of scope;
// only the definition is stored.
type Report struct {
	shared.TenantEntity
	Name        string     `gorm:"type:varchar(200);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Type        ReportType `gorm:"type:varchar(20);not null" json:"type"`
	Config      string     `gorm:"type:jsonb;default:'{}'" json:"config,omitempty"`
	IsPublic    bool       `gorm:"not null;default:false" json:"is_public"`
}

// TableName returns the table name for GORM
func (Report) TableName() string {
	return "reports"
}

// NewReport creates a saved report definition
func NewReport(companyID, createdBy uuid.UUID, name string, reportType ReportType) (*Report, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Report name is required")
	}
	switch reportType {
	case ReportTypeSales, ReportTypeActivities, ReportTypePipeline, ReportTypeForecast:
	default:
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown report type")
	}
	return &Report{
		TenantEntity: shared.NewTenantEntityWithCreator(companyID, createdBy),
		Name:         name,
		Type:         reportType,
		Config:       "{}",
	}, nil
}
