package crm

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStage represents a deal's position in its pipeline
type DealStage string

const (
	DealStageProspecting   DealStage = "prospecting"
	DealStageQualification DealStage = "qualification"
	DealStageProposal      DealStage = "proposal"
	DealStageNegotiation   DealStage = "negotiation"
	DealStageClosedWon     DealStage = "closed_won"
	DealStageClosedLost    DealStage = "closed_lost"
)

// IsValid reports whether the stage is known
func (s DealStage) IsValid() bool {
	switch s {
	case DealStageProspecting, DealStageQualification, DealStageProposal,
		DealStageNegotiation, DealStageClosedWon, DealStageClosedLost:
		return true
	}
	return false
}

// IsClosed reports whether the stage is terminal
func (s DealStage) IsClosed() bool {
	return s == DealStageClosedWon || s == DealStageClosedLost
}

// normalizeStageName maps a pipeline stage display name to deal stage naming
// ("Closed Won" -> "closed_won")
func normalizeStageName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Deal represents a revenue opportunity moving through a pipeline
type Deal struct {
	shared.TenantEntity
	PipelineID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"pipeline_id"`
	ContactID         *uuid.UUID      `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	OwnerID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name              string          `gorm:"type:varchar(200);not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	Value             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"value"`
	Currency          string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Stage             DealStage       `gorm:"type:varchar(20);not null;default:'prospecting';index" json:"stage"`
	Probability       int             `gorm:"not null;default:10" json:"probability"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	ActualCloseDate   *time.Time      `json:"actual_close_date,omitempty"`
	LostReason        string          `gorm:"type:text" json:"lost_reason,omitempty"`
	Tags              string          `gorm:"type:jsonb;default:'[]'" json:"tags,omitempty"`
	CustomFields      string          `gorm:"type:jsonb;default:'{}'" json:"custom_fields,omitempty"`
}

// TableName returns the table name for GORM
func (Deal) TableName() string {
	return "deals"
}

// NewDeal creates a new deal at the prospecting stage
func NewDeal(companyID, pipelineID, ownerID, createdBy uuid.UUID, name string, value decimal.Decimal) (*Deal, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Deal name is required")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Deal value must not be negative")
	}

	return &Deal{
		TenantEntity: shared.NewTenantEntityWithCreator(companyID, createdBy),
		PipelineID:   pipelineID,
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(name),
		Value:        value,
		Currency:     "USD",
		Stage:        DealStageProspecting,
		Probability:  10,
		Tags:         "[]",
		CustomFields: "{}",
	}, nil
}

// MoveStage transitions the deal to a new stage. The probability is taken
// from the pipeline's stage configuration when present. Closing a deal sets
// the actual close date; losing one records the reason.
func (d *Deal) MoveStage(stage DealStage, lostReason string, pipeline *Pipeline) error {
	if !stage.IsValid() {
		return shared.NewDomainError("INVALID_STAGE", "Unknown deal stage")
	}

	d.Stage = stage
	if pipeline != nil {
		if p, ok := pipeline.StageProbability(stage); ok {
			d.Probability = p
		}
	}

	if stage.IsClosed() {
		now := time.Now()
		d.ActualCloseDate = &now
	} else {
		d.ActualCloseDate = nil
		d.LostReason = ""
	}
	if stage == DealStageClosedLost {
		d.LostReason = lostReason
	}
	return nil
}

// SetValue updates the deal value
func (d *Deal) SetValue(value decimal.Decimal) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Deal value must not be negative")
	}
	d.Value = value
	return nil
}

// WeightedValue returns value * probability, used by forecast aggregates
func (d *Deal) WeightedValue() decimal.Decimal {
	return d.Value.Mul(decimal.NewFromInt(int64(d.Probability))).Div(decimal.NewFromInt(100))
}
