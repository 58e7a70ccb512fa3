package crm

import (
	"encoding/json"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PipelineStage is one step of a sales pipeline
type PipelineStage struct {
	Name        string `json:"name"`
	Order       int    `json:"order"`
	Probability int    `json:"probability"`
}

// Pipeline represents an ordered set of deal stages for a company
type Pipeline struct {
	shared.TenantEntity
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Stages      string `gorm:"type:jsonb;not null;default:'[]'" json:"-"`
	IsDefault   bool   `gorm:"not null;default:false" json:"is_default"`
}

// TableName returns the table name for GORM
func (Pipeline) TableName() string {
	return "pipelines"
}

// DefaultStages returns the six stages every new company starts with
func DefaultStages() []PipelineStage {
	return []PipelineStage{
		{Name: "Prospecting", Order: 1, Probability: 10},
		{Name: "Qualification", Order: 2, Probability: 25},
		{Name: "Proposal", Order: 3, Probability: 50},
		{Name: "Negotiation", Order: 4, Probability: 75},
		{Name: "Closed Won", Order: 5, Probability: 100},
		{Name: "Closed Lost", Order: 6, Probability: 0},
	}
}

// NewPipeline creates a pipeline with the given stages
func NewPipeline(companyID uuid.UUID, name, description string, stages []PipelineStage, isDefault bool) (*Pipeline, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Pipeline name is required")
	}
	if len(stages) == 0 {
		return nil, shared.NewDomainError("INVALID_STAGES", "Pipeline requires at least one stage")
	}
	for _, s := range stages {
		if s.Probability < 0 || s.Probability > 100 {
			return nil, shared.NewDomainError("INVALID_STAGES", "Stage probability must be between 0 and 100")
		}
	}

	raw, err := json.Marshal(stages)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_STAGES", "Failed to encode stages")
	}

	return &Pipeline{
		TenantEntity: shared.NewTenantEntity(companyID),
		Name:         name,
		Description:  description,
		Stages:       string(raw),
		IsDefault:    isDefault,
	}, nil
}

// NewDefaultPipeline creates the default sales pipeline created at registration
func NewDefaultPipeline(companyID uuid.UUID) (*Pipeline, error) {
	return NewPipeline(companyID, "Default Sales Pipeline", "Default pipeline for sales deals", DefaultStages(), true)
}

// StageList decodes the stored stages
func (p *Pipeline) StageList() ([]PipelineStage, error) {
	var stages []PipelineStage
	if err := json.Unmarshal([]byte(p.Stages), &stages); err != nil {
		return nil, shared.NewDomainError("INVALID_STAGES", "Stored stages are not valid JSON")
	}
	return stages, nil
}

// StageProbability returns the probability configured for a stage name,
// matching the deal stage naming (e.g. "closed_won" matches "Closed Won").
func (p *Pipeline) StageProbability(stage DealStage) (int, bool) {
	stages, err := p.StageList()
	if err != nil {
		return 0, false
	}
	for _, s := range stages {
		if normalizeStageName(s.Name) == string(stage) {
			return s.Probability, true
		}
	}
	return 0, false
}

// SetStages replaces the stage list
func (p *Pipeline) SetStages(stages []PipelineStage) error {
	if len(stages) == 0 {
		return shared.NewDomainError("INVALID_STAGES", "Pipeline requires at least one stage")
	}
	raw, err := json.Marshal(stages)
	if err != nil {
		return shared.NewDomainError("INVALID_STAGES", "Failed to encode stages")
	}
	p.Stages = string(raw)
	return nil
}
