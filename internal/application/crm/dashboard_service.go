package crm

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardStats holds tenant-scoped sales aggregates
type DashboardStats struct {
	ValueByStage  map[crm.DealStage]decimal.Decimal `json:"value_by_stage"`
	OpenValue     decimal.Decimal                   `json:"open_value"`
	WonValue      decimal.Decimal                   `json:"won_value"`
	LostValue     decimal.Decimal                   `json:"lost_value"`
	TotalContacts int64                             `json:"total_contacts"`
	TotalDeals    int64                             `json:"total_deals"`
	OpenTasks     int64                             `json:"open_tasks"`
	GeneratedAt   time.Time                         `json:"generated_at"`
}

// DashboardService computes cached dashboard aggregates. Deal writes
// invalidate the stats, so a stale window never exceeds the TTL.
type DashboardService struct {
	deals    crm.DealRepository
	contacts crm.ContactRepository
	tasks    crm.TaskRepository
	cache    *cache.Cache
	ttl      time.Duration
	statsKey cache.Key
	logger   *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	deals crm.DealRepository,
	contacts crm.ContactRepository,
	tasks crm.TaskRepository,
	c *cache.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		deals:    deals,
		contacts: contacts,
		tasks:    tasks,
		cache:    c,
		ttl:      ttl,
		statsKey: cache.NewKey("dashboard", "stats"),
		logger:   logger,
	}
}

// Stats returns the company's dashboard aggregates, read through the cache
func (s *DashboardService) Stats(ctx context.Context, companyID uuid.UUID) (*DashboardStats, error) {
	key := s.statsKey.For(companyID)

	var cached DashboardStats
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	byStage, err := s.deals.SumValueByStage(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to aggregate deal values", zap.Error(err))
		return nil, shared.ErrInternal
	}

	stats := &DashboardStats{
		ValueByStage: byStage,
		OpenValue:    decimal.Zero,
		WonValue:     decimal.Zero,
		LostValue:    decimal.Zero,
		GeneratedAt:  time.Now().UTC(),
	}
	for stage, value := range byStage {
		switch {
		case stage == crm.DealStageClosedWon:
			stats.WonValue = stats.WonValue.Add(value)
		case stage == crm.DealStageClosedLost:
			stats.LostValue = stats.LostValue.Add(value)
		default:
			stats.OpenValue = stats.OpenValue.Add(value)
		}
	}

	countFilter := shared.Filter{Page: 1, Limit: 1, Filters: map[string]any{}}
	if _, total, err := s.contacts.FindAllForCompany(ctx, companyID, crm.ContactFilter{Filter: countFilter}); err == nil {
		stats.TotalContacts = total
	} else {
		s.logger.Warn("Failed to count contacts for dashboard", zap.Error(err))
	}
	if _, total, err := s.deals.FindAllForCompany(ctx, companyID, crm.DealFilter{Filter: countFilter}); err == nil {
		stats.TotalDeals = total
	} else {
		s.logger.Warn("Failed to count deals for dashboard", zap.Error(err))
	}
	openTasks := shared.Filter{Page: 1, Limit: 1, Filters: map[string]any{}}
	if _, total, err := s.tasks.FindAllForCompany(ctx, companyID, crm.TaskFilter{Filter: openTasks, Status: crm.TaskStatusTodo}); err == nil {
		stats.OpenTasks = total
	} else {
		s.logger.Warn("Failed to count tasks for dashboard", zap.Error(err))
	}

	s.cache.Set(ctx, key, stats, s.ttl)
	return stats, nil
}
