package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityFilter narrows activity list queries
type ActivityFilter struct {
	shared.Filter
	Type      ActivityType
	Status    ActivityStatus
	ContactID *uuid.UUID
	DealID    *uuid.UUID
}

// ActivityRepository provides company-scoped access to activities
type ActivityRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Activity, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ActivityFilter) ([]Activity, int64, error)
	Save(ctx context.Context, activity *Activity) error
	Update(ctx context.Context, activity *Activity) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// TaskFilter narrows task list queries
type TaskFilter struct {
	shared.Filter
	Status     TaskStatus
	Priority   TaskPriority
	AssignedTo *uuid.UUID
}

// TaskRepository provides company-scoped access to tasks
type TaskRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Task, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter TaskFilter) ([]Task, int64, error)
	Save(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// NoteRepository provides company-scoped access to notes
type NoteRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Note, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Note, int64, error)
	Save(ctx context.Context, note *Note) error
	Update(ctx context.Context, note *Note) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// EmailRepository provides company-scoped access to email records
type EmailRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Email, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Email, int64, error)
	Save(ctx context.Context, email *Email) error
	Update(ctx context.Context, email *Email) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// NotificationRepository provides access to a user's notifications
type NotificationRepository interface {
	FindByIDForUser(ctx context.Context, companyID, userID, id uuid.UUID) (*Notification, error)
	FindAllForUser(ctx context.Context, companyID, userID uuid.UUID, filter shared.Filter) ([]Notification, int64, error)
	Save(ctx context.Context, notification *Notification) error
	Update(ctx context.Context, notification *Notification) error
}

// AuditLogRepository is append-only: logs are written and listed, never changed
type AuditLogRepository interface {
	Save(ctx context.Context, log *AuditLog) error
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]AuditLog, int64, error)
}

// ReportRepository provides company-scoped access to report definitions
type ReportRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Report, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Report, int64, error)
	Save(ctx context.Context, report *Report) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}

// IntegrationRepository provides company-scoped access to integrations
type IntegrationRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Integration, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Integration, int64, error)
	Save(ctx context.Context, integration *Integration) error
	Update(ctx context.Context, integration *Integration) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
