package crm

import (
	"context"
	"testing"

	domain "github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTaskService(t *testing.T) (*TaskService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewTaskService(
		persistence.NewGormTaskRepository(env.db),
		persistence.NewGormNotificationRepository(env.db),
		env.audits(),
		zap.NewNop(),
	)
	return svc, env
}

func TestTaskCreateDefaultsToCaller(t *testing.T) {
	svc, env := newTaskService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()

	task, err := svc.Create(ctx, companyID, userID, CreateTaskInput{Title: "Call back"}, RequestInfo{})
	require.NoError(t, err)

	assert.Equal(t, userID, task.AssignedTo)
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)

	// Self-assignment does not notify
	var count int64
	require.NoError(t, env.db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTaskAssignmentNotifies(t *testing.T) {
	svc, env := newTaskService(t)
	ctx := context.Background()
	companyID := uuid.New()
	creator := uuid.New()
	assignee := uuid.New()

	assigneeID := assignee.String()
	task, err := svc.Create(ctx, companyID, creator, CreateTaskInput{
		Title:      "Prepare demo",
		AssignedTo: &assigneeID,
		Priority:   string(domain.TaskPriorityHigh),
	}, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, assignee, task.AssignedTo)

	var notifications []domain.Notification
	require.NoError(t, env.db.Where("user_id = ?", assignee).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "Prepare demo")
}

func TestTaskComplete(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()

	task, err := svc.Create(ctx, companyID, userID, CreateTaskInput{Title: "Finish report"}, RequestInfo{})
	require.NoError(t, err)

	done, err := svc.Complete(ctx, companyID, userID, task.ID, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
}

func TestTaskListFilterByAssignee(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	companyID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	bobID := bob.String()
	_, err := svc.Create(ctx, companyID, alice, CreateTaskInput{Title: "Mine"}, RequestInfo{})
	require.NoError(t, err)
	_, err = svc.Create(ctx, companyID, alice, CreateTaskInput{Title: "Bob's", AssignedTo: &bobID}, RequestInfo{})
	require.NoError(t, err)

	page, err := svc.List(ctx, companyID, domain.TaskFilter{
		Filter:     shared.DefaultFilter(),
		AssignedTo: &bob,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Bob's", page.Items[0].Title)
}

func TestTaskUpdateRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()

	task, err := svc.Create(ctx, companyID, userID, CreateTaskInput{Title: "Fragile"}, RequestInfo{})
	require.NoError(t, err)

	bad := "paused"
	_, err = svc.Update(ctx, companyID, userID, task.ID, UpdateTaskInput{Status: &bad}, RequestInfo{})
	assert.Error(t, err)
}
