package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

var fixedNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type MockLeadRepo struct{ mock.Mock }

func (m *MockLeadRepo) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadRepo) MarkWon(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockLeadRepo) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	leads, _ := args.Get(0).([]*entity.Lead)
	return leads, args.Error(1)
}

type MockClientRepo struct{ mock.Mock }

func (m *MockClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepo) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}

func (m *MockClientRepo) FindByOriginalLeadID(ctx context.Context, leadID string) (*entity.Client, error) {
	args := m.Called(ctx, leadID)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}

type MockTemplateRepo struct{ mock.Mock }

func (m *MockTemplateRepo) FindByID(ctx context.Context, id string) (*entity.Template, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*entity.Template)
	return t, args.Error(1)
}

func (m *MockTemplateRepo) ListActive(ctx context.Context) ([]*entity.Template, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]*entity.Template)
	return t, args.Error(1)
}

func (m *MockTemplateRepo) IsApplied(ctx context.Context, clientID, templateID string) (bool, error) {
	args := m.Called(ctx, clientID, templateID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTemplateRepo) MarkApplied(ctx context.Context, clientID, templateID string, at time.Time) error {
	return m.Called(ctx, clientID, templateID, at).Error(0)
}

type MockTaskRepo struct{ mock.Mock }

func (m *MockTaskRepo) CreateBatch(ctx context.Context, tasks []*entity.Task) error {
	return m.Called(ctx, tasks).Error(0)
}

func (m *MockTaskRepo) ExistsWithNotesMarker(ctx context.Context, leadID, marker string) (bool, error) {
	args := m.Called(ctx, leadID, marker)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepo) UpdateAssigneeName(ctx context.Context, taskIDs []string, name string) error {
	return m.Called(ctx, taskIDs, name).Error(0)
}

func (m *MockTaskRepo) List(ctx context.Context, filter entity.TaskFilter) ([]*entity.Task, error) {
	args := m.Called(ctx, filter)
	t, _ := args.Get(0).([]*entity.Task)
	return t, args.Error(1)
}

type MockActivityRepo struct{ mock.Mock }

func (m *MockActivityRepo) Create(ctx context.Context, a *entity.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockActivityRepo) ListByLead(ctx context.Context, leadID string, limit int) ([]*entity.Activity, error) {
	args := m.Called(ctx, leadID, limit)
	a, _ := args.Get(0).([]*entity.Activity)
	return a, args.Error(1)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.UserProfile)
	return u, args.Error(1)
}

type MockLocker struct{ mock.Mock }

func (m *MockLocker) Acquire(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	release, _ := args.Get(0).(func())
	return release, args.Error(1)
}

type MockFollowUps struct{ mock.Mock }

func (m *MockFollowUps) PublishFollowUp(ctx context.Context, fu queue.FollowUp) error {
	return m.Called(ctx, fu).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyClientAssigned(ctx context.Context, manager *entity.UserProfile, client *entity.Client) error {
	return m.Called(ctx, manager, client).Error(0)
}

// inlineTx runs fn directly; rollback is the repository's concern.
type inlineTx struct{ calls int }

func (t *inlineTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}
