package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type LeadRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	MarkWon(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error)
}

type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	FindByID(ctx context.Context, id string) (*entity.Client, error)
	FindByOriginalLeadID(ctx context.Context, leadID string) (*entity.Client, error)
}

// TemplateRepository.FindByID returns the template with its items loaded.
type TemplateRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Template, error)
	ListActive(ctx context.Context) ([]*entity.Template, error)
	IsApplied(ctx context.Context, clientID, templateID string) (bool, error)
	MarkApplied(ctx context.Context, clientID, templateID string, at time.Time) error
}

type TaskRepository interface {
	CreateBatch(ctx context.Context, tasks []*entity.Task) error
	ExistsWithNotesMarker(ctx context.Context, leadID, marker string) (bool, error)
	UpdateAssigneeName(ctx context.Context, taskIDs []string, name string) error
	List(ctx context.Context, filter entity.TaskFilter) ([]*entity.Task, error)
}

// ActivityRepository.Create must be idempotent on Activity.ID.
type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
	ListByLead(ctx context.Context, leadID string, limit int) ([]*entity.Activity, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.UserProfile, error)
}

// TxManager runs fn in a single database transaction. Repositories called
// with the ctx passed to fn join that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker guards an operation key. Acquire returns entity.ErrLocked when
// another holder has the key.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type AssignmentNotifier interface {
	NotifyClientAssigned(ctx context.Context, manager *entity.UserProfile, client *entity.Client) error
}

type FollowUpPublisher = queue.FollowUpPublisher
