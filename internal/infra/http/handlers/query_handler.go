package handlers

import (
	"context"
	"io"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Queries is the read side consumed by the /api routes.
type Queries interface {
	ListLeads(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error)
	LeadSummary(ctx context.Context) (usecase.LeadSummary, error)
	GetLead(ctx context.Context, id string) (*entity.Lead, error)
	ExportLeads(ctx context.Context, w io.Writer, filter entity.LeadFilter) error
	GetClient(ctx context.Context, id string) (*entity.Client, error)
	ListTasks(ctx context.Context, filter entity.TaskFilter) (usecase.TaskBuckets, error)
	ListActivities(ctx context.Context, leadID string, limit int) ([]*entity.Activity, error)
	ListTemplates(ctx context.Context) ([]*entity.Template, error)
}

type QueryHandler struct {
	Queries Queries
}

func NewQueryHandler(q Queries) *QueryHandler {
	return &QueryHandler{Queries: q}
}
