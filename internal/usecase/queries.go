package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200

	unknownSource = "Unknown"
)

type LeadSummary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	BySource map[string]int `json:"by_source"`
}

// GroupLeads counts leads per status and per source. Every known status is
// present, with zero when unused.
func GroupLeads(leads []*entity.Lead) LeadSummary {
	s := LeadSummary{
		Total:    len(leads),
		ByStatus: make(map[string]int, len(entity.LeadStatuses)),
		BySource: map[string]int{},
	}
	for _, st := range entity.LeadStatuses {
		s.ByStatus[string(st)] = 0
	}
	for _, l := range leads {
		s.ByStatus[string(l.Status)]++

		source := unknownSource
		if l.LeadSource != nil && strings.TrimSpace(*l.LeadSource) != "" {
			source = strings.TrimSpace(*l.LeadSource)
		}
		s.BySource[source]++
	}
	return s
}

type TaskBuckets struct {
	Overdue   []*entity.Task `json:"overdue"`
	Today     []*entity.Task `json:"today"`
	ThisWeek  []*entity.Task `json:"this_week"`
	Later     []*entity.Task `json:"later"`
	NoDueDate []*entity.Task `json:"no_due_date"`
	Done      []*entity.Task `json:"done"`
}

// BucketTasks groups tasks by due date relative to today. ThisWeek covers
// the next 7 days. Done tasks with a past due date go to Done instead of
// Overdue, so every task lands in exactly one bucket.
func BucketTasks(tasks []*entity.Task, today time.Time) TaskBuckets {
	b := TaskBuckets{
		Overdue:   []*entity.Task{},
		Today:     []*entity.Task{},
		ThisWeek:  []*entity.Task{},
		Later:     []*entity.Task{},
		NoDueDate: []*entity.Task{},
		Done:      []*entity.Task{},
	}
	day := entity.DateOf(today)
	weekEnd := entity.AddDays(day, 7)

	for _, t := range tasks {
		if t.DueDate == nil {
			b.NoDueDate = append(b.NoDueDate, t)
			continue
		}
		due := entity.DateOf(*t.DueDate)
		switch {
		case due.Before(day):
			if t.Status == entity.TaskStatusDone {
				b.Done = append(b.Done, t)
			} else {
				b.Overdue = append(b.Overdue, t)
			}
		case due.Equal(day):
			b.Today = append(b.Today, t)
		case !due.After(weekEnd):
			b.ThisWeek = append(b.ThisWeek, t)
		default:
			b.Later = append(b.Later, t)
		}
	}

	for _, list := range [][]*entity.Task{b.Overdue, b.Today, b.ThisWeek, b.Later, b.Done} {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].DueDate.Before(*list[j].DueDate)
		})
	}
	return b
}

var leadCSVHeader = []string{
	"id", "company_name", "industry", "status", "lead_source", "priority",
	"potential_mrr", "subscription_package", "lead_owner_id", "created_at", "updated_at",
}

func WriteLeadsCSV(w io.Writer, leads []*entity.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(leadCSVHeader); err != nil {
		return err
	}
	for _, l := range leads {
		mrr := ""
		if l.PotentialMRR.Valid {
			mrr = l.PotentialMRR.Decimal.StringFixed(2)
		}
		row := []string{
			l.ID,
			l.CompanyName,
			deref(l.Industry),
			string(l.Status),
			deref(l.LeadSource),
			deref(l.Priority),
			mrr,
			deref(l.SubscriptionPackage),
			deref(l.LeadOwnerID),
			l.CreatedAt.UTC().Format(time.RFC3339),
			l.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// QueryUseCase serves the read side of the dashboard.
type QueryUseCase struct {
	Leads      LeadRepository
	Clients    ClientRepository
	Tasks      TaskRepository
	Activities ActivityRepository
	Templates  TemplateRepository
	Users      UserRepository

	Now func() time.Time
}

func NewQueryUseCase(
	leads LeadRepository,
	clients ClientRepository,
	tasks TaskRepository,
	activities ActivityRepository,
	templates TemplateRepository,
	users UserRepository,
) *QueryUseCase {
	return &QueryUseCase{
		Leads:      leads,
		Clients:    clients,
		Tasks:      tasks,
		Activities: activities,
		Templates:  templates,
		Users:      users,
		Now:        time.Now,
	}
}

func (uc *QueryUseCase) ListLeads(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domainErr(CodeValidation, "unknown lead status: "+string(filter.Status))
	}
	leads, err := uc.Leads.List(ctx, filter)
	if err != nil {
		return nil, dbErr("failed to list leads", err)
	}
	return leads, nil
}

func (uc *QueryUseCase) LeadSummary(ctx context.Context) (LeadSummary, error) {
	leads, err := uc.Leads.List(ctx, entity.LeadFilter{})
	if err != nil {
		return LeadSummary{}, dbErr("failed to list leads", err)
	}
	return GroupLeads(leads), nil
}

func (uc *QueryUseCase) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, domainErr(CodeLeadNotFound, "lead not found: "+id)
		}
		return nil, dbErr("failed to load lead", err)
	}
	return lead, nil
}

func (uc *QueryUseCase) ExportLeads(ctx context.Context, w io.Writer, filter entity.LeadFilter) error {
	leads, err := uc.ListLeads(ctx, filter)
	if err != nil {
		return err
	}
	return WriteLeadsCSV(w, leads)
}

// GetClient returns the client with its account manager attached when the
// profile can be found.
func (uc *QueryUseCase) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.Clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, domainErr(CodeClientNotFound, "client not found: "+id)
		}
		return nil, dbErr("failed to load client", err)
	}

	manager, err := uc.Users.FindByID(ctx, client.AccountManagerID)
	if err != nil {
		log.WithError(err).WithField("client_id", id).Debug("account manager não encontrado")
	} else {
		client.AccountManager = manager
	}
	return client, nil
}

func (uc *QueryUseCase) ListTasks(ctx context.Context, filter entity.TaskFilter) (TaskBuckets, error) {
	tasks, err := uc.Tasks.List(ctx, filter)
	if err != nil {
		return TaskBuckets{}, dbErr("failed to list tasks", err)
	}
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	return BucketTasks(tasks, now()), nil
}

func (uc *QueryUseCase) ListActivities(ctx context.Context, leadID string, limit int) ([]*entity.Activity, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, domainErr(CodeValidation, "lead_id is required")
	}
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	activities, err := uc.Activities.ListByLead(ctx, leadID, limit)
	if err != nil {
		return nil, dbErr("failed to list activities", err)
	}
	return activities, nil
}

func (uc *QueryUseCase) ListTemplates(ctx context.Context) ([]*entity.Template, error) {
	templates, err := uc.Templates.ListActive(ctx)
	if err != nil {
		return nil, dbErr("failed to list templates", err)
	}
	return templates, nil
}
