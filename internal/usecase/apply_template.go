package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// PendingAssigneeName is stored on new tasks until the assignee name is resolved.
const PendingAssigneeName = "Pending assignment"

type ApplyTemplateInput struct {
	ClientID   string  `json:"clientId"`
	TemplateID string  `json:"templateId"`
	AssigneeID *string `json:"assigneeId,omitempty"`

	ActorID string `json:"-"`
}

type ApplyTemplateOutput struct {
	Tasks        []*entity.Task `json:"tasks"`
	TemplateName string         `json:"template"`
	Count        int            `json:"count"`
	Message      string         `json:"message"`
	Deferred     []string       `json:"-"`
}

// OnboardingDefaults fill in template item fields left empty.
type OnboardingDefaults struct {
	DueDays  int
	Priority string
	Category string
}

var DefaultOnboarding = OnboardingDefaults{DueDays: 1, Priority: "Medium", Category: "Setup"}

type ApplyTemplateUseCase struct {
	Clients    ClientRepository
	Templates  TemplateRepository
	Tasks      TaskRepository
	Activities ActivityRepository
	Users      UserRepository
	Tx         TxManager
	Locker     Locker
	FollowUps  queue.FollowUpPublisher
	Defaults   OnboardingDefaults

	Now func() time.Time
}

func NewApplyTemplateUseCase(
	clients ClientRepository,
	templates TemplateRepository,
	tasks TaskRepository,
	activities ActivityRepository,
	users UserRepository,
	tx TxManager,
	locker Locker,
	followUps queue.FollowUpPublisher,
	defaults OnboardingDefaults,
) *ApplyTemplateUseCase {
	return &ApplyTemplateUseCase{
		Clients:    clients,
		Templates:  templates,
		Tasks:      tasks,
		Activities: activities,
		Users:      users,
		Tx:         tx,
		Locker:     locker,
		FollowUps:  followUps,
		Defaults:   defaults,
		Now:        time.Now,
	}
}

func (uc *ApplyTemplateUseCase) Execute(ctx context.Context, input ApplyTemplateInput) (*ApplyTemplateOutput, error) {
	if errs := ValidateApplyTemplateInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	clientID := strings.TrimSpace(input.ClientID)
	templateID := strings.TrimSpace(input.TemplateID)

	entry := log.WithFields(log.Fields{
		"client_id":   clientID,
		"template_id": templateID,
	})

	client, err := uc.Clients.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, domainErr(CodeClientNotFound, "client not found: "+clientID)
		}
		return nil, dbErr("failed to load client", err)
	}

	tpl, err := uc.Templates.FindByID(ctx, templateID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, dbErr("failed to load template", err)
	}
	if err != nil || !tpl.IsActive {
		return nil, domainErr(CodeTemplateNotFound, "template not found or inactive: "+templateID)
	}

	if len(tpl.Items) == 0 {
		return nil, domainErr(CodeEmptyTemplate, fmt.Sprintf("template %q has no items", tpl.Name))
	}

	applied, err := uc.alreadyApplied(ctx, client.ID, tpl)
	if err != nil {
		return nil, dbErr("failed to check previous applications", err)
	}
	if applied {
		return nil, domainErr(CodeAlreadyApplied,
			fmt.Sprintf("template %q was already applied to this client", tpl.Name))
	}

	release, err := acquire(ctx, uc.Locker, "apply:"+client.ID+":"+tpl.ID, entry)
	if err != nil {
		return nil, err
	}
	defer release()

	// Repete o check com o lock para fechar a janela entre check e acquire.
	applied, err = uc.alreadyApplied(ctx, client.ID, tpl)
	if err != nil {
		return nil, dbErr("failed to check previous applications", err)
	}
	if applied {
		return nil, domainErr(CodeAlreadyApplied,
			fmt.Sprintf("template %q was already applied to this client", tpl.Name))
	}

	assigneeID := client.AccountManagerID
	if input.AssigneeID != nil && strings.TrimSpace(*input.AssigneeID) != "" {
		assigneeID = strings.TrimSpace(*input.AssigneeID)
	}

	now := uc.now()
	tasks := uc.buildTasks(client, tpl, assigneeID, input.ActorID, now)
	taskIDs := make([]string, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}

	appliedBy := input.ActorID
	if appliedBy == "" {
		appliedBy = assigneeID
	}
	activity := &entity.Activity{
		ID:     uuid.New().String(),
		LeadID: client.ID,
		Type:   entity.ActivityTypeTemplateApplied,
		Notes:  fmt.Sprintf("Applied onboarding template %q (%d tasks)", tpl.Name, len(tasks)),
		Metadata: map[string]any{
			"template_id":   tpl.ID,
			"template_name": tpl.Name,
			"tasks_created": len(tasks),
			"applied_by":    appliedBy,
		},
		OwnerID:       &appliedBy,
		IsSystemEvent: true,
		CreatedAt:     now,
	}

	txn := NewTransaction(uc.FollowUps, entry)

	txn.AddOperation("create_tasks", func(ctx context.Context) error {
		return uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := uc.Tasks.CreateBatch(ctx, tasks); err != nil {
				return err
			}
			return uc.Templates.MarkApplied(ctx, client.ID, tpl.ID, now)
		})
	})

	txn.AddSecondary("backfill_assignee", func(ctx context.Context) error {
		name, err := resolveAssigneeName(ctx, uc.Users, assigneeID)
		if err != nil {
			return err
		}
		if err := uc.Tasks.UpdateAssigneeName(ctx, taskIDs, name); err != nil {
			return err
		}
		for _, t := range tasks {
			t.Assignee = name
		}
		return nil
	}, func() queue.FollowUp {
		return queue.NewAssigneeBackfillFollowUp(taskIDs, assigneeID)
	})

	txn.AddSecondary("log_activity", func(ctx context.Context) error {
		return uc.Activities.Create(ctx, activity)
	}, func() queue.FollowUp {
		return queue.NewActivityFollowUp(activity)
	})

	deferred, err := txn.Execute(ctx)
	if err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, domainErr(CodeAlreadyApplied,
				fmt.Sprintf("template %q was already applied to this client", tpl.Name))
		}
		return nil, dbErr("failed to create onboarding tasks", err)
	}

	entry.WithFields(log.Fields{
		"tasks_created": len(tasks),
		"deferred":      deferred,
	}).Info("✅ template de onboarding aplicado")

	return &ApplyTemplateOutput{
		Tasks:        tasks,
		TemplateName: tpl.Name,
		Count:        len(tasks),
		Message:      fmt.Sprintf("Created %d onboarding tasks from template %s", len(tasks), tpl.Name),
		Deferred:     deferred,
	}, nil
}

func (uc *ApplyTemplateUseCase) alreadyApplied(ctx context.Context, clientID string, tpl *entity.Template) (bool, error) {
	applied, err := uc.Templates.IsApplied(ctx, clientID, tpl.ID)
	if err != nil || applied {
		return applied, err
	}
	// Tasks created before applied_templates existed only carry the notes marker.
	return uc.Tasks.ExistsWithNotesMarker(ctx, clientID, tpl.Marker())
}

func (uc *ApplyTemplateUseCase) buildTasks(client *entity.Client, tpl *entity.Template, assigneeID, actorID string, now time.Time) []*entity.Task {
	today := entity.DateOf(now)
	items := tpl.SortedItems()
	tasks := make([]*entity.Task, 0, len(items))
	seen := make(map[string]int, len(items))

	var createdBy *string
	if actorID != "" {
		createdBy = &actorID
	}

	for _, item := range items {
		dueDays := uc.Defaults.DueDays
		if item.DueDays != nil {
			dueDays = *item.DueDays
		}
		due := entity.AddDays(today, dueDays)

		taskID := onboardingTaskID(client.ID, item.Order())
		seen[taskID]++
		if n := seen[taskID]; n > 1 {
			taskID = fmt.Sprintf("%s-%d", taskID, n)
		}

		assignee := assigneeID
		tasks = append(tasks, &entity.Task{
			ID:             uuid.New().String(),
			TaskID:         taskID,
			Title:          item.Title,
			Description:    item.Description,
			Status:         entity.TaskStatusToDo,
			Priority:       stringOr(item.Priority, uc.Defaults.Priority, "Medium"),
			Category:       stringOr(item.Category, uc.Defaults.Category, "Setup"),
			DueDate:        &due,
			EstimatedHours: item.EstimatedHours,
			AssigneeID:     &assignee,
			Assignee:       PendingAssigneeName,
			LeadID:         client.ID,
			Notes:          entity.ProvenanceNote(tpl.Name, item.Order()),
			CreatedBy:      createdBy,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return tasks
}

func (uc *ApplyTemplateUseCase) now() time.Time {
	if uc.Now == nil {
		return time.Now()
	}
	return uc.Now()
}

// onboardingTaskID is readable, not unique: ONB-<client id suffix>-<order>.
func onboardingTaskID(clientID string, order int) string {
	suffix := strings.ReplaceAll(clientID, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("ONB-%s-%d", strings.ToUpper(suffix), order)
}

func stringOr(v *string, fallbacks ...string) string {
	if v != nil && strings.TrimSpace(*v) != "" {
		return *v
	}
	for _, f := range fallbacks {
		if f != "" {
			return f
		}
	}
	return ""
}

// resolveAssigneeName returns the user's display name, "Unassigned" for an
// unknown or empty id.
func resolveAssigneeName(ctx context.Context, users UserRepository, id string) (string, error) {
	if id == "" {
		return entity.UnassignedName, nil
	}
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.UnassignedName, nil
	}
	if err != nil {
		return "", err
	}
	return user.ResolvedName(), nil
}
