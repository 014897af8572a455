package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// FollowUpUseCase replays secondary writes taken off the follow-up queue.
// Every replay is idempotent: marking Won twice, rewriting the same
// assignee name and inserting an activity whose id already exists are all
// no-ops the second time.
type FollowUpUseCase struct {
	Leads      LeadRepository
	Tasks      TaskRepository
	Activities ActivityRepository
	Users      UserRepository
}

func NewFollowUpUseCase(leads LeadRepository, tasks TaskRepository, activities ActivityRepository, users UserRepository) *FollowUpUseCase {
	return &FollowUpUseCase{
		Leads:      leads,
		Tasks:      tasks,
		Activities: activities,
		Users:      users,
	}
}

func (uc *FollowUpUseCase) Execute(ctx context.Context, fu queue.FollowUp) error {
	switch fu.Kind {
	case queue.KindLeadStatusWon:
		if fu.LeadID == "" {
			return fmt.Errorf("%w: lead_status_won without lead_id", queue.ErrUnknownKind)
		}
		return uc.Leads.MarkWon(ctx, fu.LeadID, fu.At)

	case queue.KindAssigneeBackfill:
		if len(fu.TaskIDs) == 0 {
			return nil
		}
		name, err := resolveAssigneeName(ctx, uc.Users, fu.AssigneeID)
		if err != nil {
			return err
		}
		return uc.Tasks.UpdateAssigneeName(ctx, fu.TaskIDs, name)

	case queue.KindActivityInsert:
		if fu.Activity == nil {
			return fmt.Errorf("%w: activity_insert without activity", queue.ErrUnknownKind)
		}
		return uc.Activities.Create(ctx, fu.Activity)
	}

	return fmt.Errorf("%w: %q", queue.ErrUnknownKind, fu.Kind)
}
