package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type FollowUpKind string

const (
	KindLeadStatusWon    FollowUpKind = "lead_status_won"
	KindAssigneeBackfill FollowUpKind = "assignee_backfill"
	KindActivityInsert   FollowUpKind = "activity_insert"
)

// FollowUp records a secondary write that failed after the primary write
// committed. The worker replays it until it succeeds or runs out of attempts.
type FollowUp struct {
	ID        string       `json:"id"`
	Kind      FollowUpKind `json:"kind"`
	Attempt   int          `json:"attempt"`
	CreatedAt time.Time    `json:"created_at"`

	// lead_status_won
	LeadID string    `json:"lead_id,omitempty"`
	At     time.Time `json:"at,omitempty"`

	// assignee_backfill
	TaskIDs    []string `json:"task_ids,omitempty"`
	AssigneeID string   `json:"assignee_id,omitempty"`

	// activity_insert
	Activity *entity.Activity `json:"activity,omitempty"`
}

func NewLeadStatusFollowUp(leadID string, at time.Time) FollowUp {
	return FollowUp{
		ID:        uuid.New().String(),
		Kind:      KindLeadStatusWon,
		CreatedAt: time.Now().UTC(),
		LeadID:    leadID,
		At:        at,
	}
}

func NewAssigneeBackfillFollowUp(taskIDs []string, assigneeID string) FollowUp {
	return FollowUp{
		ID:         uuid.New().String(),
		Kind:       KindAssigneeBackfill,
		CreatedAt:  time.Now().UTC(),
		TaskIDs:    taskIDs,
		AssigneeID: assigneeID,
	}
}

func NewActivityFollowUp(a *entity.Activity) FollowUp {
	return FollowUp{
		ID:        uuid.New().String(),
		Kind:      KindActivityInsert,
		CreatedAt: time.Now().UTC(),
		Activity:  a,
	}
}
