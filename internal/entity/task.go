package entity

import "time"

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// Task.LeadID is the owning entity: a lead, or a client for onboarding tasks.
type Task struct {
	ID             string     `json:"id"`
	TaskID         string     `json:"task_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	Priority       string     `json:"priority"`
	Category       string     `json:"category"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	AssigneeID     *string    `json:"assignee_id,omitempty"`
	Assignee       string     `json:"assignee"`
	LeadID         string     `json:"lead_id"`
	Notes          string     `json:"notes"`
	CreatedBy      *string    `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type TaskFilter struct {
	LeadID     string
	AssigneeID string
}
