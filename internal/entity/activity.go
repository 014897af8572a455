package entity

import "time"

type ActivityType string

const (
	ActivityTypeConversion      ActivityType = "conversion"
	ActivityTypeTemplateApplied ActivityType = "template_applied"
)

// Activity is an append-only audit entry. LeadID is the owning entity
// (lead or client).
type Activity struct {
	ID            string         `json:"id"`
	LeadID        string         `json:"lead_id"`
	Type          ActivityType   `json:"type"`
	Notes         string         `json:"notes"`
	Metadata      map[string]any `json:"metadata"`
	OwnerID       *string        `json:"owner_id,omitempty"`
	IsSystemEvent bool           `json:"is_system_event"`
	CreatedAt     time.Time      `json:"created_at"`
}
