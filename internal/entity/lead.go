package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "New Lead"
	LeadStatusContacting   LeadStatus = "Contacting"
	LeadStatusQualified    LeadStatus = "Qualified"
	LeadStatusProposalSent LeadStatus = "Proposal Sent"
	LeadStatusNegotiating  LeadStatus = "Negotiating"
	LeadStatusWon          LeadStatus = "Won"
	LeadStatusLost         LeadStatus = "Lost"
	LeadStatusOnHold       LeadStatus = "On Hold"
)

// LeadStatuses lists the pipeline stages in board order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacting,
	LeadStatusQualified,
	LeadStatusProposalSent,
	LeadStatusNegotiating,
	LeadStatusWon,
	LeadStatusLost,
	LeadStatusOnHold,
}

func (s LeadStatus) IsValid() bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Lead struct {
	ID                  string              `json:"id"`
	CompanyName         string              `json:"company_name"`
	Industry            *string             `json:"industry,omitempty"`
	Status              LeadStatus          `json:"status"`
	LeadSource          *string             `json:"lead_source,omitempty"`
	Priority            *string             `json:"priority,omitempty"`
	PotentialMRR        decimal.NullDecimal `json:"potential_mrr"`
	SubscriptionPackage *string             `json:"subscription_package,omitempty"`
	LeadOwnerID         *string             `json:"lead_owner_id,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// IsWon reports whether the lead reached the terminal Won stage.
func (l *Lead) IsWon() bool {
	return l.Status == LeadStatusWon
}

// LeadFilter narrows lead listings. Empty fields are ignored.
type LeadFilter struct {
	Status  LeadStatus
	Source  string
	OwnerID string
}
