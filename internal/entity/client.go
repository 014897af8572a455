package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClientStatus string

const (
	ClientStatusOnboarding ClientStatus = "Onboarding"
	ClientStatusActive     ClientStatus = "Active"
	ClientStatusInactive   ClientStatus = "Inactive"
	ClientStatusChurned    ClientStatus = "Churned"
)

type Client struct {
	ID                  string              `json:"id"`
	CompanyName         string              `json:"company_name"`
	AccountManagerID    string              `json:"account_manager_id"`
	BusinessIDNumber    *string             `json:"business_id_number,omitempty"`
	OriginalLeadID      string              `json:"original_lead_id"`
	ClientStatus        ClientStatus        `json:"client_status"`
	SubscriptionPackage *string             `json:"subscription_package,omitempty"`
	MonthlyValue        decimal.NullDecimal `json:"monthly_value"`
	ContractStartDate   time.Time           `json:"contract_start_date"`
	ContractEndDate     *time.Time          `json:"contract_end_date,omitempty"`
	OnboardingCompleted bool                `json:"onboarding_completed"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`

	AccountManager *UserProfile `json:"account_manager,omitempty"`
}

// NewClientFromLead derives a client row from the lead it converts.
// Package and monthly value fall back to the lead's own values when the
// caller supplies no override. A blank package counts as no override.
func NewClientFromLead(lead *Lead, accountManagerID string, pkg *string, monthly *decimal.Decimal, start time.Time, now time.Time) *Client {
	c := &Client{
		ID:                  uuid.New().String(),
		CompanyName:         lead.CompanyName,
		AccountManagerID:    accountManagerID,
		OriginalLeadID:      lead.ID,
		ClientStatus:        ClientStatusOnboarding,
		SubscriptionPackage: lead.SubscriptionPackage,
		MonthlyValue:        lead.PotentialMRR,
		ContractStartDate:   DateOf(start),
		OnboardingCompleted: false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if pkg != nil && strings.TrimSpace(*pkg) != "" {
		trimmed := strings.TrimSpace(*pkg)
		c.SubscriptionPackage = &trimmed
	}
	if monthly != nil {
		c.MonthlyValue = decimal.NullDecimal{Decimal: *monthly, Valid: true}
	}

	return c
}
