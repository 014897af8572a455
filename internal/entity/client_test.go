package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewClientFromLead_FallsBackToLeadValues(t *testing.T) {
	pkg := "Pro"
	lead := &Lead{
		ID:                  "L1",
		CompanyName:         "Acme",
		Status:              LeadStatusQualified,
		PotentialMRR:        decimal.NewNullDecimal(decimal.NewFromInt(2000)),
		SubscriptionPackage: &pkg,
	}
	now := time.Date(2026, 10, 16, 15, 4, 5, 0, time.UTC)

	c := NewClientFromLead(lead, "U1", nil, nil, now, now)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Acme", c.CompanyName)
	assert.Equal(t, "L1", c.OriginalLeadID)
	assert.Equal(t, "U1", c.AccountManagerID)
	assert.Equal(t, ClientStatusOnboarding, c.ClientStatus)
	assert.False(t, c.OnboardingCompleted)
	assert.Equal(t, &pkg, c.SubscriptionPackage)
	assert.True(t, c.MonthlyValue.Valid)
	assert.True(t, c.MonthlyValue.Decimal.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), c.ContractStartDate)
}

func TestNewClientFromLead_Overrides(t *testing.T) {
	lead := &Lead{ID: "L1", CompanyName: "Acme", PotentialMRR: decimal.NewNullDecimal(decimal.NewFromInt(2000))}
	pkg := "Enterprise"
	monthly := decimal.RequireFromString("3500.50")
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	c := NewClientFromLead(lead, "U1", &pkg, &monthly, start, time.Now())

	assert.Equal(t, "Enterprise", *c.SubscriptionPackage)
	assert.True(t, c.MonthlyValue.Decimal.Equal(monthly))
	assert.Equal(t, start, c.ContractStartDate)
}

func TestNewClientFromLead_BlankPackageKeepsLeadPackage(t *testing.T) {
	pkg := "Growth"
	lead := &Lead{ID: "L1", CompanyName: "Acme", SubscriptionPackage: &pkg}

	for _, blank := range []string{"", "   ", "\t"} {
		override := blank
		c := NewClientFromLead(lead, "U1", &override, nil, time.Now(), time.Now())

		if assert.NotNil(t, c.SubscriptionPackage, "override %q", blank) {
			assert.Equal(t, "Growth", *c.SubscriptionPackage, "override %q", blank)
		}
	}
}

func TestNewClientFromLead_NoMRR(t *testing.T) {
	lead := &Lead{ID: "L1", CompanyName: "Acme"}

	c := NewClientFromLead(lead, "U1", nil, nil, time.Now(), time.Now())

	assert.False(t, c.MonthlyValue.Valid)
	assert.Nil(t, c.SubscriptionPackage)
}

func TestAddDays(t *testing.T) {
	day := time.Date(2026, 12, 30, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), AddDays(day, 2))
}
