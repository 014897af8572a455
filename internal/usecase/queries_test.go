package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestGroupLeads(t *testing.T) {
	leads := []*entity.Lead{
		{Status: entity.LeadStatusNew, LeadSource: ptr("Website")},
		{Status: entity.LeadStatusNew, LeadSource: ptr("Referral")},
		{Status: entity.LeadStatusWon, LeadSource: ptr("Website")},
		{Status: entity.LeadStatusLost},
		{Status: entity.LeadStatusLost, LeadSource: ptr("  ")},
	}

	s := GroupLeads(leads)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.ByStatus["New Lead"])
	assert.Equal(t, 1, s.ByStatus["Won"])
	assert.Equal(t, 2, s.ByStatus["Lost"])
	assert.Equal(t, 0, s.ByStatus["Negotiating"])
	assert.Len(t, s.ByStatus, len(entity.LeadStatuses))
	assert.Equal(t, map[string]int{"Website": 2, "Referral": 1, "Unknown": 2}, s.BySource)
}

func TestBucketTasks(t *testing.T) {
	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day := func(n int) *time.Time {
		d := entity.AddDays(today, n)
		return &d
	}

	tasks := []*entity.Task{
		{Title: "late", DueDate: day(-2)},
		{Title: "late but done", DueDate: day(-1), Status: entity.TaskStatusDone},
		{Title: "today", DueDate: day(0)},
		{Title: "in six days", DueDate: day(6)},
		{Title: "tomorrow", DueDate: day(1)},
		{Title: "a week out", DueDate: day(7)},
		{Title: "next month", DueDate: day(30)},
		{Title: "someday"},
	}

	b := BucketTasks(tasks, today)

	titles := func(ts []*entity.Task) []string {
		out := []string{}
		for _, t := range ts {
			out = append(out, t.Title)
		}
		return out
	}
	assert.Equal(t, []string{"late"}, titles(b.Overdue))
	assert.Equal(t, []string{"today"}, titles(b.Today))
	assert.Equal(t, []string{"tomorrow", "in six days", "a week out"}, titles(b.ThisWeek))
	assert.Equal(t, []string{"next month"}, titles(b.Later))
	assert.Equal(t, []string{"someday"}, titles(b.NoDueDate))
	assert.Equal(t, []string{"late but done"}, titles(b.Done))

	total := len(b.Overdue) + len(b.Today) + len(b.ThisWeek) + len(b.Later) + len(b.NoDueDate) + len(b.Done)
	assert.Equal(t, len(tasks), total)
}

func TestWriteLeadsCSV(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	leads := []*entity.Lead{
		{
			ID:           "L1",
			CompanyName:  "Acme, Inc.",
			Status:       entity.LeadStatusQualified,
			LeadSource:   ptr("Website"),
			PotentialMRR: decimal.NewNullDecimal(decimal.NewFromInt(2000)),
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		{ID: "L2", CompanyName: "Globex", Status: entity.LeadStatusNew, CreatedAt: created, UpdatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, leads))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, leadCSVHeader, rows[0])
	assert.Equal(t, "Acme, Inc.", rows[1][1])
	assert.Equal(t, "2000.00", rows[1][6])
	assert.Equal(t, "2025-01-02T03:04:05Z", rows[1][9])
	assert.Equal(t, "", rows[2][6])
}

func TestQueryUseCase_ListLeadsRejectsUnknownStatus(t *testing.T) {
	leads := new(MockLeadRepo)
	uc := NewQueryUseCase(leads, nil, nil, nil, nil, nil)

	_, err := uc.ListLeads(context.Background(), entity.LeadFilter{Status: "Sleeping"})

	requireCode(t, err, CodeValidation)
	leads.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestQueryUseCase_GetClientAttachesManager(t *testing.T) {
	clients := new(MockClientRepo)
	users := new(MockUserRepo)
	uc := NewQueryUseCase(nil, clients, nil, nil, nil, users)

	clients.On("FindByID", mock.Anything, "C1").Return(&entity.Client{ID: "C1", AccountManagerID: "U1"}, nil)
	users.On("FindByID", mock.Anything, "U1").Return(&entity.UserProfile{ID: "U1"}, nil)

	c, err := uc.GetClient(context.Background(), "C1")

	require.NoError(t, err)
	require.NotNil(t, c.AccountManager)
	assert.Equal(t, "U1", c.AccountManager.ID)
}

func TestQueryUseCase_GetClientNotFound(t *testing.T) {
	clients := new(MockClientRepo)
	uc := NewQueryUseCase(nil, clients, nil, nil, nil, nil)
	clients.On("FindByID", mock.Anything, "C404").Return(nil, entity.ErrNotFound)

	_, err := uc.GetClient(context.Background(), "C404")

	assert.True(t, IsNotFound(err))
}

func TestQueryUseCase_ListActivitiesClampsLimit(t *testing.T) {
	activities := new(MockActivityRepo)
	uc := NewQueryUseCase(nil, nil, nil, activities, nil, nil)
	activities.On("ListByLead", mock.Anything, "L1", DefaultActivityLimit).Return([]*entity.Activity{}, nil).Once()
	activities.On("ListByLead", mock.Anything, "L1", MaxActivityLimit).Return([]*entity.Activity{}, nil).Once()

	_, err := uc.ListActivities(context.Background(), "L1", 0)
	require.NoError(t, err)
	_, err = uc.ListActivities(context.Background(), "L1", 10_000)
	require.NoError(t, err)

	_, err = uc.ListActivities(context.Background(), "", 10)
	requireCode(t, err, CodeValidation)
	activities.AssertExpectations(t)
}

func TestQueryUseCase_ListTasksWrapsStoreError(t *testing.T) {
	tasks := new(MockTaskRepo)
	uc := NewQueryUseCase(nil, nil, tasks, nil, nil, nil)
	tasks.On("List", mock.Anything, entity.TaskFilter{LeadID: "C1"}).Return(nil, errors.New("timeout"))

	_, err := uc.ListTasks(context.Background(), entity.TaskFilter{LeadID: "C1"})

	assert.True(t, IsTechnicalError(err))
}
