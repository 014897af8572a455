package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type ConversionDetails struct {
	AccountManagerID    string           `json:"accountManagerId"`
	BusinessIDNumber    *string          `json:"businessIdNumber,omitempty"`
	SubscriptionPackage *string          `json:"subscriptionPackage,omitempty"`
	MonthlyValue        *decimal.Decimal `json:"monthlyValue,omitempty"`
	ContractStartDate   *string          `json:"contractStartDate,omitempty"`
	ContractEndDate     *string          `json:"contractEndDate,omitempty"`
	Notes               *string          `json:"notes,omitempty"`
}

type ConvertLeadInput struct {
	LeadID  string            `json:"leadId"`
	Details ConversionDetails `json:"conversionDetails"`

	// ActorID is the authenticated caller, filled in by the handler.
	ActorID string `json:"-"`
}

type ConvertLeadOutput struct {
	Client  *entity.Client `json:"client"`
	Message string         `json:"message"`
	// Deferred lists secondary steps handed to the follow-up queue.
	Deferred []string `json:"-"`
}

type ConvertLeadUseCase struct {
	Leads      LeadRepository
	Clients    ClientRepository
	Activities ActivityRepository
	Users      UserRepository
	Locker     Locker
	FollowUps  queue.FollowUpPublisher
	Notifier   AssignmentNotifier

	Now func() time.Time
}

func NewConvertLeadUseCase(
	leads LeadRepository,
	clients ClientRepository,
	activities ActivityRepository,
	users UserRepository,
	locker Locker,
	followUps queue.FollowUpPublisher,
	notifier AssignmentNotifier,
) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{
		Leads:      leads,
		Clients:    clients,
		Activities: activities,
		Users:      users,
		Locker:     locker,
		FollowUps:  followUps,
		Notifier:   notifier,
		Now:        time.Now,
	}
}

func (uc *ConvertLeadUseCase) Execute(ctx context.Context, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	if errs := ValidateConvertLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	leadID := strings.TrimSpace(input.LeadID)
	managerID := strings.TrimSpace(input.Details.AccountManagerID)

	entry := log.WithField("lead_id", leadID)

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, domainErr(CodeLeadNotFound, "lead not found: "+leadID)
		}
		return nil, dbErr("failed to load lead", err)
	}

	if err := uc.ensureNotConverted(ctx, lead); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, uc.Locker, "convert:"+lead.ID, entry)
	if err != nil {
		return nil, err
	}
	defer release()

	// Relê o lead com o lock: outra conversão pode ter terminado entre o
	// check acima e o acquire.
	lead, err = uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, dbErr("failed to reload lead", err)
	}
	if err := uc.ensureNotConverted(ctx, lead); err != nil {
		return nil, err
	}

	now := uc.now()
	start, _ := optionalDate(input.Details.ContractStartDate)
	end, _ := optionalDate(input.Details.ContractEndDate)
	if start == nil {
		start = &now
	}

	client := entity.NewClientFromLead(lead, managerID,
		input.Details.SubscriptionPackage, input.Details.MonthlyValue, *start, now)
	client.BusinessIDNumber = input.Details.BusinessIDNumber
	if end != nil {
		d := entity.DateOf(*end)
		client.ContractEndDate = &d
	}

	convertedBy := input.ActorID
	if convertedBy == "" {
		convertedBy = managerID
	}
	activity := &entity.Activity{
		ID:     uuid.New().String(),
		LeadID: lead.ID,
		Type:   entity.ActivityTypeConversion,
		Notes:  conversionNotes(client.CompanyName, input.Details.Notes),
		Metadata: map[string]any{
			"client_id":       client.ID,
			"converted_by":    convertedBy,
			"conversion_date": now.UTC().Format(time.RFC3339),
		},
		OwnerID:       &convertedBy,
		IsSystemEvent: true,
		CreatedAt:     now,
	}

	txn := NewTransaction(uc.FollowUps, entry.WithField("client_id", client.ID))

	txn.AddOperation("create_client", func(ctx context.Context) error {
		return uc.Clients.Create(ctx, client)
	})

	txn.AddSecondary("mark_lead_won", func(ctx context.Context) error {
		return uc.Leads.MarkWon(ctx, lead.ID, now)
	}, func() queue.FollowUp {
		return queue.NewLeadStatusFollowUp(lead.ID, now)
	})

	txn.AddSecondary("log_activity", func(ctx context.Context) error {
		return uc.Activities.Create(ctx, activity)
	}, func() queue.FollowUp {
		return queue.NewActivityFollowUp(activity)
	})

	deferred, err := txn.Execute(ctx)
	if err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, domainErr(CodeAlreadyConverted, "lead "+lead.ID+" was already converted")
		}
		return nil, dbErr("failed to create client", err)
	}

	manager, err := uc.Users.FindByID(ctx, managerID)
	if err != nil {
		entry.WithError(err).Warn("⚠️ perfil do account manager não encontrado")
	} else {
		client.AccountManager = manager
		uc.notify(ctx, manager, client)
	}

	entry.WithFields(log.Fields{
		"client_id": client.ID,
		"deferred":  deferred,
	}).Info("✅ lead convertido em cliente")

	return &ConvertLeadOutput{
		Client:   client,
		Message:  fmt.Sprintf("Lead %s successfully converted to client", client.CompanyName),
		Deferred: deferred,
	}, nil
}

// ensureNotConverted fails when a Won lead already has its client.
func (uc *ConvertLeadUseCase) ensureNotConverted(ctx context.Context, lead *entity.Lead) error {
	if !lead.IsWon() {
		return nil
	}
	existing, err := uc.Clients.FindByOriginalLeadID(ctx, lead.ID)
	switch {
	case err == nil:
		return domainErr(CodeAlreadyConverted,
			fmt.Sprintf("lead %s was already converted to client %s", lead.ID, existing.ID))
	case !errors.Is(err, entity.ErrNotFound):
		return dbErr("failed to check existing client", err)
	}
	return nil
}

func (uc *ConvertLeadUseCase) notify(ctx context.Context, manager *entity.UserProfile, client *entity.Client) {
	if uc.Notifier == nil || manager.Email == "" {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := uc.Notifier.NotifyClientAssigned(detached, manager, client); err != nil {
			log.WithError(err).WithField("client_id", client.ID).Warn("⚠️ email de atribuição não enviado")
		}
	}()
}

func (uc *ConvertLeadUseCase) now() time.Time {
	if uc.Now == nil {
		return time.Now()
	}
	return uc.Now()
}

func conversionNotes(companyName string, notes *string) string {
	msg := "Lead converted to client: " + companyName
	if notes != nil && strings.TrimSpace(*notes) != "" {
		msg += ". Notes: " + strings.TrimSpace(*notes)
	}
	return msg
}

// acquire takes the operation lock. A lock backend failure is logged and
// the operation proceeds unguarded; store constraints still apply.
func acquire(ctx context.Context, l Locker, key string, entry *log.Entry) (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	release, err := l.Acquire(ctx, key)
	switch {
	case err == nil:
		return release, nil
	case errors.Is(err, entity.ErrLocked):
		return nil, domainErr(CodeOperationInProgress, "another request is already processing this operation")
	default:
		entry.WithError(err).WithField("lock_key", key).Warn("⚠️ lock indisponível, seguindo sem ele")
		return func() {}, nil
	}
}
