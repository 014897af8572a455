package usecase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// Transaction runs the steps of a use case in order. A failing primary step
// aborts the run. A failing secondary step is logged and handed to the
// follow-up queue so the worker can finish it later.
type Transaction struct {
	operations []Operation
	followUps  queue.FollowUpPublisher
	log        *log.Entry
}

type Operation struct {
	Name      string
	Fn        func(context.Context) error
	Secondary bool
	// FollowUp builds the replay message for a failed secondary step.
	FollowUp func() queue.FollowUp
}

func NewTransaction(followUps queue.FollowUpPublisher, entry *log.Entry) *Transaction {
	if followUps == nil {
		followUps = queue.LogProducer{}
	}
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}
	return &Transaction{followUps: followUps, log: entry}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{Name: name, Fn: fn})
}

func (t *Transaction) AddSecondary(name string, fn func(context.Context) error, followUp func() queue.FollowUp) {
	t.operations = append(t.operations, Operation{Name: name, Fn: fn, Secondary: true, FollowUp: followUp})
}

// Execute returns the names of secondary steps that were deferred to the
// follow-up queue. Secondary steps run detached from ctx cancellation: once
// the primary write committed, a client disconnect must not skip them.
func (t *Transaction) Execute(ctx context.Context) ([]string, error) {
	var deferred []string

	for _, op := range t.operations {
		if !op.Secondary {
			if err := op.Fn(ctx); err != nil {
				return deferred, fmt.Errorf("operation '%s' failed: %w", op.Name, err)
			}
			continue
		}

		detached := context.WithoutCancel(ctx)
		err := op.Fn(detached)
		if err == nil {
			continue
		}

		deferred = append(deferred, op.Name)
		entry := t.log.WithField("step", op.Name)
		entry.WithError(err).Warn("⚠️ escrita secundária falhou, agendando follow-up")

		if op.FollowUp == nil {
			continue
		}
		fu := op.FollowUp()
		if pubErr := t.followUps.PublishFollowUp(detached, fu); pubErr != nil {
			entry.WithError(pubErr).WithField("followup_id", fu.ID).
				Error("❌ CRÍTICO: follow-up não enfileirado, reparo manual necessário")
		}
	}

	return deferred, nil
}
