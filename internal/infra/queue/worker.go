package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// ErrUnknownKind is returned by executors for follow-ups they can't replay.
// Such messages go straight to the DLQ.
var ErrUnknownKind = errors.New("unknown follow-up kind")

type FollowUpExecutor interface {
	Execute(ctx context.Context, fu FollowUp) error
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	ch          consumer
	executor    FollowUpExecutor
	retry       RetryPublisher
	maxAttempts int

	// OnResult, when set, is called once per processed message.
	OnResult func(kind FollowUpKind, result string)
}

func NewWorker(ch consumer, executor FollowUpExecutor, retry RetryPublisher, maxAttempts int) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Worker{
		ch:          ch,
		executor:    executor,
		retry:       retry,
		maxAttempts: maxAttempts,
	}
}

// Start consumes QueueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.ch.Consume(
		QueueName,
		"",
		false, // ack manual
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.WithField("queue", QueueName).Info("🐇 follow-up worker aguardando mensagens")

	for {
		select {
		case <-ctx.Done():
			log.Info("follow-up worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("follow-up channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var fu FollowUp
	if err := json.Unmarshal(d.Body, &fu); err != nil {
		log.WithError(err).Error("follow-up com JSON inválido, descartando")
		_ = d.Nack(false, false)
		w.record("", "malformed")
		return
	}

	entry := log.WithFields(log.Fields{
		"followup_id": fu.ID,
		"kind":        fu.Kind,
		"attempt":     fu.Attempt,
	})

	err := w.executor.Execute(ctx, fu)
	if err == nil {
		entry.Info("✅ follow-up aplicado")
		_ = d.Ack(false)
		w.record(fu.Kind, "applied")
		return
	}

	if errors.Is(err, ErrUnknownKind) || fu.Attempt+1 >= w.maxAttempts {
		entry.WithError(err).Error("follow-up enviado para a DLQ")
		_ = d.Nack(false, false)
		w.record(fu.Kind, "dead_lettered")
		return
	}

	fu.Attempt++
	delay := RetryDelay(fu.Attempt)
	if pubErr := w.retry.PublishRetry(ctx, fu, delay); pubErr != nil {
		// Leave it on the queue rather than lose it.
		entry.WithError(pubErr).Error("falha ao reagendar follow-up, devolvendo para a fila")
		_ = d.Nack(false, true)
		w.record(fu.Kind, "requeued")
		return
	}

	entry.WithError(err).WithField("delay", delay).Warn("follow-up falhou, retry agendado")
	_ = d.Ack(false)
	w.record(fu.Kind, "retried")
}

func (w *Worker) record(kind FollowUpKind, result string) {
	if w.OnResult != nil {
		w.OnResult(kind, result)
	}
}
