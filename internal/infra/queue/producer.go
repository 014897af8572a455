package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

type FollowUpPublisher interface {
	PublishFollowUp(ctx context.Context, fu FollowUp) error
}

// RetryPublisher parks a failed follow-up for delay before it is redelivered.
type RetryPublisher interface {
	PublishRetry(ctx context.Context, fu FollowUp, delay time.Duration) error
}

// publisher is the subset of *amqp.Channel the producer needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	ch publisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{ch: ch}
}

func (p *RabbitMQProducer) PublishFollowUp(ctx context.Context, fu FollowUp) error {
	return p.publish(ctx, RoutingKey, fu, "")
}

// PublishRetry envia o follow-up para a fila de espera do degrau de delay.
// Quando o TTL vence, o broker devolve a mensagem para QueueName.
func (p *RabbitMQProducer) PublishRetry(ctx context.Context, fu FollowUp, delay time.Duration) error {
	return p.publish(ctx, RetryRoutingKey(delay), fu, strconv.FormatInt(delay.Milliseconds(), 10))
}

func (p *RabbitMQProducer) publish(ctx context.Context, key string, fu FollowUp, expiration string) error {
	body, err := json.Marshal(fu)
	if err != nil {
		return fmt.Errorf("marshal follow-up: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    fu.ID,
			Type:         string(fu.Kind),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Expiration:   expiration,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar follow-up no RabbitMQ: %w", err)
	}

	return nil
}

// LogProducer is used when RabbitMQ is not configured: the follow-up is
// only logged so an operator can replay it by hand.
type LogProducer struct{}

func (LogProducer) PublishFollowUp(_ context.Context, fu FollowUp) error {
	log.WithFields(log.Fields{
		"followup_id": fu.ID,
		"kind":        fu.Kind,
		"lead_id":     fu.LeadID,
		"task_ids":    fu.TaskIDs,
	}).Warn("fila de follow-up desabilitada, escrita secundária não será reprocessada")
	return nil
}
