package queue

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.crm"
	QueueName    = "q.followups"
	DLQName      = "q.followups.dlq"
	DLXName      = "ex.dlx"
	RoutingKey   = "k.followup"
)

// RetryDelays são os degraus de backoff. Cada degrau tem sua própria fila de
// espera com x-message-ttl fixo, então mensagens de um mesmo degrau expiram em
// ordem e voltam para ExchangeName/RoutingKey.
var RetryDelays = []time.Duration{
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
}

// RetryDelay returns the backoff for the given (already incremented) attempt.
func RetryDelay(attempt int) time.Duration {
	i := attempt - 1
	if i < 0 {
		i = 0
	}
	if i >= len(RetryDelays) {
		i = len(RetryDelays) - 1
	}
	return RetryDelays[i]
}

func RetryQueueName(delay time.Duration) string {
	return QueueName + ".retry." + delay.String()
}

func RetryRoutingKey(delay time.Duration) string {
	return RoutingKey + ".retry." + delay.String()
}

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewRabbitMQ dials url and declares the follow-up topology.
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("setup topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// IsHealthy reports whether the broker connection is still open.
func (r *RabbitMQ) IsHealthy() bool {
	return r != nil && r.Conn != nil && !r.Conn.IsClosed()
}

func (r *RabbitMQ) Close() {
	if r == nil {
		return
	}
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}

func setupTopology(ch *amqp.Channel) error {
	// Dead letters first: rejected follow-ups land here for manual inspection.
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(DLQName, RoutingKey, DLXName, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, args); err != nil {
		return err
	}
	if err := ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return err
	}

	// Filas de espera sem consumidor: a mensagem expira e volta para a fila principal.
	for _, delay := range RetryDelays {
		name := RetryQueueName(delay)
		waitArgs := amqp.Table{
			"x-message-ttl":             delay.Milliseconds(),
			"x-dead-letter-exchange":    ExchangeName,
			"x-dead-letter-routing-key": RoutingKey,
		}
		if _, err := ch.QueueDeclare(name, true, false, false, false, waitArgs); err != nil {
			return err
		}
		if err := ch.QueueBind(name, RetryRoutingKey(delay), ExchangeName, false, nil); err != nil {
			return err
		}
	}
	return nil
}
