// Package eventbus wires the adapter to RabbitMQ for the two things
// that happen after a dispatch completes: a durable audit fan-out of
// every outbound envelope, and a best-effort notify relay consumed by
// a websocket-bridge process. It is not used for request/response
// traffic with sellers — that is plain HTTP, handled by the
// dispatcher.
package eventbus

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Topics this adapter publishes and consumes. Unlike the order-created/
// paid/preparing/ready chain of a checkout pipeline, the adapter only
// has two concerns: record what it sent, and tell someone it changed.
const (
	OutboundDispatchedEvent = "ondc.outbound.dispatched"
	NotifyEvent             = "bap.notify"
)

// DLX is the dead letter exchange every queue routes failures into.
const DLX = "dlx"

// Connect dials RabbitMQ, opens a channel, and declares the DLX/DLQ
// and topic exchanges this adapter needs. The returned close function
// shuts the channel down before the connection, in that order.
func Connect(url string) (*amqp.Channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareDeadLetterInfra(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare dead letter infrastructure: %w", err)
	}

	if err := declareExchanges(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchanges: %w", err)
	}

	close := func() error {
		if err := ch.Close(); err != nil {
			return err
		}
		return conn.Close()
	}

	return ch, close, nil
}

// Publish sends body to topic with the given trace-context headers
// merged in, persistent and mandatory-free like every other publish
// in this package.
func Publish(ctx context.Context, ch *amqp.Channel, topic string, body []byte, headers amqp.Table) error {
	if headers == nil {
		headers = InjectTraceContext(ctx)
	} else {
		for k, v := range InjectTraceContext(ctx) {
			headers[k] = v
		}
	}

	return ch.PublishWithContext(ctx, topic, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Headers:      headers,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
}

func declareDeadLetterInfra(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLX, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dlx exchange: %w", err)
	}

	for _, topic := range []string{OutboundDispatchedEvent, NotifyEvent} {
		dlq := topic + ".dlq"
		if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare dlq %s: %w", dlq, err)
		}
		if err := ch.QueueBind(dlq, topic, DLX, false, nil); err != nil {
			return fmt.Errorf("bind dlq %s: %w", dlq, err)
		}
	}
	return nil
}

func declareExchanges(ch *amqp.Channel) error {
	for _, topic := range []string{OutboundDispatchedEvent, NotifyEvent} {
		if err := ch.ExchangeDeclare(topic, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare %s exchange: %w", topic, err)
		}
	}
	return nil
}
