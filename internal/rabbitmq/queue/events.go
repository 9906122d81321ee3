package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/model"
)

var ErrIncompleteMessage = errors.New("incomplete event message")

const (
	ExchangeName   = "calendar-exchange"
	MainQueueName  = "calendar-events"
	RetryQueueName = "calendar-events-retry"
	DLQName        = "calendar-events-dlq"
	RoutingKey     = "event.created"
)

// EventMessage is published by the calendar when an event is created.
type EventMessage struct {
	EventID       *uuid.UUID  `json:"event_id"`
	Title         string      `json:"title"`
	DueDate       string      `json:"due_date"`
	DueTime       string      `json:"due_time"`
	IsPublic      bool        `json:"is_public"`
	SubscriberIDs []uuid.UUID `json:"subscriber_ids"`
	Offsets       []float64   `json:"offsets,omitempty"`
}

// Event returns the producer-side event carried by the message.
func (m EventMessage) Event() model.Event {
	return model.Event{
		ID:            m.EventID,
		Title:         m.Title,
		DueDate:       m.DueDate,
		DueTime:       m.DueTime,
		IsPublic:      m.IsPublic,
		SubscriberIDs: m.SubscriberIDs,
	}
}

// NewEventMessage wraps event and its optional offsets for publishing.
func NewEventMessage(event model.Event, offsets []float64) EventMessage {
	return EventMessage{
		EventID:       event.ID,
		Title:         event.Title,
		DueDate:       event.DueDate,
		DueTime:       event.DueTime,
		IsPublic:      event.IsPublic,
		SubscriberIDs: event.SubscriberIDs,
		Offsets:       offsets,
	}
}

// DecodeEventMessage parses a message body. Messages without a title or due
// date are rejected.
func DecodeEventMessage(body []byte) (EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return EventMessage{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if msg.Title == "" || msg.DueDate == "" || msg.DueTime == "" {
		return EventMessage{}, ErrIncompleteMessage
	}

	return msg, nil
}

type EventQueue struct {
	Publisher *rabbitmq.Publisher
	Consumer  *rabbitmq.Consumer
}

// NewEventQueue declares the calendar exchange, the main queue with its retry
// and dead-letter queues, and binds them.
func NewEventQueue(ch *rabbitmq.Channel) (*EventQueue, error) {
	exchange := rabbitmq.NewExchange(ExchangeName, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	if _, err := qm.DeclareQueue(DLQName, rabbitmq.QueueConfig{Durable: true}); err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	_, err := qm.DeclareQueue(RetryQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args: map[string]interface{}{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": MainQueueName,
			"x-message-ttl":             int32(5000),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	mainQ, err := qm.DeclareQueue(MainQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args: map[string]interface{}{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": DLQName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())
	cons := rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(mainQ.Name))

	return &EventQueue{Publisher: pub, Consumer: cons}, nil
}

func (q *EventQueue) Publish(msg EventMessage, strategy retry.Strategy) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.Publisher.PublishWithRetry(body, RoutingKey, "application/json", strategy)
}

// Consume forwards decoded messages to out until ctx is done. Malformed
// messages are logged and dropped.
func (q *EventQueue) Consume(ctx context.Context, out chan<- EventMessage, strategy retry.Strategy) error {
	msgChan := make(chan []byte)

	go func() {
		for m := range msgChan {
			msg, err := DecodeEventMessage(m)
			if err != nil {
				zlog.Logger.Error().Err(err).Msg("dropping malformed event message")
				continue
			}

			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return q.Consumer.ConsumeWithRetry(msgChan, strategy)
}
