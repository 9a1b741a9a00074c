package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// CycleEvent — итог одного цикла генерации для внешних потребителей.
type CycleEvent struct {
	Shape        string    `json:"shape"`
	Success      bool      `json:"success"`
	Generated    int       `json:"generated"`
	WithComments int       `json:"with_comments"`
	BatchID      string    `json:"batch_id,omitempty"`
	Message      string    `json:"message,omitempty"`
	At           time.Time `json:"at"`
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PublishCycleEvent публикует итог цикла в очередь событий генерации.
func PublishCycleEvent(ch *amqp.Channel, event CycleEvent) error {
	return PublishMessage(ch, Exchange, "cycle", event)
}
