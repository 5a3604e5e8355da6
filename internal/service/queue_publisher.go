// Package queue_publisher publishes domain events to RabbitMQ.
// Errors are logged and returned so callers can treat delivery as
// best-effort without interrupting the request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/contacts-api/internal/queue"
)

// Publisher satisfies the auth handler's event dependency. It dials
// per publish; signup volume does not justify holding a channel open
// and a fresh connection keeps the publisher robust across broker
// restarts.
type Publisher struct{}

func New() *Publisher { return &Publisher{} }

// PublishUserRegistered publishes a UserRegisteredEvent to the
// user.registered queue. The queue is declared durable and messages
// are marked persistent so a broker restart does not drop pending
// confirmation mails.
func (p *Publisher) PublishUserRegistered(ctx context.Context, event q.UserRegisteredEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.RegisteredQueueName, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                    // default exchange
		q.RegisteredQueueName, // routing key = queue name
		false,                 // mandatory
		false,                 // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
