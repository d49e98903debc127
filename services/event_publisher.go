package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reservationPaidQueue = "reservation.paid"

// ReservationPaidEvent is published once a payment for a reservation has
// been approved and committed.
type ReservationPaidEvent struct {
	ReservationID         string `json:"reservation_id"`
	RoomNumber            string `json:"room_number"`
	RoomType              string `json:"room_type"`
	CheckIn               string `json:"check_in"`
	CheckOut              string `json:"check_out"`
	Nights                int64  `json:"nights"`
	Guests                int    `json:"guests"`
	TotalCostIncludingTax string `json:"total_cost_including_tax"`
	PaymentReference      string `json:"payment_reference"`
	PaidAt                string `json:"paid_at"`
}

type EventPublisher interface {
	PublishReservationPaid(ctx context.Context, event ReservationPaidEvent) error
}

// AMQPPublisher sends events to a durable RabbitMQ queue. Each publish
// opens its own connection.
type AMQPPublisher struct {
	URL   string
	Queue string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Queue: reservationPaidQueue}
}

func (p *AMQPPublisher) PublishReservationPaid(ctx context.Context, event ReservationPaidEvent) error {
	conn, err := amqp.Dial(p.URL)
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
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    event.PaymentReference,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
