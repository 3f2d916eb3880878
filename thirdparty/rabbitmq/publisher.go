package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/model"
	"github.com/rabbitmq/amqp091-go"
)

type EventPublisher interface {
	PublishLoginEvent(ctx context.Context, event model.LoginEvent) error
}

type Publisher struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, channel, err := dial(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

func (p *Publisher) PublishLoginEvent(ctx context.Context, event model.LoginEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(
		ctx,
		constant.AuthEventsExchange, // exchange
		constant.LoginRoutingKey,    // routing key
		false,                       // mandatory
		false,                       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.EventID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// NoopPublisher drops events. Used when the broker is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishLoginEvent(context.Context, model.LoginEvent) error {
	return nil
}
