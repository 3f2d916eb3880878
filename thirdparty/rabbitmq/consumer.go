package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/model"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const auditLoginPath = "/internal/v1/audit/login"

type deliveryAction int

const (
	actionAck deliveryAction = iota
	actionDrop
	actionRequeue
)

// AuditForwarder posts login events to the internal audit endpoint.
type AuditForwarder struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewAuditForwarder(apiURL, apiKey string, client *http.Client) *AuditForwarder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &AuditForwarder{apiURL: apiURL, apiKey: apiKey, client: client}
}

// process decides what to do with a raw delivery body.
func (f *AuditForwarder) process(ctx context.Context, body []byte) deliveryAction {
	var event model.LoginEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Warn("[AuditConsumer] failed to unmarshal message", zap.Error(err))
		return actionDrop
	}

	if err := f.forward(ctx, body); err != nil {
		logger.Error("[AuditConsumer] failed to forward login event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return actionRequeue
	}

	logger.Debug("[AuditConsumer] login event recorded", zap.String("event_id", event.EventID))
	return actionAck
}

func (f *AuditForwarder) forward(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.apiURL+auditLoginPath, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", f.apiKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Service", "login-audit-consumer")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	// 4xx other than auth problems means the event itself is bad; retrying won't help
	if resp.StatusCode == http.StatusBadRequest {
		logger.Warn("[AuditConsumer] audit API rejected event", zap.String("body", string(respBody)))
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

type Consumer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	forwarder *AuditForwarder
}

func NewConsumer(url string, forwarder *AuditForwarder) (*Consumer, error) {
	conn, channel, err := dial(url)
	if err != nil {
		return nil, err
	}
	return &Consumer{conn: conn, channel: channel, forwarder: forwarder}, nil
}

// Start consumes until ctx is cancelled or the channel closes. It returns
// once consumption is set up; deliveries are handled on a goroutine.
func (c *Consumer) Start(ctx context.Context) (<-chan struct{}, error) {
	if err := c.channel.Qos(10, 0, false); err != nil {
		return nil, err
	}

	msgs, err := c.channel.Consume(
		constant.LoginAuditQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Warn("[AuditConsumer] delivery channel closed")
					return
				}
				switch c.forwarder.process(ctx, msg.Body) {
				case actionAck, actionDrop:
					_ = msg.Ack(false)
				case actionRequeue:
					_ = msg.Nack(false, true)
				}
			}
		}
	}()

	return done, nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
