package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"appointment-booking/pkg/queue"

	"go.uber.org/zap"
)

// Consumer drains the notification queue and delivers emails.
type Consumer struct {
	queue  queue.Queue
	sender Sender
	log    *zap.Logger
}

func NewConsumer(q queue.Queue, sender Sender, log *zap.Logger) *Consumer {
	return &Consumer{
		queue:  q,
		sender: sender,
		log:    log.With(zap.String("component", "notification_consumer")),
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	return c.queue.Consume(ctx, c.handle)
}

func (c *Consumer) handle(message []byte) error {
	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		return fmt.Errorf("unmarshal notification event: %w", err)
	}

	subject, body := renderEvent(event)
	if err := c.sender.Send(event.Recipient, subject, body); err != nil {
		c.log.Error("Failed to send notification email",
			zap.Error(err),
			zap.String("motive", string(event.Motive)),
			zap.String("recipient", event.Recipient),
		)
		return err
	}

	c.log.Info("Notification delivered",
		zap.String("motive", string(event.Motive)),
		zap.String("recipient", event.Recipient),
	)
	return nil
}
