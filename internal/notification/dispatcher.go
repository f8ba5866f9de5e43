package notification

import (
	"context"

	"appointment-booking/pkg/queue"

	"go.uber.org/zap"
)

// Dispatcher hands events to the notification queue. Delivery is best-effort:
// a publish failure is logged and swallowed so it never fails the caller's
// already-committed operation.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

type queueDispatcher struct {
	queue queue.Queue
	log   *zap.Logger
}

func NewDispatcher(q queue.Queue, log *zap.Logger) Dispatcher {
	return &queueDispatcher{
		queue: q,
		log:   log.With(zap.String("component", "notification_dispatcher")),
	}
}

func (d *queueDispatcher) Dispatch(ctx context.Context, event Event) {
	if event.Recipient == "" {
		d.log.Warn("Dropping notification without recipient", zap.String("motive", string(event.Motive)))
		return
	}

	if err := d.queue.Publish(ctx, event); err != nil {
		d.log.Error("Failed to publish notification",
			zap.Error(err),
			zap.String("motive", string(event.Motive)),
			zap.String("recipient", event.Recipient),
		)
		return
	}

	d.log.Debug("Notification queued",
		zap.String("motive", string(event.Motive)),
		zap.String("recipient", event.Recipient),
	)
}
