package app

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/queuebot/internal/core/queue"
	"github.com/example/queuebot/internal/ports/primary"
	"github.com/example/queuebot/internal/ports/secondary"
)

// ErrDeliveryFailed marks a notification the transport could not deliver.
// The entry stays unnotified and is retried on the next tick.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Notifier periodically tells the earliest un-notified participant that
// they are up next. Each entry is notified at most once.
type Notifier struct {
	queue     primary.NotificationQueue
	messenger secondary.Messenger
	interval  time.Duration
	log       *logrus.Entry
}

// NewNotifier creates a Notifier that scans the queue every interval.
func NewNotifier(q primary.NotificationQueue, messenger secondary.Messenger, interval time.Duration, log *logrus.Entry) *Notifier {
	return &Notifier{
		queue:     q,
		messenger: messenger,
		interval:  interval,
		log:       log.WithField("component", "notifier"),
	}
}

// Run ticks until ctx is cancelled. Tick failures are logged and never stop
// the loop. Returns nil on cancellation.
func (n *Notifier) Run(ctx context.Context) error {
	n.log.WithField("interval", n.interval).Info("notifier started")
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.log.Info("notifier stopped")
			return nil
		case <-ticker.C:
			// Errors are already logged by Tick.
			_, _ = n.Tick(ctx)
		}
	}
}

// Tick notifies the next pending entry, if any. Returns true when a
// notification was delivered and recorded.
func (n *Notifier) Tick(ctx context.Context) (bool, error) {
	pending, err := n.queue.NextToNotify(ctx)
	if err != nil {
		n.log.WithError(err).Error("failed to read next entry")
		return false, err
	}
	if pending == nil {
		return false, nil
	}

	log := n.log.WithFields(logrus.Fields{
		"participant_id": pending.ParticipantID,
		"sequence":       pending.Sequence,
	})

	if err := n.messenger.Notify(ctx, pending.ParticipantID, queue.UpNextText); err != nil {
		log.WithError(err).Warn("notification not delivered, will retry")
		return false, errors.Join(ErrDeliveryFailed, err)
	}

	marked, err := n.queue.MarkNotified(ctx, *pending)
	if err != nil {
		log.WithError(err).Error("notification delivered but not recorded")
		return false, err
	}
	if !marked {
		// The participant left while the message was in flight.
		log.Info("entry left the queue before acknowledgement")
		return false, nil
	}

	log.Info("participant notified")
	return true, nil
}
