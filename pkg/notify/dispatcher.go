package notify

import (
	"context"

	"github.com/roadwatch/roadwatch/pkg/alerts"
)

// QueueName is the redis queue monitors publish dispatch jobs onto.
const QueueName = "alerts-queue"

// DispatchJob is one queued notification: an alert plus where it goes.
type DispatchJob struct {
	PushToken string `json:"push_token"`
	UserID    string `json:"user_id,omitempty"`

	Alert alerts.Alert `json:"alert"`
}

type PushSender interface {
	SendAlert(ctx context.Context, pushToken string, alert alerts.Alert) error
}

type AlertSaver interface {
	Insert(ctx context.Context, alert alerts.Alert, userID string) error
}

// Dispatcher sends an alert to a device and records it in the history
// store. The two outcomes are reported separately - a failed save doesn't
// retroactively fail a delivered push.
type Dispatcher struct {
	Push  PushSender
	Store AlertSaver
}

func NewDispatcher(push PushSender, store AlertSaver) *Dispatcher {
	return &Dispatcher{
		Push:  push,
		Store: store,
	}
}

// Dispatch delivers the job's alert and, only after a successful delivery,
// persists it. deliveryErr is a DeliveryError, persistenceErr an
// alerts.PersistenceError.
func (d *Dispatcher) Dispatch(ctx context.Context, job DispatchJob) (deliveryErr error, persistenceErr error) {
	if err := d.Push.SendAlert(ctx, job.PushToken, job.Alert); err != nil {
		return err, nil
	}

	if err := d.Store.Insert(ctx, job.Alert, job.UserID); err != nil {
		return nil, err
	}

	return nil, nil
}
