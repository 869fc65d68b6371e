package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"

	"github.com/npyskills/contact-api/internal/contact"
	"github.com/npyskills/contact-api/internal/notify"
)

// TaskNotify is the job type name stored in Redis.
const TaskNotify = "notify:channel"

// NotifyPayload is the JSON payload of a queued channel send.
type NotifyPayload struct {
	Channel      notify.Channel       `json:"channel"`
	Notification contact.Notification `json:"notification"`
}

// NewNotifyTask builds the task for one optional channel send.
//
// Sends are never retried: MaxRetry(0) drops the task after the first
// failure, the same as an in-process send.
func NewNotifyTask(ch notify.Channel, n contact.Notification) (*asynq.Task, error) {
	payload, err := json.Marshal(NotifyPayload{Channel: ch, Notification: n})
	if err != nil {
		return nil, errors.Wrap(err, "marshal notify payload")
	}

	return asynq.NewTask(
		TaskNotify,
		payload,
		asynq.MaxRetry(0),
		asynq.Queue("critical"),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueNotification implements notify.Enqueuer.
func (j *JobService) EnqueueNotification(ctx context.Context, ch notify.Channel, n contact.Notification) error {
	task, err := NewNotifyTask(ch, n)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return errors.Wrapf(err, "enqueue %s notification", ch)
	}

	j.logger.Debug().
		Str("channel", string(ch)).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("queued notification")
	return nil
}
