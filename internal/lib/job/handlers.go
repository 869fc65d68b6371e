package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"

	"github.com/npyskills/contact-api/internal/contact"
	"github.com/npyskills/contact-api/internal/notify"
)

// Deliverer performs one channel send. *notify.Dispatcher implements it.
type Deliverer interface {
	DeliverChannel(ctx context.Context, ch notify.Channel, n contact.Notification) notify.Result
}

// InitHandlers sets what queued notifications are delivered through.
// It must be called before Start.
func (j *JobService) InitHandlers(d Deliverer) {
	j.deliverer = d
}

// handleNotifyTask decodes the payload and delivers it.
//
// A failed send is logged by the deliverer and reported to asynq as
// SkipRetry so the task is archived, not retried.
func (j *JobService) handleNotifyTask(ctx context.Context, t *asynq.Task) error {
	var p NotifyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return errors.Wrapf(asynq.SkipRetry, "unmarshal notify payload: %v", err)
	}

	if j.deliverer == nil {
		return errors.Wrap(asynq.SkipRetry, "job handlers not initialised")
	}

	j.logger.Debug().
		Str("type", TaskNotify).
		Str("channel", string(p.Channel)).
		Msg("Processing notification task")

	res := j.deliverer.DeliverChannel(ctx, p.Channel, p.Notification)
	if !res.Success {
		return errors.Wrapf(asynq.SkipRetry, "%s: %s", p.Channel, res.Error)
	}

	return nil
}
