package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/npyskills/contact-api/internal/contact"
)

// DefaultChannelTimeout bounds a single channel send when none is configured.
const DefaultChannelTimeout = 10 * time.Second

// Enqueuer hands an optional channel send to a background queue.
// *job.JobService implements it.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, ch Channel, n contact.Notification) error
}

// Dispatcher sends a notification over the primary channel and then fans it
// out to the optional ones.
type Dispatcher struct {
	primary  Notifier
	optional []Notifier
	timeout  time.Duration
	logger   *zerolog.Logger

	enqueuer Enqueuer
	inflight sync.WaitGroup
}

func NewDispatcher(logger *zerolog.Logger, timeout time.Duration, primary Notifier, optional ...Notifier) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultChannelTimeout
	}
	return &Dispatcher{
		primary:  primary,
		optional: optional,
		timeout:  timeout,
		logger:   logger,
	}
}

// UseQueue routes optional channels through q instead of in-process
// goroutines. A nil q restores the in-process behaviour.
func (d *Dispatcher) UseQueue(q Enqueuer) {
	d.enqueuer = q
}

// Dispatch sends n over the primary channel and waits for the outcome, then
// starts every configured optional channel without waiting for them.
//
// The returned Result is informational only; callers must not turn a primary
// failure into a client error.
//
// Every send is detached from ctx cancellation: a client that disconnects
// mid-request must not abort the admin email, which is the only record of
// the submission. The channel timeout still bounds each send.
func (d *Dispatcher) Dispatch(ctx context.Context, n contact.Notification) Result {
	ctx = context.WithoutCancel(ctx)

	res := d.Deliver(ctx, d.primary, n)
	d.fanOut(ctx, n)
	return res
}

func (d *Dispatcher) fanOut(ctx context.Context, n contact.Notification) {
	log := d.log(ctx)

	var pending []Notifier
	for _, nt := range d.optional {
		if !nt.Configured() {
			log.Debug().Str("channel", string(nt.Channel())).Msg("notification channel not configured, skipping")
			continue
		}

		if d.enqueuer != nil {
			err := d.enqueuer.EnqueueNotification(ctx, nt.Channel(), n)
			if err == nil {
				continue
			}
			log.Warn().Err(err).Str("channel", string(nt.Channel())).Msg("failed to enqueue notification, sending in process")
		}
		pending = append(pending, nt)
	}

	if len(pending) == 0 {
		return
	}

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()

		var g errgroup.Group
		for _, nt := range pending {
			g.Go(func() error {
				d.Deliver(ctx, nt, n)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Deliver runs one notifier under the channel timeout, converts a panic into
// a failed Result and logs the outcome.
func (d *Dispatcher) Deliver(ctx context.Context, nt Notifier, n contact.Notification) (res Result) {
	ch := nt.Channel()
	log := d.log(ctx)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			res = failed(ch, errors.Wrap(err, "notifier panicked"))
		}

		event := log.Info()
		if !res.Success {
			event = log.Warn()
		}
		event.
			Str("channel", string(ch)).
			Bool("success", res.Success).
			Str("identifier", res.Identifier).
			Str("error", res.Error).
			Dur("duration", time.Since(start)).
			Msg("notification delivery finished")
	}()

	return nt.Send(ctx, n)
}

// DeliverChannel delivers n over the named optional channel. It is the entry
// point for queued sends.
func (d *Dispatcher) DeliverChannel(ctx context.Context, ch Channel, n contact.Notification) Result {
	nt := d.Notifier(ch)
	if nt == nil {
		return Result{Channel: ch, Error: "unknown channel"}
	}
	return d.Deliver(ctx, nt, n)
}

// Notifier returns the notifier for ch, or nil.
func (d *Dispatcher) Notifier(ch Channel) Notifier {
	if d.primary != nil && d.primary.Channel() == ch {
		return d.primary
	}
	for _, nt := range d.optional {
		if nt.Channel() == ch {
			return nt
		}
	}
	return nil
}

// Notifiers returns every channel, primary first.
func (d *Dispatcher) Notifiers() []Notifier {
	return append([]Notifier{d.primary}, d.optional...)
}

// Wait blocks until in-process background sends finish or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	if d.logger != nil {
		return d.logger
	}
	nop := zerolog.Nop()
	return &nop
}
