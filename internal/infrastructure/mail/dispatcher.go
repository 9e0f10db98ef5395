package mail

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

type notification struct {
	user         *domain.User
	tempPassword string
}

// Dispatcher decouples email delivery from the request path: SendTempPassword
// enqueues and returns immediately, and a small worker pool performs the
// actual sends. Delivery stays fire-and-forget; a full queue drops the
// notification with a log entry rather than blocking a request.
type Dispatcher struct {
	queue      chan notification
	mailer     ports.Mailer
	numWorkers int
	wg         sync.WaitGroup
	log        zerolog.Logger
}

// NewDispatcher wraps mailer with an asynchronous queue. If numWorkers <= 0,
// defaultWorkers is used. Call Start before enqueueing.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Dispatcher{
		queue:      make(chan notification, channelBuffer),
		mailer:     mailer,
		numWorkers: numWorkers,
		log:        log,
	}
}

// Start launches the worker pool. Workers run until ctx is cancelled;
// notifications still queued at that point are dropped, consistent with the
// fire-and-forget contract.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx)
	}
}

// Wait blocks until every worker has exited. Call after cancelling the
// context passed to Start.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// SendTempPassword enqueues the notification and never blocks the caller.
func (d *Dispatcher) SendTempPassword(_ context.Context, user *domain.User, tempPassword string) error {
	select {
	case d.queue <- notification{user: user, tempPassword: tempPassword}:
	default:
		d.log.Warn().Str("email", user.Email).Msg("mail queue full, notification dropped")
	}
	return nil
}

func (d *Dispatcher) runWorker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.queue:
			if err := d.mailer.SendTempPassword(ctx, n.user, n.tempPassword); err != nil {
				d.log.Error().Err(err).Str("email", n.user.Email).Msg("temp password delivery failed")
			}
		}
	}
}
