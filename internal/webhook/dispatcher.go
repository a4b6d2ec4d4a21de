package webhook

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Poster delivers one event synchronously.
type Poster interface {
	Post(ctx context.Context, event Event, payload any) error
}

type job struct {
	event   Event
	payload any
}

// Dispatcher sends webhooks off the request path. Failures are logged and dropped.
type Dispatcher struct {
	poster  Poster
	log     *zap.Logger
	timeout time.Duration
	queue   chan job
	done    chan struct{}
	once    sync.Once
}

func NewDispatcher(poster Poster, timeout time.Duration, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	d := &Dispatcher{
		poster:  poster,
		log:     log,
		timeout: timeout,
		queue:   make(chan job, 100),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for j := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.poster.Post(ctx, j.event, j.payload); err != nil {
			d.log.Warn("webhook failed", zap.String("event", string(j.event)), zap.Error(err))
		}
		cancel()
	}
}

// Notify never blocks.
func (d *Dispatcher) Notify(event Event, payload any) {
	if d == nil {
		return
	}

	select {
	case d.queue <- job{event: event, payload: payload}:
	default:
		d.log.Warn("webhook queue full, dropping event", zap.String("event", string(event)))
	}
}

func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
