package queue

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/api/metrics"
	"github.com/foodapp/storefront/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrStopped is returned by Enqueue after the workers have stopped.
var ErrStopped = errors.New("dispatcher stopped")

// Sink receives dispatched notifications.
type Sink interface {
	Insert(ctx context.Context, n *domain.Notification) error
}

// Dispatcher routes notifications to a fixed set of workers sharded by user
// id, so one user's notifications are persisted in the order they were raised.
type Dispatcher struct {
	workers []chan *domain.Notification
	sink    Sink
	done    chan struct{}
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink Sink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan *domain.Notification, numWorkers),
		sink:    sink,
		done:    make(chan struct{}),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.done)
	}()
}

// Enqueue hands n to the worker responsible for its user. It blocks while that
// worker's buffer is full, until ctx ends or the dispatcher stops.
func (d *Dispatcher) Enqueue(ctx context.Context, n *domain.Notification) error {
	idx := d.shardIndex(n.UserID)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrStopped
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	if userID < 0 {
		userID = -userID
	}
	return int(userID % int64(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.Notification) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-ch:
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.sink.Insert(ctx, n); err != nil {
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("notification_id", n.ID).
					Int64("user_id", n.UserID).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues("delivered").Inc()
		}
	}
}
