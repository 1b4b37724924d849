package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/remindd/remindd/internal/model"
)

// ReminderEvent is emitted exactly once per task when its stored
// time-of-day matches the current minute.
type ReminderEvent struct {
	TaskID  string
	OwnerID string
	Text    string
	Time    string
}

// TaskSource supplies the per-tick snapshot of tasks still eligible
// for matching (pending, reminder time set).
type TaskSource interface {
	ListPendingScheduled(ctx context.Context) ([]model.Task, error)
}

// Marker persists the pending -> notified transition.
type Marker interface {
	MarkNotified(ctx context.Context, id string) error
}

// Notifier polls the task set on a fixed interval and fires one
// reminder per matching task. Matching is exact minute-string
// equality, so a tick that never runs during the matching minute
// misses that reminder for the day; there is no backfill scan.
type Notifier struct {
	interval time.Duration
	clock    func() time.Time
	source   TaskSource
	marker   Marker
	logger   *slog.Logger

	out     chan ReminderEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	started bool
	stopped bool
	dropped uint64
}

type Option func(*Notifier)

// WithClock replaces the wall clock, letting tests drive simulated
// minutes through Tick without real delays.
func WithClock(clock func() time.Time) Option {
	return func(n *Notifier) { n.clock = clock }
}

func WithInterval(interval time.Duration) Option {
	return func(n *Notifier) {
		if interval > 0 {
			n.interval = interval
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

func NewNotifier(source TaskSource, marker Marker, bufferSize int, opts ...Option) *Notifier {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	n := &Notifier{
		interval: time.Minute,
		clock:    time.Now,
		source:   source,
		marker:   marker,
		logger:   slog.Default(),
		out:      make(chan ReminderEvent, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) C() <-chan ReminderEvent {
	return n.out
}

func (n *Notifier) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started {
		return
	}
	n.started = true
	go n.loop()
}

func (n *Notifier) Stop() {
	n.mu.Lock()
	if !n.started || n.stopped {
		n.mu.Unlock()
		return
	}
	n.stopped = true
	close(n.stopCh)
	n.mu.Unlock()
	<-n.doneCh
}

func (n *Notifier) Dropped() uint64 {
	return atomic.LoadUint64(&n.dropped)
}

func (n *Notifier) loop() {
	defer close(n.doneCh)
	defer close(n.out)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n.Tick(context.Background(), n.clock())
		case <-n.stopCh:
			return
		}
	}
}

// Tick runs one matching pass against a single snapshot taken at the
// start of the pass. For every pending task whose time equals the
// current minute it emits one event and then persists the notified
// flip. If the flip cannot be persisted the task stays pending and
// the next matching tick fires again: a duplicate reminder is
// acceptable, a silently lost one is not.
func (n *Notifier) Tick(ctx context.Context, now time.Time) {
	minute := model.MinuteOf(now)

	tasks, err := n.source.ListPendingScheduled(ctx)
	if err != nil {
		n.logger.Warn("reminder snapshot failed, retrying next tick", "error", err)
		return
	}

	for _, t := range tasks {
		if t.Phase() != model.PhasePending || t.Time != minute {
			continue
		}
		n.emit(ReminderEvent{
			TaskID:  t.ID,
			OwnerID: t.OwnerID,
			Text:    t.Text,
			Time:    t.Time,
		})
		if err := n.marker.MarkNotified(ctx, t.ID); err != nil {
			n.logger.Warn("notified flip failed, task stays pending",
				"task_id", t.ID, "error", err)
		}
	}
}

func (n *Notifier) emit(ev ReminderEvent) {
	select {
	case n.out <- ev:
	default:
		atomic.AddUint64(&n.dropped, 1)
	}
}
