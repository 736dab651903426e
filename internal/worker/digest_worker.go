package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/publicvoice/internal/events"
	"github.com/spec-kit/publicvoice/internal/service"
)

const digestTimeout = 30 * time.Second

// StatsSource provides the tallies carried by the digest.
type StatsSource interface {
	DashboardStats(ctx context.Context) (*service.DashboardStats, error)
}

// DigestWorker publishes complaint_digest events on a cron schedule.
type DigestWorker struct {
	stats      StatsSource
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewDigestWorker builds the worker.
func NewDigestWorker(stats StatsSource, dispatcher events.Dispatcher, logger *zap.Logger) *DigestWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestWorker{stats: stats, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// Start schedules the digest and starts the cron runner. An empty schedule returns a nil
// runner and no error.
func (w *DigestWorker) Start(schedule string) (*cron.Cron, error) {
	if schedule == "" {
		w.logger.Info("complaint digest disabled")
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		if err := w.Run(ctx); err != nil {
			w.logger.Error("complaint digest failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	w.logger.Info("complaint digest scheduled", zap.String("schedule", schedule))
	return c, nil
}

// Run computes the current tallies and publishes one digest event.
func (w *DigestWorker) Run(ctx context.Context) error {
	stats, err := w.stats.DashboardStats(ctx)
	if err != nil {
		return err
	}
	return w.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventComplaintDigest,
		Timestamp: w.now(),
		Payload: events.ComplaintDigestPayload{
			Total:      stats.Total,
			Pending:    stats.Pending,
			InProgress: stats.InProgress,
			Resolved:   stats.Resolved,
			Rejected:   stats.Rejected,
		},
	})
}
