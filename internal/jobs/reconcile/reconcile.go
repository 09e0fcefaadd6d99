package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultBatchSize = 100

type Reconciler interface {
	Reconcile(ctx context.Context, batch int) (int, error)
}

// Job creates matches for mutual likes that were recorded without one.
type Job struct {
	reconciler Reconciler
	batchSize  int
	logger     *zap.Logger
	now        func() time.Time
}

func New(reconciler Reconciler, batchSize int, logger *zap.Logger) *Job {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{
		reconciler: reconciler,
		batchSize:  batchSize,
		logger:     logger,
		now:        time.Now,
	}
}

// Run sweeps in batches until a batch creates nothing, and returns the total created.
func (j *Job) Run(ctx context.Context) (int, error) {
	if j.reconciler == nil {
		return 0, nil
	}

	started := j.now()
	total := 0
	for {
		created, err := j.reconciler.Reconcile(ctx, j.batchSize)
		total += created
		if err != nil {
			return total, fmt.Errorf("reconcile matches: %w", err)
		}
		if created < j.batchSize {
			break
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}

	if total > 0 {
		j.logger.Info("reconcile matches completed",
			zap.Int("created", total),
			zap.Duration("took", j.now().Sub(started)),
		)
	}
	return total, nil
}

// Loop runs the job immediately and then every interval until ctx is done.
// A failed sweep is logged and retried on the next tick.
func (j *Job) Loop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	j.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runLogged(ctx)
		}
	}
}

func (j *Job) runLogged(ctx context.Context) {
	if _, err := j.Run(ctx); err != nil && ctx.Err() == nil {
		j.logger.Warn("reconcile sweep failed", zap.Error(err))
	}
}
