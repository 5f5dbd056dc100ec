package cron

import (
	"context"
	"fmt"
	"time"

	"quickstay/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// PendingExpirer is the part of the booking service the sweeper drives.
type PendingExpirer interface {
	ExpireStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// Sweeper periodically cancels pending bookings whose payment never completed.
type Sweeper struct {
	scheduler *asynq.Scheduler
	server    *asynq.Server
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

// NewSweeper registers the expiry task under cronSpec and prepares the worker.
func NewSweeper(redisOpts asynq.RedisClientOpt, cronSpec string, ttl time.Duration, svc PendingExpirer, logger *zap.Logger) (*Sweeper, error) {
	task, opts, err := tasks.NewExpirePendingTask(ttl)
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register(cronSpec, task, opts...); err != nil {
		return nil, fmt.Errorf("failed to schedule %s with %q: %w", tasks.TypeExpirePending, cronSpec, err)
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeExpirePending, HandleExpirePending(svc, logger))

	return &Sweeper{scheduler: scheduler, server: srv, mux: mux, logger: logger}, nil
}

// Start runs the scheduler and the worker in the background.
func (s *Sweeper) Start() error {
	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("failed to start sweeper worker: %w", err)
	}
	if err := s.scheduler.Start(); err != nil {
		s.server.Shutdown()
		return fmt.Errorf("failed to start sweeper scheduler: %w", err)
	}
	s.logger.Info("pending booking sweeper started")
	return nil
}

// Shutdown stops scheduling and waits for an in-flight sweep.
func (s *Sweeper) Shutdown() {
	s.scheduler.Shutdown()
	s.server.Shutdown()
}

// HandleExpirePending runs one sweep.
func HandleExpirePending(svc PendingExpirer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseExpirePending(task)
		if err != nil {
			logger.Error("invalid sweep payload", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		n, err := svc.ExpireStale(ctx, p.OlderThan())
		if err != nil {
			logger.Error("pending booking sweep failed", zap.Int("expired", n), zap.Error(err))
			return err
		}
		logger.Debug("pending booking sweep finished", zap.Int("expired", n))
		return nil
	}
}
