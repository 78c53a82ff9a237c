package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

const autoConfirmQueue = "auto_confirm"

// AutoConfirmArgs - периодическая задача авто-подтверждения отчётов.
type AutoConfirmArgs struct{}

func (AutoConfirmArgs) Kind() string { return "auto_confirm_reports" }

type AutoConfirmWorker struct {
	river.WorkerDefaults[AutoConfirmArgs]
	confirmer AutoConfirmer
	logger    *slog.Logger
}

func NewAutoConfirmWorker(confirmer AutoConfirmer, logger *slog.Logger) *AutoConfirmWorker {
	return &AutoConfirmWorker{confirmer: confirmer, logger: logger}
}

func (w *AutoConfirmWorker) Work(ctx context.Context, job *river.Job[AutoConfirmArgs]) error {
	summary, err := w.confirmer.AutoConfirmDue(ctx)
	if err != nil {
		return fmt.Errorf("auto-confirm job %d: %w", job.ID, err)
	}
	w.logger.Debug("auto-confirm job finished",
		slog.Int64("job_id", job.ID), slog.Int("confirmed", summary.Confirmed), slog.Int("failed", summary.Failed))
	return nil
}

// Timeout bounds a single sweep.
func (w *AutoConfirmWorker) Timeout(*river.Job[AutoConfirmArgs]) time.Duration {
	return 5 * time.Minute
}

// RiverScheduler runs the sweep as a River periodic job on its own pgx pool.
// River elects a single leader, so the sweep does not overlap across instances.
type RiverScheduler struct {
	pool   *pgxpool.Pool
	client *river.Client[pgx.Tx]
	logger *slog.Logger
}

func NewRiverScheduler(ctx context.Context, dsn string, confirmer AutoConfirmer, interval time.Duration, logger *slog.Logger) (*RiverScheduler, error) {
	logger = logger.With(slog.String("component", "river_scheduler"))

	pool, err := OpenPool(ctx, dsn)
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewAutoConfirmWorker(confirmer, logger))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			autoConfirmQueue: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(interval),
				func() (river.JobArgs, *river.InsertOpts) {
					return AutoConfirmArgs{}, &river.InsertOpts{Queue: autoConfirmQueue}
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
		Logger: logger,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	return &RiverScheduler{pool: pool, client: client, logger: logger}, nil
}

func (s *RiverScheduler) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("River auto-confirm scheduler started")
	return nil
}

func (s *RiverScheduler) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("River auto-confirm scheduler stopped")
	return nil
}

// OpenPool opens and pings a pgx pool. River requires pgx, not database/sql.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// MigrateRiver creates or upgrades River's own tables.
func MigrateRiver(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}
