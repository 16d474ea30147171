package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	JobSessionCleanup     = "session_cleanup"
	JobIdempotencyCleanup = "idempotency_cleanup"
)

// Idempotency replays only make sense shortly after the original request,
// so stored responses older than this are safe to drop.
const idempotencyRetention = 24 * time.Hour

type Service struct {
	DB    *pgxpool.Pool
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool) *Service {
	return &Service{
		DB:    db,
		queue: make(chan job, 128),
	}
}

// Start launches the worker goroutine and, when interval is positive, a
// ticker that enqueues the maintenance jobs. An initial pass runs right
// away so long-idle deployments do not wait a full interval. Returns
// immediately.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	go s.worker(ctx)
	if interval > 0 {
		s.enqueueAll()
		go s.schedule(ctx, interval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueueAll()
		}
	}
}

func (s *Service) enqueueAll() {
	s.Enqueue(JobSessionCleanup, s.cleanupSessions)
	s.Enqueue(JobIdempotencyCleanup, s.cleanupIdempotencyKeys)
}

func (s *Service) cleanupSessions(ctx context.Context) (any, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM sessions
    WHERE expires_at < now() OR revoked_at IS NOT NULL
  `)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": tag.RowsAffected()}, nil
}

func (s *Service) cleanupIdempotencyKeys(ctx context.Context) (any, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM idempotency_keys
    WHERE created_at < $1
  `, time.Now().Add(-idempotencyRetention))
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": tag.RowsAffected()}, nil
}
