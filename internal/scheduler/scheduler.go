package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yanqian/announcement-relay/internal/domain/announcement"
)

const defaultRunTimeout = 10 * time.Minute

// Config drives the periodic live run.
type Config struct {
	Spec     string
	Timeout  time.Duration
	Timezone string
}

// Scheduler triggers a live announcement run on a cron spec. An empty spec
// disables it.
type Scheduler struct {
	cfg  Config
	cron *cron.Cron
	svc  announcement.Service
	log  *slog.Logger
}

// New resolves the timezone. The spec itself is parsed in Start.
func New(cfg Config, svc announcement.Service, log *slog.Logger) (*Scheduler, error) {
	cfg.Spec = strings.TrimSpace(cfg.Spec)
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRunTimeout
	}
	s := &Scheduler{cfg: cfg, svc: svc, log: log.With("component", "scheduler")}
	if cfg.Spec == "" {
		return s, nil
	}

	loc := time.UTC
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load schedule timezone: %w", err)
		}
		loc = l
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	s.cron = c
	return s, nil
}

// Enabled reports whether a cron spec was configured.
func (s *Scheduler) Enabled() bool {
	return s != nil && s.cron != nil
}

// Start registers the run and starts the cron loop. Runs derive from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if _, err := s.cron.AddFunc(s.cfg.Spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("register schedule %q: %w", s.cfg.Spec, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", "spec", s.cfg.Spec, "timezone", s.cfg.Timezone)
	return nil
}

// Stop halts the cron loop and waits for an in-flight run up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out", "error", ctx.Err())
	}
}

func (s *Scheduler) run(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.Timeout)
	defer cancel()

	if ctx.Err() != nil {
		s.log.InfoContext(ctx, "scheduler context is done", "error", ctx.Err())
		return
	}

	resp, err := s.svc.Process(ctx, announcement.Request{})
	if err != nil {
		s.log.ErrorContext(ctx, "scheduled run failed", "error", err)
		return
	}
	s.log.InfoContext(ctx, "scheduled run finished",
		"run_id", resp.RunID,
		"company", resp.Company,
		"skipped", resp.Skipped,
		"sent", resp.Sent,
		"failed", resp.Failed)
}
