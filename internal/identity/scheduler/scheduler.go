// Package scheduler runs background identity analysis and cluster sweeps.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sybilguard/internal/identity/metrics"
	"sybilguard/internal/identity/models"
	"sybilguard/internal/identity/ports"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
	"sybilguard/pkg/platform/audit"
	"sybilguard/pkg/requestcontext"
)

// Engine is the analysis surface of the verification service.
type Engine interface {
	NeedsAnalysis(ctx context.Context, identity id.IdentityID, force bool) (bool, error)
	FetchActivity(ctx context.Context, identity id.IdentityID) (*models.Activity, error)
	ApplyActivity(ctx context.Context, identity id.IdentityID, activity *models.Activity) (*models.IdentityScore, error)
	CurrentScore(ctx context.Context, identity id.IdentityID) (*models.IdentityScore, error)
	DetectSybilClusters(ctx context.Context) ([]models.Cluster, error)
	Snapshot(ctx context.Context) (models.Stats, error)
}

const (
	DefaultInterval = time.Minute
	DefaultWorkers  = 4
)

type job struct {
	id    id.IdentityID
	force bool
}

// prefetched is the outcome of the concurrent half of a job.
type prefetched struct {
	skipped  bool
	activity *models.Activity
	err      error
}

// Report summarizes one tick.
type Report struct {
	Analyzed int
	Skipped  int
	Failed   int
	Clusters []models.Cluster
}

type Scheduler struct {
	engine         Engine
	interval       time.Duration
	workers        int
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher ports.AuditPublisher

	mu       sync.Mutex
	queue    []job
	position map[id.IdentityID]int
	clusters []models.Cluster
	stats    models.Stats

	tickMu sync.Mutex

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Scheduler) {
		s.auditPublisher = publisher
	}
}

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithWorkers bounds concurrent activity prefetches during a tick.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

func New(engine Engine, opts ...Option) (*Scheduler, error) {
	if engine == nil {
		return nil, errors.New("analysis engine is required")
	}
	s := &Scheduler{
		engine:   engine,
		interval: DefaultInterval,
		workers:  DefaultWorkers,
		position: make(map[id.IdentityID]int),
		stats:    models.Stats{ByStrength: map[models.Strength]int{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// RequestAnalysis runs urgent requests inline and queues the rest. Queuing an
// identity that is already pending keeps its position and ORs the force flag.
func (s *Scheduler) RequestAnalysis(ctx context.Context, req models.AnalysisRequest) models.AnalysisStatus {
	status := models.AnalysisStatus{ID: req.ID}
	if req.ID.IsNil() {
		status.Err = dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
		return status
	}

	if !req.Urgent {
		depth := s.enqueue(job{id: req.ID, force: req.ForceRefresh})
		s.metrics.SetQueueDepth(depth)
		status.Queued = true
		return status
	}

	result := s.prefetch(ctx, job{id: req.ID, force: req.ForceRefresh})
	switch {
	case result.err != nil:
		status.Err = result.err
	case result.skipped:
		status.Skipped = true
		status.Completed = true
		status.Score, status.Err = s.engine.CurrentScore(ctx, req.ID)
		s.metrics.IncrementAnalysis(metrics.OutcomeSkipped)
	default:
		status.Score, status.Err = s.engine.ApplyActivity(ctx, req.ID, result.activity)
		status.Completed = status.Err == nil
	}
	return status
}

func (s *Scheduler) enqueue(j job) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.position[j.id]; ok {
		s.queue[i].force = s.queue[i].force || j.force
		return len(s.queue)
	}
	s.position[j.id] = len(s.queue)
	s.queue = append(s.queue, j)
	return len(s.queue)
}

func (s *Scheduler) drainQueue() []job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := s.queue
	s.queue = nil
	s.position = make(map[id.IdentityID]int)
	return jobs
}

// Pending returns the queue depth.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Tick processes the queued jobs, runs one cluster sweep and refreshes stats.
// Activity is fetched concurrently; results are applied one by one in queue
// order. Identities queued during a tick wait for the next one.
func (s *Scheduler) Tick(ctx context.Context) Report {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	var report Report
	jobs := s.drainQueue()
	results := make([]prefetched, len(jobs))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = s.prefetch(ctx, j)
			return nil
		})
	}
	_ = g.Wait()

	for i, j := range jobs {
		result := results[i]
		switch {
		case result.err != nil:
			report.Failed++
			s.logger.WarnContext(ctx, "queued analysis failed",
				"identity", j.id,
				"force", j.force,
				"error", result.err,
			)
		case result.skipped:
			report.Skipped++
			s.metrics.IncrementAnalysis(metrics.OutcomeSkipped)
		default:
			if _, err := s.engine.ApplyActivity(ctx, j.id, result.activity); err != nil {
				report.Failed++
				s.logger.WarnContext(ctx, "applying analysis failed",
					"identity", j.id,
					"error", err,
				)
				continue
			}
			report.Analyzed++
		}
	}

	report.Clusters = s.sweep(ctx)
	s.refreshStats(ctx, len(report.Clusters))

	s.logger.InfoContext(ctx, "identity analysis tick complete",
		"analyzed", report.Analyzed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"clusters", len(report.Clusters),
	)
	return report
}

func (s *Scheduler) prefetch(ctx context.Context, j job) prefetched {
	needed, err := s.engine.NeedsAnalysis(ctx, j.id, j.force)
	if err != nil {
		return prefetched{err: err}
	}
	if !needed {
		return prefetched{skipped: true}
	}
	activity, err := s.engine.FetchActivity(ctx, j.id)
	if err != nil {
		return prefetched{err: err}
	}
	return prefetched{activity: activity}
}

func (s *Scheduler) sweep(ctx context.Context) []models.Cluster {
	start := time.Now()
	clusters, err := s.engine.DetectSybilClusters(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "cluster sweep failed", "error", err)
		return nil
	}
	s.metrics.ObserveSweep(time.Since(start), len(clusters))

	for _, c := range clusters {
		ports.LogAudit(ctx, s.logger, s.auditPublisher, string(audit.EventSybilClusterDetected),
			"subject", c.Addresses[0],
			"decision", "cluster_detected",
			"cluster_id", c.ID,
			"size", len(c.Addresses),
			"suspicion_score", c.SuspicionScore,
		)
	}

	s.mu.Lock()
	s.clusters = clusters
	s.mu.Unlock()
	return clusters
}

func (s *Scheduler) refreshStats(ctx context.Context, clusters int) {
	stats, err := s.engine.Snapshot(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "refreshing identity stats failed", "error", err)
		return
	}

	s.mu.Lock()
	stats.PendingAnalyses = len(s.queue)
	stats.LastSweepAt = requestcontext.Now(ctx)
	stats.LastSweepClusters = clusters
	s.stats = stats
	s.mu.Unlock()

	s.metrics.SetStats(stats)
}

// LastClusters returns the clusters found by the latest successful sweep.
func (s *Scheduler) LastClusters() []models.Cluster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Cluster(nil), s.clusters...)
}

// Stats returns the snapshot taken at the end of the latest tick with the
// live queue depth.
func (s *Scheduler) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.ByStrength = make(map[models.Strength]int, len(s.stats.ByStrength))
	for k, v := range s.stats.ByStrength {
		stats.ByStrength[k] = v
	}
	stats.PendingAnalyses = len(s.queue)
	return stats
}

// Run ticks at the configured interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Start runs the scheduler in a background goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return errors.New("scheduler already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		_ = s.Run(ctx)
	}(s.done)

	s.logger.InfoContext(ctx, "identity analysis scheduler started",
		"interval", s.interval,
		"workers", s.workers,
	)
	return nil
}

// Stop cancels the run loop and waits up to timeout for the current tick.
func (s *Scheduler) Stop(timeout time.Duration) error {
	s.runMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.runMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("scheduler did not stop within %s", timeout)
	}
}
