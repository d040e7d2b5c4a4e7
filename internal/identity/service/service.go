// Package service implements identity verification, manual overrides and the
// analysis pipeline on top of the identity store ports.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"sybilguard/internal/identity/cluster"
	"sybilguard/internal/identity/config"
	"sybilguard/internal/identity/metrics"
	"sybilguard/internal/identity/models"
	"sybilguard/internal/identity/ports"
	"sybilguard/internal/identity/scoring"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
	"sybilguard/pkg/platform/audit"
	"sybilguard/pkg/platform/sentinel"
)

// Type aliases for shared interfaces.
type (
	MatrixStore      = ports.MatrixStore
	GraphStore       = ports.GraphStore
	VerdictStore     = ports.VerdictStore
	ActivityProvider = ports.ActivityProvider
	AuditPublisher   = ports.AuditPublisher
	Honeypot         = ports.Honeypot
)

const tracerName = "sybilguard/identity"

// Manual override scores.
const (
	ManualVerifiedScore = 0.95
	ManualFlaggedScore  = 0.05
	ManualSuspicion     = 1.0
)

// ReasonManualFlag is recorded when an operator flags without giving a reason.
const ReasonManualFlag = "manually flagged"

type Service struct {
	matrices       MatrixStore
	graph          GraphStore
	verdicts       VerdictStore
	provider       ActivityProvider
	honeypot       Honeypot
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	cfg            *config.Config
	scorer         *scoring.Engine
	detector       *cluster.Detector
	clusterOpts    []cluster.Option

	initOnce sync.Once
	initMu   sync.Mutex
	initErr  error
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithHoneypot registers the decoy setup hook run by Initialize.
func WithHoneypot(h Honeypot) Option {
	return func(s *Service) {
		s.honeypot = h
	}
}

// WithScoringEngine replaces the default engine built from the config.
func WithScoringEngine(engine *scoring.Engine) Option {
	return func(s *Service) {
		s.scorer = engine
	}
}

// WithClusterOptions passes options through to the cluster detector.
func WithClusterOptions(opts ...cluster.Option) Option {
	return func(s *Service) {
		s.clusterOpts = append(s.clusterOpts, opts...)
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(matrices MatrixStore, graph GraphStore, verdicts VerdictStore, provider ActivityProvider, opts ...Option) (*Service, error) {
	if matrices == nil {
		return nil, errors.New("matrix store is required")
	}
	if graph == nil {
		return nil, errors.New("graph store is required")
	}
	if verdicts == nil {
		return nil, errors.New("verdict store is required")
	}
	if provider == nil {
		return nil, errors.New("activity provider is required")
	}

	svc := &Service{
		matrices: matrices,
		graph:    graph,
		verdicts: verdicts,
		provider: provider,
		cfg:      config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer(tracerName)
	}
	if svc.scorer == nil {
		svc.scorer = scoring.New(scoring.WithStalenessWindow(svc.cfg.StalenessWindow))
	}

	clusterOpts := append([]cluster.Option{
		cluster.WithLogger(svc.logger),
		cluster.WithMaxClusterSize(svc.cfg.MaxClusterSize),
	}, svc.clusterOpts...)
	detector, err := cluster.New(graph, verdicts, clusterOpts...)
	if err != nil {
		return nil, err
	}
	svc.detector = detector

	return svc, nil
}

// Config returns the engine configuration.
func (s *Service) Config() config.Config {
	return *s.cfg
}

// Initialize runs the one-time engine setup. Later calls return the first
// outcome.
func (s *Service) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.setInitErr(s.setup(ctx))
	})
	return s.initError()
}

// ensureInitialized runs Initialize and retries setup once if it had failed.
func (s *Service) ensureInitialized(ctx context.Context) error {
	if err := s.Initialize(ctx); err == nil {
		return nil
	}
	err := s.setup(ctx)
	s.setInitErr(err)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "identity engine failed to initialize")
	}
	return nil
}

func (s *Service) setup(ctx context.Context) error {
	if s.cfg.HoneypotEnabled && s.honeypot != nil {
		if err := s.honeypot.Setup(ctx); err != nil {
			s.logger.ErrorContext(ctx, "honeypot setup failed", "error", err)
			return err
		}
		ports.LogAudit(ctx, s.logger, s.auditPublisher, string(audit.EventHoneypotInitialized))
	}
	s.logger.InfoContext(ctx, "identity engine initialized",
		"mode", s.cfg.Mode,
		"minimum_strength", s.cfg.MinimumIdentityStrength,
		"honeypot_enabled", s.cfg.HoneypotEnabled,
	)
	return nil
}

func (s *Service) setInitErr(err error) {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	s.initErr = err
}

func (s *Service) initError() error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	return s.initErr
}

// Identity returns everything known about one identity.
func (s *Service) Identity(ctx context.Context, identity id.IdentityID) (*models.IdentityDetails, error) {
	if identity.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}

	details := &models.IdentityDetails{ID: identity}

	matrix, err := s.matrices.GetMatrix(ctx, identity)
	switch {
	case err == nil:
		details.Matrix = matrix
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity matrix")
	}

	score, err := s.currentScore(ctx, identity)
	if err != nil {
		return nil, err
	}
	details.Score = score

	verdict, err := s.verdicts.Verdict(ctx, identity)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity verdict")
	}
	details.Verified = verdict.Verified
	details.Suspect = verdict.Suspect

	if details.Matrix == nil && details.Score == nil && !details.Verified && details.Suspect == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "identity not found")
	}
	return details, nil
}

// CurrentScore returns the stored score, or nil when the identity was never scored.
func (s *Service) CurrentScore(ctx context.Context, identity id.IdentityID) (*models.IdentityScore, error) {
	return s.currentScore(ctx, identity)
}

func (s *Service) currentScore(ctx context.Context, identity id.IdentityID) (*models.IdentityScore, error) {
	score, err := s.matrices.GetScore(ctx, identity)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity score")
	}
	return score, nil
}

// Snapshot aggregates the stored scores and verdict sets. Queue and sweep
// fields are left for the scheduler to fill in.
func (s *Service) Snapshot(ctx context.Context) (models.Stats, error) {
	stats := models.Stats{ByStrength: make(map[models.Strength]int, len(models.AllStrengths))}

	scores, err := s.matrices.ListScores(ctx)
	if err != nil {
		return stats, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list scores")
	}
	var total float64
	for _, score := range scores {
		stats.ByStrength[score.Strength]++
		total += score.Score
	}
	stats.TotalIdentities = len(scores)
	if len(scores) > 0 {
		stats.AverageScore = total / float64(len(scores))
	}

	suspects, err := s.verdicts.ListSuspects(ctx)
	if err != nil {
		return stats, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list suspects")
	}
	stats.SuspectedCount = len(suspects)

	if stats.VerifiedCount, err = s.verdicts.CountVerified(ctx); err != nil {
		return stats, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count verified identities")
	}
	return stats, nil
}
