package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sybilguard/internal/identity/config"
	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
	audit "sybilguard/pkg/platform/audit"
	"sybilguard/pkg/platform/httputil"
	"sybilguard/pkg/requestcontext"
)

// Service defines the identity operations exposed over HTTP.
type Service interface {
	VerifyIdentity(ctx context.Context, identity id.IdentityID, required models.Strength) (*models.VerificationResult, error)
	Identity(ctx context.Context, identity id.IdentityID) (*models.IdentityDetails, error)
	RegisterRelationship(ctx context.Context, source, target id.IdentityID, relType models.RelationshipType, strength float64, metadata map[string]string) error
	FindRelatedAccounts(ctx context.Context, seed id.IdentityID) ([]id.IdentityID, error)
	MarkAsVerifiedHuman(ctx context.Context, identity id.IdentityID, data map[string]string) error
	FlagAsSybil(ctx context.Context, identity id.IdentityID, reasons []string) error
	Config() config.Config
}

// Scheduler defines the background analysis operations exposed over HTTP.
type Scheduler interface {
	RequestAnalysis(ctx context.Context, req models.AnalysisRequest) models.AnalysisStatus
	LastClusters() []models.Cluster
	Stats() models.Stats
}

// AuditLog reads back the audit trail of one identity.
type AuditLog interface {
	ListBySubject(ctx context.Context, subject id.IdentityID) ([]audit.Event, error)
}

// Handler wires identity endpoints to the verification service and scheduler.
type Handler struct {
	service   Service
	scheduler Scheduler
	auditLog  AuditLog
	logger    *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithAuditLog enables GET /admin/identity/{address}/audit.
func WithAuditLog(log AuditLog) Option {
	return func(h *Handler) {
		h.auditLog = log
	}
}

func New(service Service, scheduler Scheduler, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:   service,
		scheduler: scheduler,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the public identity endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identity/verify", h.HandleVerify)
	r.Post("/identity/analyze", h.HandleAnalyze)
	r.Post("/identity/relationships", h.HandleRegisterRelationship)
	r.Get("/identity/clusters", h.HandleClusters)
	r.Get("/identity/status", h.HandleStatus)
	r.Get("/identity/{address}", h.HandleGetIdentity)
	r.Get("/identity/{address}/related", h.HandleRelated)
}

// RegisterAdmin mounts the manual override endpoints. The caller is
// responsible for putting them behind admin authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/identity/{address}/verify-human", h.HandleMarkVerifiedHuman)
	r.Post("/admin/identity/{address}/flag", h.HandleFlagSybil)
	r.Get("/admin/identity/{address}/audit", h.HandleAuditTrail)
}

// HandleVerify handles POST /identity/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.VerifyIdentity(ctx, req.ParsedAddress(), req.ParsedStrength())
	if err != nil {
		h.logger.ErrorContext(ctx, "identity verification failed",
			"request_id", requestID,
			"address", req.ParsedAddress(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "identity verified",
		"request_id", requestID,
		"address", result.Address,
		"passed", result.Passed,
		"strength", result.Strength,
	)
	httputil.WriteJSON(w, http.StatusOK, FromVerification(result))
}

// HandleAnalyze handles POST /identity/analyze. Queued requests answer 202.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AnalyzeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	status := h.scheduler.RequestAnalysis(ctx, models.AnalysisRequest{
		ID:           req.ParsedAddress(),
		Urgent:       req.Urgent,
		ForceRefresh: req.ForceRefresh,
	})
	if status.Err != nil {
		h.logger.WarnContext(ctx, "identity analysis failed",
			"request_id", requestID,
			"address", req.ParsedAddress(),
			"error", status.Err,
		)
		httputil.WriteError(w, status.Err)
		return
	}

	code := http.StatusOK
	if status.Queued {
		code = http.StatusAccepted
	}
	httputil.WriteJSON(w, code, FromAnalysisStatus(status))
}

// HandleGetIdentity handles GET /identity/{address}.
func (h *Handler) HandleGetIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address, ok := h.addressParam(w, r)
	if !ok {
		return
	}

	details, err := h.service.Identity(ctx, address)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "identity lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"address", address,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIdentityDetails(details))
}

// HandleRegisterRelationship handles POST /identity/relationships.
func (h *Handler) HandleRegisterRelationship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RelationshipRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	err := h.service.RegisterRelationship(ctx, req.ParsedSource(), req.ParsedTarget(), req.ParsedType(), req.Strength, req.Metadata)
	if err != nil {
		h.logger.ErrorContext(ctx, "relationship registration failed",
			"request_id", requestID,
			"source", req.ParsedSource(),
			"target", req.ParsedTarget(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &RelationshipResponse{
		Source:   req.ParsedSource().String(),
		Target:   req.ParsedTarget().String(),
		Type:     string(req.ParsedType()),
		Strength: req.Strength,
	})
}

// HandleRelated handles GET /identity/{address}/related.
func (h *Handler) HandleRelated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address, ok := h.addressParam(w, r)
	if !ok {
		return
	}

	related, err := h.service.FindRelatedAccounts(ctx, address)
	if err != nil {
		h.logger.ErrorContext(ctx, "related account lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"address", address,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRelated(address, related))
}

// HandleClusters handles GET /identity/clusters.
func (h *Handler) HandleClusters(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromClusters(h.scheduler.LastClusters()))
}

// HandleStatus handles GET /identity/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromStats(h.service.Config(), h.scheduler.Stats()))
}

// HandleMarkVerifiedHuman handles POST /admin/identity/{address}/verify-human.
func (h *Handler) HandleMarkVerifiedHuman(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	address, ok := h.addressParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerifyHumanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.MarkAsVerifiedHuman(ctx, address, req.Data); err != nil {
		h.logger.ErrorContext(ctx, "manual verification failed",
			"request_id", requestID,
			"address", address,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "identity manually verified",
		"request_id", requestID,
		"address", address,
		"actor", requestcontext.Actor(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, &OverrideResponse{Address: address.String(), Status: "verified"})
}

// HandleFlagSybil handles POST /admin/identity/{address}/flag.
func (h *Handler) HandleFlagSybil(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	address, ok := h.addressParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FlagRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.FlagAsSybil(ctx, address, req.Reasons); err != nil {
		h.logger.ErrorContext(ctx, "manual flag failed",
			"request_id", requestID,
			"address", address,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "identity manually flagged",
		"request_id", requestID,
		"address", address,
		"actor", requestcontext.Actor(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, &OverrideResponse{Address: address.String(), Status: "flagged"})
}

// HandleAuditTrail handles GET /admin/identity/{address}/audit.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address, ok := h.addressParam(w, r)
	if !ok {
		return
	}
	if h.auditLog == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "audit trail is not readable in this deployment"))
		return
	}

	events, err := h.auditLog.ListBySubject(ctx, address)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"address", address,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "audit trail unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAuditTrail(address, events))
}

func (h *Handler) addressParam(w http.ResponseWriter, r *http.Request) (id.IdentityID, bool) {
	address, err := id.ParseIdentityID(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return address, true
}
