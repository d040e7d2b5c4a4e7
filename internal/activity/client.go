// Package activity adapts a remote account-activity API to the identity
// engine's ActivityProvider port.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
	"sybilguard/pkg/platform/circuit"
)

const (
	defaultProviderName = "activity-api"
	defaultMaxRetries   = 0
	defaultRetryDelay   = 200 * time.Millisecond
	maxResponseBytes    = 1 << 20
)

// Client fetches account activity over HTTP:
//
//	GET {base}/accounts/{id}/activity
//
// Retryable failures are retried with exponential backoff when WithRetries
// allows it; by default a failure is returned as is. Consecutive
// provider failures open the circuit breaker, after which calls fail fast
// until the cooldown lets a probe through.
type Client struct {
	name       string
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
	maxRetries uint64
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetries sets how many times a retryable failure is retried and the
// initial backoff delay.
func WithRetries(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = uint64(maxRetries)
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

func WithName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.name = name
		}
	}
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("activity base url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse activity base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("activity base url must be http or https, got %q", u.Scheme)
	}

	c := &Client{
		name:    defaultProviderName,
		baseURL: u,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:     slog.Default(),
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = circuit.New(c.name)
	}
	return c, nil
}

// GetAccountActivity implements the identity engine's ActivityProvider port.
func (c *Client) GetAccountActivity(ctx context.Context, identity id.IdentityID) (*models.Activity, error) {
	if identity.IsNil() {
		return nil, NewProviderError(ErrorBadData, c.name, "identity id is required", nil)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryDelay
	policy.MaxElapsedTime = 0

	attempt := 0
	op := func() (*models.Activity, error) {
		attempt++
		if !c.breaker.Allow() {
			return nil, backoff.Permanent(NewProviderError(ErrorCircuitOpen, c.name, "circuit breaker open", nil))
		}
		activity, err := c.fetch(ctx, identity)
		c.record(ctx, err)
		if err != nil && !IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return activity, err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.DebugContext(ctx, "retrying activity lookup",
			"provider", c.name,
			"identity", identity,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	activity, err := backoff.RetryNotifyWithData(op,
		backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx), notify)
	if err != nil {
		var pe *ProviderError
		if !errors.As(err, &pe) {
			// Context ended between attempts.
			return nil, NewProviderError(ErrorTimeout, c.name, "activity lookup cancelled", err)
		}
		return nil, err
	}
	return activity, nil
}

// record feeds provider health into the breaker. Lookups that fail because of
// the account itself (not found, bad data) do not count against the provider.
func (c *Client) record(ctx context.Context, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil && !CategoryOf(err).providerFault() {
		err = nil
	}
	if err == nil {
		if _, change := c.breaker.RecordSuccess(); change.Closed {
			c.logger.InfoContext(ctx, "activity provider circuit closed", "provider", c.name)
		}
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "activity provider circuit opened",
			"provider", c.name,
			"error", err,
		)
	}
}

func (c *Client) fetch(ctx context.Context, identity id.IdentityID) (*models.Activity, error) {
	endpoint := c.baseURL.JoinPath("accounts", url.PathEscape(identity.String()), "activity")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, NewProviderError(ErrorContractMismatch, c.name, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, NewProviderError(ErrorTimeout, c.name, "request timed out", err)
		}
		if errors.Is(err, context.Canceled) {
			return nil, &ProviderError{Category: ErrorTimeout, Provider: c.name, Message: "request cancelled", Underlying: err}
		}
		return nil, NewProviderError(ErrorProviderOutage, c.name, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewProviderError(ErrorNotFound, c.name, "account not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewProviderError(ErrorRateLimited, c.name, "rate limited", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewProviderError(ErrorAuthentication, c.name, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode >= 500:
		return nil, NewProviderError(ErrorProviderOutage, c.name, fmt.Sprintf("status %d", resp.StatusCode), nil)
	default:
		return nil, NewProviderError(ErrorContractMismatch, c.name, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload activityPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, NewProviderError(ErrorBadData, c.name, "decode activity", err)
	}
	activity, err := payload.toModel()
	if err != nil {
		return nil, NewProviderError(ErrorBadData, c.name, "invalid activity", err)
	}
	return activity, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// activityPayload is the provider's wire shape.
type activityPayload struct {
	FirstTransactionTime      time.Time `json:"first_transaction_time"`
	LastTransactionTime       time.Time `json:"last_transaction_time"`
	TransactionCount          int       `json:"transaction_count"`
	UniqueInteractedAddresses []string  `json:"unique_interacted_addresses"`
	TotalValueTransferred     float64   `json:"total_value_transferred"`
	ENSName                   string    `json:"ens_name"`
	ContractsCreated          []string  `json:"contracts_created"`
	TimingSignature           []float64 `json:"timing_signature"`
}

func (p activityPayload) toModel() (*models.Activity, error) {
	if p.TransactionCount < 0 {
		return nil, errors.New("transaction_count must not be negative")
	}
	if math.IsNaN(p.TotalValueTransferred) || p.TotalValueTransferred < 0 {
		return nil, errors.New("total_value_transferred must be a non-negative number")
	}
	if !p.FirstTransactionTime.IsZero() && !p.LastTransactionTime.IsZero() &&
		p.LastTransactionTime.Before(p.FirstTransactionTime) {
		return nil, errors.New("last_transaction_time precedes first_transaction_time")
	}

	interacted, err := parseIdentities(p.UniqueInteractedAddresses)
	if err != nil {
		return nil, fmt.Errorf("unique_interacted_addresses: %w", err)
	}
	contracts, err := parseIdentities(p.ContractsCreated)
	if err != nil {
		return nil, fmt.Errorf("contracts_created: %w", err)
	}

	return &models.Activity{
		FirstTransactionTime:      p.FirstTransactionTime,
		LastTransactionTime:       p.LastTransactionTime,
		TransactionCount:          p.TransactionCount,
		UniqueInteractedAddresses: interacted,
		TotalValueTransferred:     p.TotalValueTransferred,
		ENSName:                   p.ENSName,
		ContractsCreated:          contracts,
		TimingSignature:           p.TimingSignature,
	}, nil
}

func parseIdentities(values []string) ([]id.IdentityID, error) {
	out := make([]id.IdentityID, 0, len(values))
	for _, v := range values {
		parsed, err := id.ParseIdentityID(v)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}
