// Package kafka ships audit events to a Kafka topic, keyed by subject so one
// identity's events stay ordered within a partition.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	id "sybilguard/pkg/domain"
	audit "sybilguard/pkg/platform/audit"
)

// ErrListUnsupported is returned by ListBySubject when no mirror store is set.
var ErrListUnsupported = errors.New("audit events are write-only on kafka")

// Producer publishes one record.
type Producer interface {
	Publish(ctx context.Context, key, value []byte, headers map[string]string) error
}

// Store implements audit.Store on top of a Producer.
type Store struct {
	producer Producer
	mirror   audit.Store
}

type Option func(*Store)

// WithMirror also appends every event to a queryable store, which then
// serves ListBySubject.
func WithMirror(mirror audit.Store) Option {
	return func(s *Store) {
		s.mirror = mirror
	}
}

func New(producer Producer, opts ...Option) (*Store, error) {
	if producer == nil {
		return nil, errors.New("producer is required")
	}
	s := &Store{producer: producer}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type eventRecord struct {
	ID        string            `json:"id"`
	Category  string            `json:"category"`
	Timestamp time.Time         `json:"timestamp"`
	Subject   string            `json:"subject,omitempty"`
	Action    string            `json:"action"`
	Decision  string            `json:"decision,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	ActorID   string            `json:"actor_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(eventRecord{
		ID:        event.ID,
		Category:  string(event.Category),
		Timestamp: event.Timestamp,
		Subject:   event.Subject.String(),
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
		Metadata:  event.Metadata,
	})
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	headers := map[string]string{
		"action":   event.Action,
		"category": string(event.Category),
	}
	if err := s.producer.Publish(ctx, []byte(event.Subject), value, headers); err != nil {
		return err
	}
	if s.mirror != nil {
		return s.mirror.Append(ctx, event)
	}
	return nil
}

func (s *Store) ListBySubject(ctx context.Context, subject id.IdentityID) ([]audit.Event, error) {
	if s.mirror == nil {
		return nil, ErrListUnsupported
	}
	return s.mirror.ListBySubject(ctx, subject)
}
