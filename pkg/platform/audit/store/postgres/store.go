// Package postgres keeps audit events in the audit_events table. Appends join
// a transaction carried in the context, so an override and its audit record
// can commit together.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	id "sybilguard/pkg/domain"
	audit "sybilguard/pkg/platform/audit"
	txcontext "sybilguard/pkg/platform/tx"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append is idempotent on event ID: a redelivered event is ignored.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	var metadata []byte
	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		metadata = raw
	}

	query := `
		INSERT INTO audit_events (
			id, category, timestamp, subject, action,
			decision, reason, request_id, actor_id, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		event.ID,
		string(event.Category),
		event.Timestamp,
		event.Subject.String(),
		event.Action,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ActorID,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListBySubject returns the subject's events in append order.
func (s *Store) ListBySubject(ctx context.Context, subject id.IdentityID) ([]audit.Event, error) {
	query := `
		SELECT id, category, timestamp, subject, action,
		       decision, reason, request_id, actor_id, metadata
		FROM audit_events
		WHERE subject = $1
		ORDER BY seq
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, subject.String())
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event    audit.Event
			category string
			subj     string
			metadata []byte
		)
		if err := rows.Scan(
			&event.ID, &category, &event.Timestamp, &subj, &event.Action,
			&event.Decision, &event.Reason, &event.RequestID, &event.ActorID, &metadata,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.Subject = id.IdentityID(subj)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
				return nil, fmt.Errorf("decode audit metadata: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
