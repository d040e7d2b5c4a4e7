package matrix

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
	"sybilguard/pkg/platform/sentinel"
	txcontext "sybilguard/pkg/platform/tx"
)

// PostgresStore persists matrices and scores in PostgreSQL.
// This store is pure I/O: staleness and outcome rules belong in the service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) GetMatrix(ctx context.Context, identity id.IdentityID) (*models.IdentityMatrix, error) {
	query := `
		SELECT id, first_seen, last_seen, transaction_count, unique_interactions, value_transferred,
			has_ens, contract_creations, timing_signature, humanity_score, last_updated
		FROM identity_matrices
		WHERE id = $1
	`
	var m models.IdentityMatrix
	var firstSeen, lastSeen sql.NullTime
	var timing pq.Float64Array
	err := s.execer(ctx).QueryRowContext(ctx, query, identity.String()).Scan(
		&m.ID,
		&firstSeen,
		&lastSeen,
		&m.TransactionCount,
		&m.UniqueInteractions,
		&m.ValueTransferred,
		&m.HasENS,
		&m.ContractCreations,
		&timing,
		&m.HumanityScore,
		&m.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get identity matrix: %w", err)
	}
	m.FirstSeen = firstSeen.Time
	m.LastSeen = lastSeen.Time
	if len(timing) > 0 {
		m.TimingSignature = []float64(timing)
	}
	return &m, nil
}

func (s *PostgresStore) GetScore(ctx context.Context, identity id.IdentityID) (*models.IdentityScore, error) {
	query := `
		SELECT id, score, strength, last_calculated, manually_verified, manually_flagged
		FROM identity_scores
		WHERE id = $1
	`
	score, err := scanScore(s.execer(ctx).QueryRowContext(ctx, query, identity.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get identity score: %w", err)
	}
	return score, nil
}

// SaveAnalysis upserts the matrix and score in one transaction, joining the
// caller's transaction when the context carries one.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, matrix *models.IdentityMatrix, score *models.IdentityScore) error {
	if matrix == nil {
		return nil
	}
	return txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		if err := s.upsertMatrix(ctx, matrix); err != nil {
			return err
		}
		if score == nil {
			return nil
		}
		return s.SaveScore(ctx, score)
	})
}

func (s *PostgresStore) upsertMatrix(ctx context.Context, m *models.IdentityMatrix) error {
	query := `
		INSERT INTO identity_matrices (id, first_seen, last_seen, transaction_count, unique_interactions,
			value_transferred, has_ens, contract_creations, timing_signature, humanity_score, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			first_seen = EXCLUDED.first_seen,
			last_seen = EXCLUDED.last_seen,
			transaction_count = EXCLUDED.transaction_count,
			unique_interactions = EXCLUDED.unique_interactions,
			value_transferred = EXCLUDED.value_transferred,
			has_ens = EXCLUDED.has_ens,
			contract_creations = EXCLUDED.contract_creations,
			timing_signature = EXCLUDED.timing_signature,
			humanity_score = EXCLUDED.humanity_score,
			last_updated = EXCLUDED.last_updated
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		m.ID.String(),
		nullTime(m.FirstSeen),
		nullTime(m.LastSeen),
		m.TransactionCount,
		m.UniqueInteractions,
		m.ValueTransferred,
		m.HasENS,
		m.ContractCreations,
		pq.Array(m.TimingSignature),
		m.HumanityScore,
		m.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert identity matrix: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveScore(ctx context.Context, score *models.IdentityScore) error {
	if score == nil {
		return nil
	}
	query := `
		INSERT INTO identity_scores (id, score, strength, last_calculated, manually_verified, manually_flagged)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			score = EXCLUDED.score,
			strength = EXCLUDED.strength,
			last_calculated = EXCLUDED.last_calculated,
			manually_verified = EXCLUDED.manually_verified,
			manually_flagged = EXCLUDED.manually_flagged
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		score.ID.String(),
		score.Score,
		score.Strength.String(),
		score.LastCalculated,
		score.ManuallyVerified,
		score.ManuallyFlagged,
	)
	if err != nil {
		return fmt.Errorf("save identity score: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListScores(ctx context.Context) ([]*models.IdentityScore, error) {
	query := `
		SELECT id, score, strength, last_calculated, manually_verified, manually_flagged
		FROM identity_scores
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list identity scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.IdentityScore
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity score: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identity scores: %w", err)
	}
	return scores, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScore(row rowScanner) (*models.IdentityScore, error) {
	var score models.IdentityScore
	var strength string
	if err := row.Scan(
		&score.ID,
		&score.Score,
		&strength,
		&score.LastCalculated,
		&score.ManuallyVerified,
		&score.ManuallyFlagged,
	); err != nil {
		return nil, err
	}
	parsed, err := models.ParseStrength(strength)
	if err != nil {
		return nil, fmt.Errorf("decode strength %q: %w", strength, err)
	}
	score.Strength = parsed
	return &score, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
