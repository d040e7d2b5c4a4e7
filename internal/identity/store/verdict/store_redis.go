package verdict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
)

const defaultKeyPrefix = "sybil:"

// RedisStore keeps suspects in a sorted set scored by insertion sequence with
// the entries in a hash, and verified identities in a plain set. Transitions
// run inside MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisStoreOption configures a RedisStore instance.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces every key the store writes.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func NewRedis(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) suspectsKey() string { return s.prefix + "suspects" }
func (s *RedisStore) entriesKey() string  { return s.prefix + "suspect_entries" }
func (s *RedisStore) verifiedKey() string { return s.prefix + "verified" }
func (s *RedisStore) seqKey() string      { return s.prefix + "suspect_seq" }

// MarkSuspect uses ZADD NX so a replaced entry keeps its original position.
func (s *RedisStore) MarkSuspect(ctx context.Context, entry models.SuspectedSybil) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode suspect: %w", err)
	}
	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("allocate suspect sequence: %w", err)
	}

	member := entry.ID.String()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, s.suspectsKey(), redis.Z{Score: float64(seq), Member: member})
		pipe.HSet(ctx, s.entriesKey(), member, raw)
		pipe.SRem(ctx, s.verifiedKey(), member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark suspect: %w", err)
	}
	return nil
}

func (s *RedisStore) MarkVerified(ctx context.Context, identity id.IdentityID) error {
	member := identity.String()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, s.suspectsKey(), member)
		pipe.HDel(ctx, s.entriesKey(), member)
		pipe.SAdd(ctx, s.verifiedKey(), member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

func (s *RedisStore) Verdict(ctx context.Context, identity id.IdentityID) (*models.Verdict, error) {
	member := identity.String()
	var (
		verified *redis.BoolCmd
		entry    *redis.StringCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		verified = pipe.SIsMember(ctx, s.verifiedKey(), member)
		entry = pipe.HGet(ctx, s.entriesKey(), member)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read verdict: %w", err)
	}

	verdict := &models.Verdict{Verified: verified.Val()}
	if raw, err := entry.Result(); err == nil {
		var suspect models.SuspectedSybil
		if err := json.Unmarshal([]byte(raw), &suspect); err != nil {
			return nil, fmt.Errorf("decode suspect: %w", err)
		}
		verdict.Suspect = &suspect
	}
	return verdict, nil
}

func (s *RedisStore) ListSuspects(ctx context.Context) ([]models.SuspectedSybil, error) {
	var (
		members *redis.StringSliceCmd
		entries *redis.MapStringStringCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		members = pipe.ZRange(ctx, s.suspectsKey(), 0, -1)
		entries = pipe.HGetAll(ctx, s.entriesKey())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list suspects: %w", err)
	}

	byID := entries.Val()
	out := make([]models.SuspectedSybil, 0, len(members.Val()))
	for _, member := range members.Val() {
		raw, ok := byID[member]
		if !ok {
			continue
		}
		var suspect models.SuspectedSybil
		if err := json.Unmarshal([]byte(raw), &suspect); err != nil {
			return nil, fmt.Errorf("decode suspect %s: %w", member, err)
		}
		out = append(out, suspect)
	}
	return out, nil
}

func (s *RedisStore) CountVerified(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, s.verifiedKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("count verified: %w", err)
	}
	return int(n), nil
}
