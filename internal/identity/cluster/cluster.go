// Package cluster discovers groups of linked identities starting from suspects.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sybilguard/internal/identity/models"
	"sybilguard/internal/identity/ports"
	"sybilguard/internal/identity/scoring"
	id "sybilguard/pkg/domain"
)

// Weights of the cluster suspicion terms.
const (
	WeightBehavioral = 0.4
	WeightTiming     = 0.3
	WeightNetwork    = 0.3
)

// Reference sub-scores used when no strategy is injected or a strategy fails.
const (
	DefaultBehavioral = 0.7
	DefaultTiming     = 0.65
	DefaultNetwork    = 0.8
)

// DefaultMaxClusterSize bounds discovery when no limit is configured.
const DefaultMaxClusterSize = 50

// SubScore rates one aspect of a candidate cluster in [0,1].
type SubScore func(ctx context.Context, members []id.IdentityID) (float64, error)

// Constant returns a SubScore that always reports v.
func Constant(v float64) SubScore {
	return func(context.Context, []id.IdentityID) (float64, error) {
		return v, nil
	}
}

type Detector struct {
	graph      ports.GraphStore
	verdicts   ports.VerdictStore
	maxSize    int
	behavioral SubScore
	timing     SubScore
	network    SubScore
	logger     *slog.Logger
}

type Option func(*Detector)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithMaxClusterSize caps the number of identities returned by discovery.
func WithMaxClusterSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.maxSize = n
		}
	}
}

func WithBehavioralScore(fn SubScore) Option {
	return func(d *Detector) {
		if fn != nil {
			d.behavioral = fn
		}
	}
}

func WithTimingScore(fn SubScore) Option {
	return func(d *Detector) {
		if fn != nil {
			d.timing = fn
		}
	}
}

func WithNetworkScore(fn SubScore) Option {
	return func(d *Detector) {
		if fn != nil {
			d.network = fn
		}
	}
}

func New(graph ports.GraphStore, verdicts ports.VerdictStore, opts ...Option) (*Detector, error) {
	if graph == nil {
		return nil, errors.New("graph store is required")
	}
	if verdicts == nil {
		return nil, errors.New("verdict store is required")
	}
	d := &Detector{
		graph:      graph,
		verdicts:   verdicts,
		maxSize:    DefaultMaxClusterSize,
		behavioral: Constant(DefaultBehavioral),
		timing:     Constant(DefaultTiming),
		network:    Constant(DefaultNetwork),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// FindRelated walks cluster links breadth-first from seed. The result starts
// with seed, lists identities in visit order and never exceeds the size cap.
func (d *Detector) FindRelated(ctx context.Context, seed id.IdentityID) ([]id.IdentityID, error) {
	return d.findRelated(ctx, seed, nil)
}

// findRelated never visits identities in exclude.
func (d *Detector) findRelated(ctx context.Context, seed id.IdentityID, exclude map[id.IdentityID]struct{}) ([]id.IdentityID, error) {
	visited := map[id.IdentityID]struct{}{seed: {}}
	related := []id.IdentityID{seed}
	queue := []id.IdentityID{seed}

	for len(queue) > 0 && len(related) < d.maxSize {
		current := queue[0]
		queue = queue[1:]

		edges, err := d.graph.Edges(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("load edges of %s: %w", current, err)
		}
		for _, edge := range edges {
			if len(related) >= d.maxSize {
				break
			}
			if !edge.IsClusterLink() {
				continue
			}
			if _, seen := visited[edge.Target]; seen {
				continue
			}
			if _, taken := exclude[edge.Target]; taken {
				continue
			}
			visited[edge.Target] = struct{}{}
			related = append(related, edge.Target)
			queue = append(queue, edge.Target)
		}
	}
	return related, nil
}

// Detect expands every suspect in insertion order. Identities already placed
// in a cluster are neither used as seeds nor visited again, so clusters are
// disjoint even when the size cap truncates a search.
func (d *Detector) Detect(ctx context.Context, now time.Time) ([]models.Cluster, error) {
	suspects, err := d.verdicts.ListSuspects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suspects: %w", err)
	}

	processed := make(map[id.IdentityID]struct{}, len(suspects))
	var clusters []models.Cluster
	for _, suspect := range suspects {
		if err := ctx.Err(); err != nil {
			return clusters, err
		}
		if _, done := processed[suspect.ID]; done {
			continue
		}
		members, err := d.findRelated(ctx, suspect.ID, processed)
		if err != nil {
			return clusters, err
		}
		for _, member := range members {
			processed[member] = struct{}{}
		}
		if len(members) < 2 {
			continue
		}

		score, components := d.Score(ctx, members)
		clusters = append(clusters, models.Cluster{
			ID:             uuid.NewString(),
			Addresses:      members,
			SuspicionScore: score,
			DetectedAt:     now,
			Components:     components,
		})
	}
	return clusters, nil
}

// Score combines the three sub-scores into the cluster suspicion score.
func (d *Detector) Score(ctx context.Context, members []id.IdentityID) (float64, models.ClusterComponents) {
	components := models.ClusterComponents{
		Behavioral: d.evaluate(ctx, "behavioral", d.behavioral, DefaultBehavioral, members),
		Timing:     d.evaluate(ctx, "timing", d.timing, DefaultTiming, members),
		Network:    d.evaluate(ctx, "network", d.network, DefaultNetwork, members),
	}
	total := WeightBehavioral*components.Behavioral +
		WeightTiming*components.Timing +
		WeightNetwork*components.Network
	return scoring.Clamp01(total), components
}

func (d *Detector) evaluate(ctx context.Context, name string, fn SubScore, fallback float64, members []id.IdentityID) float64 {
	v, err := fn(ctx, members)
	if err != nil {
		d.logger.WarnContext(ctx, "cluster sub-score failed, using reference value",
			"component", name,
			"fallback", fallback,
			"members", len(members),
			"error", err,
		)
		return fallback
	}
	return scoring.Clamp01(v)
}

// GraphNetworkOverlap scores a cluster by the mean pairwise Jaccard overlap
// of its members' neighbour sets.
func GraphNetworkOverlap(graph ports.GraphStore) SubScore {
	return func(ctx context.Context, members []id.IdentityID) (float64, error) {
		if len(members) < 2 {
			return 0, nil
		}
		neighbours := make([]map[id.IdentityID]struct{}, len(members))
		for i, member := range members {
			edges, err := graph.Edges(ctx, member)
			if err != nil {
				return 0, err
			}
			set := make(map[id.IdentityID]struct{}, len(edges))
			for _, edge := range edges {
				set[edge.Target] = struct{}{}
			}
			neighbours[i] = set
		}

		var sum float64
		pairs := 0
		for i := 0; i < len(neighbours); i++ {
			for j := i + 1; j < len(neighbours); j++ {
				sum += jaccard(neighbours[i], neighbours[j])
				pairs++
			}
		}
		return sum / float64(pairs), nil
	}
}

func jaccard(a, b map[id.IdentityID]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for k := range a {
		if _, ok := b[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}
