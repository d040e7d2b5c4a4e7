// Package scoring turns an identity's activity matrix into a humanity score
// and strength tier. Everything here is pure: no I/O and no wall clock.
package scoring

import (
	"math"
	"time"

	"sybilguard/internal/identity/models"
)

// Factor weights. They sum to 1.
const (
	WeightAccountAge         = 0.20
	WeightTransactionCount   = 0.15
	WeightUniqueInteractions = 0.15
	WeightValueTransferred   = 0.15
	WeightENS                = 0.10
	WeightContractCreations  = 0.10
	WeightBehavioral         = 0.15
)

// DefaultBehavioralScore is used until a real behavioral model is plugged in.
const DefaultBehavioralScore = 0.5

// DefaultStalenessWindow is how long a computed matrix stays fresh.
const DefaultStalenessWindow = 24 * time.Hour

const (
	fullAccountAgeDays       = 180.0
	fullTransactionCount     = 50.0
	fullUniqueInteractions   = 20.0
	fullValueLog10           = 4.0
	contractCreationIncrease = 0.5
)

// Suspicion rule messages, in evaluation order.
const (
	ReasonNewAccountHighVolume = "new account with disproportionate transaction volume"
	ReasonLowDiversity         = "low interaction diversity"
	ReasonSuspiciousTiming     = "suspicious timing pattern"
	ReasonMinimalValue         = "high activity with minimal value transfer"
)

// BehavioralScorer rates behavioral patterns in [0,1].
type BehavioralScorer interface {
	BehavioralScore(matrix *models.IdentityMatrix) float64
}

// BehavioralScorerFunc adapts a function to BehavioralScorer.
type BehavioralScorerFunc func(matrix *models.IdentityMatrix) float64

func (f BehavioralScorerFunc) BehavioralScore(matrix *models.IdentityMatrix) float64 {
	return f(matrix)
}

// ConstantBehavioral returns the same score for every matrix.
func ConstantBehavioral(score float64) BehavioralScorer {
	return BehavioralScorerFunc(func(*models.IdentityMatrix) float64 { return score })
}

// Factors are the normalized inputs of a score, each in [0,1].
type Factors struct {
	AccountAge         float64 `json:"account_age"`
	TransactionCount   float64 `json:"transaction_count"`
	UniqueInteractions float64 `json:"unique_interactions"`
	ValueTransferred   float64 `json:"value_transferred"`
	ENS                float64 `json:"ens"`
	ContractCreations  float64 `json:"contract_creations"`
	Behavioral         float64 `json:"behavioral"`
}

// Weighted returns the clamped weighted sum of the factors.
func (f Factors) Weighted() float64 {
	sum := f.AccountAge*WeightAccountAge +
		f.TransactionCount*WeightTransactionCount +
		f.UniqueInteractions*WeightUniqueInteractions +
		f.ValueTransferred*WeightValueTransferred +
		f.ENS*WeightENS +
		f.ContractCreations*WeightContractCreations +
		f.Behavioral*WeightBehavioral
	return Clamp01(sum)
}

type Engine struct {
	behavioral BehavioralScorer
	staleness  time.Duration
}

type Option func(*Engine)

func WithBehavioralScorer(scorer BehavioralScorer) Option {
	return func(e *Engine) {
		if scorer != nil {
			e.behavioral = scorer
		}
	}
}

func WithStalenessWindow(window time.Duration) Option {
	return func(e *Engine) {
		if window >= 0 {
			e.staleness = window
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		behavioral: ConstantBehavioral(DefaultBehavioralScore),
		staleness:  DefaultStalenessWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the humanity score and tier for a matrix as of now.
func (e *Engine) Score(matrix *models.IdentityMatrix, now time.Time) (float64, models.Strength) {
	score := e.Factors(matrix, now).Weighted()
	return score, StrengthFor(score)
}

// Factors returns the normalized factor values behind Score.
func (e *Engine) Factors(matrix *models.IdentityMatrix, now time.Time) Factors {
	if matrix == nil {
		return Factors{}
	}
	f := Factors{
		AccountAge:         math.Min(ageDays(matrix.FirstSeen, now)/fullAccountAgeDays, 1),
		TransactionCount:   math.Min(nonNegative(float64(matrix.TransactionCount))/fullTransactionCount, 1),
		UniqueInteractions: math.Min(nonNegative(float64(matrix.UniqueInteractions))/fullUniqueInteractions, 1),
		ValueTransferred:   valueFactor(matrix.ValueTransferred),
		ContractCreations:  math.Min(nonNegative(float64(matrix.ContractCreations))*contractCreationIncrease, 1),
		Behavioral:         Clamp01(nonNegative(e.behavioral.BehavioralScore(matrix))),
	}
	if matrix.HasENS {
		f.ENS = 1
	}
	return f
}

// IsStale reports whether a matrix needs recomputation.
func (e *Engine) IsStale(matrix *models.IdentityMatrix, now time.Time, force bool) bool {
	if force || matrix == nil || matrix.LastUpdated.IsZero() {
		return true
	}
	return now.Sub(matrix.LastUpdated) >= e.staleness
}

// StrengthFor maps a score to its tier. UNKNOWN is never returned; it is
// reserved for identities that were never analyzed.
func StrengthFor(score float64) models.Strength {
	switch {
	case score < 0.2:
		return models.StrengthVeryWeak
	case score < 0.4:
		return models.StrengthWeak
	case score < 0.6:
		return models.StrengthModerate
	case score < 0.8:
		return models.StrengthStrong
	default:
		return models.StrengthVeryStrong
	}
}

// SuspicionReasons evaluates the rule checks in their fixed order.
func SuspicionReasons(matrix *models.IdentityMatrix, now time.Time) []string {
	if matrix == nil {
		return nil
	}
	reasons := make([]string, 0, 4)
	age := ageDays(matrix.FirstSeen, now)
	tx := matrix.TransactionCount
	value := nonNegative(matrix.ValueTransferred)

	if age < 7 && tx > 20 {
		reasons = append(reasons, ReasonNewAccountHighVolume)
	}
	if tx > 10 && matrix.UniqueInteractions < 3 {
		reasons = append(reasons, ReasonLowDiversity)
	}
	// TODO: replace presence check with correlation against known bot cadences once timing signatures are populated by the provider.
	if len(matrix.TimingSignature) > 0 {
		reasons = append(reasons, ReasonSuspiciousTiming)
	}
	if tx > 15 && value < 0.01 {
		reasons = append(reasons, ReasonMinimalValue)
	}
	return reasons
}

// Clamp01 bounds v to [0,1]; NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func valueFactor(value float64) float64 {
	value = nonNegative(value)
	if value <= 0 {
		return 0
	}
	return math.Min(math.Log10(value+1)/fullValueLog10, 1)
}

func ageDays(firstSeen, now time.Time) float64 {
	if firstSeen.IsZero() || now.Before(firstSeen) {
		return 0
	}
	return now.Sub(firstSeen).Hours() / 24
}

// nonNegative treats NaN, Inf and negatives as 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
