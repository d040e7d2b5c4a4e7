package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sybilguard/internal/identity/models"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

func TestScore_EstablishedAccountIsVeryStrong(t *testing.T) {
	engine := New()
	matrix := &models.IdentityMatrix{
		FirstSeen:          daysAgo(200),
		TransactionCount:   60,
		UniqueInteractions: 25,
		ValueTransferred:   50000,
		HasENS:             true,
		ContractCreations:  2,
	}

	score, strength := engine.Score(matrix, now)

	assert.InDelta(t, 0.925, score, 1e-9)
	assert.Equal(t, models.StrengthVeryStrong, strength)
}

func TestScore_FreshBurnerIsVeryWeak(t *testing.T) {
	engine := New()
	matrix := &models.IdentityMatrix{
		FirstSeen:          daysAgo(2),
		TransactionCount:   25,
		UniqueInteractions: 1,
	}

	score, strength := engine.Score(matrix, now)

	assert.Less(t, score, 0.2)
	assert.Equal(t, models.StrengthVeryWeak, strength)

	reasons := SuspicionReasons(matrix, now)
	assert.Contains(t, reasons, ReasonNewAccountHighVolume)
	assert.Contains(t, reasons, ReasonLowDiversity)
}

func TestScore_StaysInUnitInterval(t *testing.T) {
	engine := New(WithBehavioralScorer(ConstantBehavioral(7)))
	matrices := []*models.IdentityMatrix{
		{},
		{FirstSeen: now.Add(48 * time.Hour)},
		{TransactionCount: -10, UniqueInteractions: -3, ContractCreations: -1, ValueTransferred: -1},
		{TransactionCount: 1 << 30, UniqueInteractions: 1 << 30, ContractCreations: 1 << 30, ValueTransferred: math.MaxFloat64, HasENS: true, FirstSeen: daysAgo(10000)},
		{ValueTransferred: math.NaN()},
		{ValueTransferred: math.Inf(1)},
	}
	for i, m := range matrices {
		score, strength := engine.Score(m, now)
		assert.GreaterOrEqual(t, score, 0.0, "matrix %d", i)
		assert.LessOrEqual(t, score, 1.0, "matrix %d", i)
		assert.NotEqual(t, models.StrengthUnknown, strength)
	}
}

func TestScore_NilMatrix(t *testing.T) {
	score, strength := New().Score(nil, now)
	assert.Zero(t, score)
	assert.Equal(t, models.StrengthVeryWeak, strength)
}

func TestFactors(t *testing.T) {
	engine := New(WithBehavioralScorer(BehavioralScorerFunc(func(m *models.IdentityMatrix) float64 {
		return float64(m.ContractCreations) / 10
	})))
	matrix := &models.IdentityMatrix{
		FirstSeen:          daysAgo(90),
		TransactionCount:   25,
		UniqueInteractions: 5,
		ValueTransferred:   99,
		ContractCreations:  1,
	}

	f := engine.Factors(matrix, now)

	assert.InDelta(t, 0.5, f.AccountAge, 1e-9)
	assert.InDelta(t, 0.5, f.TransactionCount, 1e-9)
	assert.InDelta(t, 0.25, f.UniqueInteractions, 1e-9)
	assert.InDelta(t, 0.5, f.ValueTransferred, 1e-9)
	assert.Zero(t, f.ENS)
	assert.InDelta(t, 0.5, f.ContractCreations, 1e-9)
	assert.InDelta(t, 0.1, f.Behavioral, 1e-9)
}

func TestFactors_BehavioralScorerOutputIsSanitized(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), -3} {
		f := New(WithBehavioralScorer(ConstantBehavioral(v))).Factors(&models.IdentityMatrix{}, now)
		assert.Zero(t, f.Behavioral)
	}
}

func TestStrengthFor_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Strength
	}{
		{0, models.StrengthVeryWeak},
		{0.1999, models.StrengthVeryWeak},
		{0.2, models.StrengthWeak},
		{0.3999, models.StrengthWeak},
		{0.4, models.StrengthModerate},
		{0.5999, models.StrengthModerate},
		{0.6, models.StrengthStrong},
		{0.7999, models.StrengthStrong},
		{0.8, models.StrengthVeryStrong},
		{1, models.StrengthVeryStrong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StrengthFor(tt.score), "score %.4f", tt.score)
	}
}

func TestStrengthFor_IsMonotonic(t *testing.T) {
	prev := StrengthFor(0)
	for s := 0.0; s <= 1.0; s += 0.001 {
		cur := StrengthFor(s)
		require.True(t, cur >= prev, "tier decreased at %.3f", s)
		prev = cur
	}
}

func TestSuspicionReasons_Order(t *testing.T) {
	matrix := &models.IdentityMatrix{
		FirstSeen:          daysAgo(1),
		TransactionCount:   30,
		UniqueInteractions: 2,
		ValueTransferred:   0.001,
		TimingSignature:    []float64{0.2, 0.2, 0.2},
	}

	assert.Equal(t, []string{
		ReasonNewAccountHighVolume,
		ReasonLowDiversity,
		ReasonSuspiciousTiming,
		ReasonMinimalValue,
	}, SuspicionReasons(matrix, now))
}

func TestSuspicionReasons_Thresholds(t *testing.T) {
	t.Run("volume rule needs both young age and volume", func(t *testing.T) {
		reasons := SuspicionReasons(&models.IdentityMatrix{FirstSeen: daysAgo(8), TransactionCount: 21, UniqueInteractions: 10, ValueTransferred: 5}, now)
		assert.Empty(t, reasons)
	})

	t.Run("diversity rule boundary", func(t *testing.T) {
		reasons := SuspicionReasons(&models.IdentityMatrix{FirstSeen: daysAgo(30), TransactionCount: 11, UniqueInteractions: 3, ValueTransferred: 5}, now)
		assert.Empty(t, reasons)
	})

	t.Run("minimal value rule", func(t *testing.T) {
		reasons := SuspicionReasons(&models.IdentityMatrix{FirstSeen: daysAgo(30), TransactionCount: 16, UniqueInteractions: 10, ValueTransferred: 0}, now)
		assert.Equal(t, []string{ReasonMinimalValue}, reasons)
	})

	t.Run("nil matrix", func(t *testing.T) {
		assert.Nil(t, SuspicionReasons(nil, now))
	})
}

func TestIsStale(t *testing.T) {
	engine := New()

	assert.True(t, engine.IsStale(nil, now, false))
	assert.True(t, engine.IsStale(&models.IdentityMatrix{}, now, false))
	assert.False(t, engine.IsStale(&models.IdentityMatrix{LastUpdated: now.Add(-23 * time.Hour)}, now, false))
	assert.True(t, engine.IsStale(&models.IdentityMatrix{LastUpdated: now.Add(-23 * time.Hour)}, now, true))
	assert.True(t, engine.IsStale(&models.IdentityMatrix{LastUpdated: now.Add(-24 * time.Hour)}, now, false))

	short := New(WithStalenessWindow(time.Hour))
	assert.True(t, short.IsStale(&models.IdentityMatrix{LastUpdated: now.Add(-2 * time.Hour)}, now, false))
}

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightAccountAge + WeightTransactionCount + WeightUniqueInteractions +
		WeightValueTransferred + WeightENS + WeightContractCreations + WeightBehavioral
	assert.InDelta(t, 1.0, sum, 1e-9)
}
