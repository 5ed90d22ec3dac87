package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/domain"
)

func TestCalculateAccuracy(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{7, 10, 70},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13}, // 12.5 rounds up
		{10, 10, 100},
		{0, 10, 0},
	}
	for _, tt := range tests {
		a, err := domain.CalculateAccuracy(tt.correct, tt.total)
		require.NoError(t, err)
		assert.Equal(t, tt.want, a.Value(), "%d/%d", tt.correct, tt.total)
	}
}

func TestCalculateAccuracyRejectsBadInput(t *testing.T) {
	_, err := domain.CalculateAccuracy(0, 0)
	assert.ErrorIs(t, err, domain.ErrNonPositiveTotal)
	_, err = domain.CalculateAccuracy(0, -10)
	assert.ErrorIs(t, err, domain.ErrNonPositiveTotal)
	_, err = domain.CalculateAccuracy(-1, 10)
	assert.ErrorIs(t, err, domain.ErrCorrectCountRange)
	_, err = domain.CalculateAccuracy(11, 10)
	assert.ErrorIs(t, err, domain.ErrCorrectCountRange)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAccuracyFromPercentage(t *testing.T) {
	a, err := domain.AccuracyFromPercentage(80)
	require.NoError(t, err)
	assert.Equal(t, 80, a.Value())

	_, err = domain.AccuracyFromPercentage(-1)
	assert.ErrorIs(t, err, domain.ErrAccuracyRange)
	_, err = domain.AccuracyFromPercentage(101)
	assert.ErrorIs(t, err, domain.ErrAccuracyRange)
}

func TestAccuracyThresholdsAreStrict(t *testing.T) {
	at, _ := domain.AccuracyFromPercentage(70)
	assert.False(t, at.IsAbove(70))
	assert.False(t, at.IsBelow(70))

	high, _ := domain.AccuracyFromPercentage(80)
	assert.True(t, high.IsAbove(70))
	assert.False(t, high.IsBelow(70))

	low, _ := domain.AccuracyFromPercentage(60)
	assert.True(t, low.IsBelow(70))
	assert.False(t, low.IsAbove(70))
}
