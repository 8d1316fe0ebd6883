package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reinforcebot/models"
)

var (
	regA = models.Region{X: 0, Y: 0, Width: 100, Height: 50}
	regB = models.Region{X: 200, Y: 0, Width: 100, Height: 50}
	regC = models.Region{X: 400, Y: 0, Width: 100, Height: 50}
)

func TestNewValidates(t *testing.T) {
	_, err := New(nil, 0)
	assert.ErrorIs(t, err, ErrNoRegions)

	_, err = New([]models.Region{regA, regB, regC, regA}, 0)
	assert.Error(t, err)

	_, err = New([]models.Region{{Width: 3, Height: 50}}, 0)
	assert.Error(t, err)
}

func TestRotatesAfterTwoFailures(t *testing.T) {
	r, err := New([]models.Region{regA, regB}, 0)
	require.NoError(t, err)
	assert.Equal(t, regA, r.Active())

	assert.False(t, r.OnAmbiguousFailure())
	assert.Equal(t, State{ActiveIndex: 0, Failures: 1}, r.State())

	assert.True(t, r.OnAmbiguousFailure())
	assert.Equal(t, State{ActiveIndex: 1, Failures: 0}, r.State())
	assert.Equal(t, regB, r.Active())

	r.OnAmbiguousFailure()
	r.OnAmbiguousFailure()
	assert.Equal(t, regA, r.Active(), "wraps around")
}

func TestTrustedReadingResetsCounter(t *testing.T) {
	r, err := New([]models.Region{regA, regB}, 0)
	require.NoError(t, err)

	r.OnAmbiguousFailure()
	r.OnTrustedReading()
	r.OnAmbiguousFailure()
	assert.Equal(t, State{ActiveIndex: 0, Failures: 1}, r.State())
}

func TestSingleRegionOnlyResets(t *testing.T) {
	r, err := New([]models.Region{regA}, 0)
	require.NoError(t, err)

	r.OnAmbiguousFailure()
	assert.True(t, r.OnAmbiguousFailure())
	assert.Equal(t, State{}, r.State())
	assert.Equal(t, regA, r.Active())
}

func TestNeedsRecalibration(t *testing.T) {
	r, err := New([]models.Region{regA, regB}, 0)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		r.OnAmbiguousFailure()
	}
	assert.False(t, r.NeedsRecalibration(), "disabled by default")

	r.SetRecalibrateAfter(1)
	assert.True(t, r.NeedsRecalibration())

	r.OnTrustedReading()
	assert.False(t, r.NeedsRecalibration())

	for i := 0; i < 3; i++ {
		r.OnAmbiguousFailure()
	}
	assert.False(t, r.NeedsRecalibration(), "one rotation of two regions is not a full cycle")
	r.OnAmbiguousFailure()
	assert.True(t, r.NeedsRecalibration())

	require.NoError(t, r.Recalibrate([]models.Region{regC}))
	assert.False(t, r.NeedsRecalibration())
	assert.Equal(t, regC, r.Active())
	assert.Equal(t, 1, r.Len())
}
