package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionFromCorners(t *testing.T) {
	r := RegionFromCorners(300, 400, 100, 150)
	assert.Equal(t, Region{X: 100, Y: 150, Width: 200, Height: 250}, r)
	assert.True(t, r.Usable())

	thin := RegionFromCorners(10, 10, 12, 200)
	assert.False(t, thin.Usable())
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("10, 20, 300, 120")
	require.NoError(t, err)
	assert.Equal(t, Region{X: 10, Y: 20, Width: 300, Height: 120}, r)

	_, err = ParseRegion("10,20,300")
	assert.Error(t, err)
	_, err = ParseRegion("10,20,x,120")
	assert.Error(t, err)
	_, err = ParseRegion("10,20,4,120")
	assert.Error(t, err)
}

func TestParseRunMode(t *testing.T) {
	cases := map[string]RunMode{
		"farm":      ModeFarm,
		"1":         ModeFarm,
		"Challenge": ModeChallenge,
		" 2 ":       ModeChallenge,
	}
	for in, want := range cases {
		got, err := ParseRunMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRunMode("idle")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "reinforce", ActionReinforce.String())
	assert.Equal(t, "sell", ActionSell.String())
	assert.Equal(t, "stop", ActionStop.String())
	assert.Equal(t, "none", ActionNone.String())
}
