package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPowerTierSteps(t *testing.T) {
	cases := []struct {
		current int
		next    int
	}{
		{1, 3},
		{3, 5},
		{9, 11},
		{10, 20},
		{49, 59},
		{50, 75},
		{99, 124},
		{100, 150},
		{500, 550},
		{990, 1000},
	}

	for _, c := range cases {
		next, err := NextPowerTier(c.current)
		assert.NoError(t, err)
		assert.Equal(t, c.next, next, "from %d", c.current)
	}
}

func TestNextPowerTierCap(t *testing.T) {
	// a step past the cap clamps to it
	next, err := NextPowerTier(980)
	assert.NoError(t, err)
	assert.Equal(t, MAX_MINING_POWER, next)

	_, err = NextPowerTier(MAX_MINING_POWER)
	assert.Equal(t, ErrMaxTierReached, err)
}

func TestNextDurationTierSteps(t *testing.T) {
	next, err := NextDurationTier(4)
	assert.NoError(t, err)
	assert.Equal(t, 12, next)

	next, err = NextDurationTier(12)
	assert.NoError(t, err)
	assert.Equal(t, 24, next)

	_, err = NextDurationTier(24)
	assert.Equal(t, ErrMaxTierReached, err)
}

func TestNextPowerTierMonotonic(t *testing.T) {
	current := 1
	for i := 0; i < 200; i++ {
		next, err := NextPowerTier(current)
		if err != nil {
			assert.Equal(t, ErrMaxTierReached, err)
			assert.Equal(t, MAX_MINING_POWER, current)
			return
		}
		assert.Greater(t, next, current)
		assert.LessOrEqual(t, next, MAX_MINING_POWER)
		current = next
	}
	t.Fatal("power never reached the cap")
}
