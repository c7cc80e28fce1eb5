package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeClaimBelowMinimum(t *testing.T) {
	now := time.Now()
	rates := YieldRates{Bolt: 240}

	amounts, hours, ok := ComputeClaim(now.Add(-30*time.Minute), now, rates, OnDemandPolicy())
	assert.False(t, ok)
	assert.Zero(t, hours)
	assert.True(t, amounts.IsZero())

	// exactly at the boundary is claimable
	_, hours, ok = ComputeClaim(now.Add(-1*time.Hour), now, rates, OnDemandPolicy())
	assert.True(t, ok)
	assert.Equal(t, 1.0, hours)
}

func TestComputeClaimOnDemandCap(t *testing.T) {
	now := time.Now()
	rates := YieldRates{Bolt: 240}
	lastClaim := now.Add(-48 * time.Hour)

	amounts, hours, ok := ComputeClaim(lastClaim, now, rates, OnDemandPolicy())
	assert.True(t, ok)
	assert.Equal(t, 24.0, hours)
	assert.Equal(t, int64(240), amounts.Bolt)
}

func TestComputeClaimSweepUncapped(t *testing.T) {
	now := time.Now()
	rates := YieldRates{Bolt: 240}
	lastClaim := now.Add(-48 * time.Hour)

	amounts, hours, ok := ComputeClaim(lastClaim, now, rates, SweepPolicy())
	assert.True(t, ok)
	assert.Equal(t, 48.0, hours)
	assert.Equal(t, int64(480), amounts.Bolt)
}

func TestComputeClaimRounding(t *testing.T) {
	now := time.Now()
	rates := YieldRates{Bolt: 100, Usdt: 0.48, Ton: 0.096}

	// 6 hours = a quarter day: 25 bolt floors, usdt 0.12, ton 0.024
	amounts, _, ok := ComputeClaim(now.Add(-6*time.Hour), now, rates, OnDemandPolicy())
	assert.True(t, ok)
	assert.Equal(t, int64(25), amounts.Bolt)
	assert.InDelta(t, 0.12, amounts.Usdt, 1e-9)
	assert.InDelta(t, 0.024, amounts.Ton, 1e-9)

	// bolt always floors, never rounds up
	amounts, _, ok = ComputeClaim(now.Add(-95*time.Minute), now, YieldRates{Bolt: 24}, OnDemandPolicy())
	assert.True(t, ok)
	assert.Equal(t, int64(1), amounts.Bolt)
}

func TestComputeClaimZeroAfterRounding(t *testing.T) {
	now := time.Now()
	// one hour of a tiny TON-only yield rounds to zero at 4 decimals;
	// the asset is still claimable so its watermark moves on
	rates := YieldRates{Ton: 0.0001}

	amounts, hours, ok := ComputeClaim(now.Add(-1*time.Hour), now, rates, OnDemandPolicy())
	assert.True(t, ok)
	assert.Equal(t, 1.0, hours)
	assert.True(t, amounts.IsZero())
}

func TestClaimAmountsAddSub(t *testing.T) {
	a := ClaimAmounts{Bolt: 10, Usdt: 0.1, Ton: 0.0001}
	b := ClaimAmounts{Bolt: 5, Usdt: 0.02, Ton: 0.0002}

	sum := a.Add(b)
	assert.Equal(t, int64(15), sum.Bolt)
	assert.InDelta(t, 0.12, sum.Usdt, 1e-9)
	assert.InDelta(t, 0.0003, sum.Ton, 1e-9)

	diff := sum.Sub(b)
	assert.Equal(t, a, diff)
	assert.True(t, sum.Sub(sum).IsZero())
}
