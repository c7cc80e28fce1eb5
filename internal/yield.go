package internal

import (
	"math"
	"time"
)

// YieldRates are per-day yields of a single server asset.
type YieldRates struct {
	Bolt float64 `json:"bolt"`
	Usdt float64 `json:"usdt"`
	Ton  float64 `json:"ton"`
}

// ClaimAmounts is a settled reward, rounded per currency display
// precision: BOLT whole units, USDT 2 decimals, TON 4 decimals.
type ClaimAmounts struct {
	Bolt int64   `json:"bolt"`
	Usdt float64 `json:"usdt"`
	Ton  float64 `json:"ton"`
}

func (a ClaimAmounts) IsZero() bool {
	return a.Bolt == 0 && a.Usdt == 0 && a.Ton == 0
}

func (a ClaimAmounts) Add(b ClaimAmounts) ClaimAmounts {
	return ClaimAmounts{
		Bolt: a.Bolt + b.Bolt,
		Usdt: roundTo(a.Usdt+b.Usdt, 2),
		Ton:  roundTo(a.Ton+b.Ton, 4),
	}
}

func (a ClaimAmounts) Sub(b ClaimAmounts) ClaimAmounts {
	return ClaimAmounts{
		Bolt: a.Bolt - b.Bolt,
		Usdt: roundTo(a.Usdt-b.Usdt, 2),
		Ton:  roundTo(a.Ton-b.Ton, 4),
	}
}

// ClaimPolicy bounds how much elapsed time a single claim settles.
// The on-demand path caps at MaxHours so a rarely-claiming account
// cannot collect an unbounded lump sum; the scheduled sweep runs often
// enough that it credits the full elapsed interval uncapped. The two
// named constructors below are the only policies in use.
type ClaimPolicy struct {
	MinHours float64
	MaxHours float64
	Capped   bool
}

func OnDemandPolicy() ClaimPolicy {
	return ClaimPolicy{MinHours: 1, MaxHours: 24, Capped: true}
}

func SweepPolicy() ClaimPolicy {
	return ClaimPolicy{MinHours: 1, Capped: false}
}

// ComputeClaim pro-rates the daily rates over the time elapsed since
// lastClaimAt. It returns the rounded per-currency amounts, the hours
// actually credited and whether the asset is claimable at all. When
// the elapsed time is under MinHours the caller must skip the asset
// entirely and leave its watermark untouched. Amounts that round to
// zero are still "claimable": the watermark advances and the
// sub-precision remainder is forfeited.
func ComputeClaim(lastClaimAt, now time.Time, rates YieldRates, policy ClaimPolicy) (ClaimAmounts, float64, bool) {
	elapsedHours := now.Sub(lastClaimAt).Hours()
	if elapsedHours < policy.MinHours {
		return ClaimAmounts{}, 0, false
	}

	claimableHours := elapsedHours
	if policy.Capped && claimableHours > policy.MaxHours {
		claimableHours = policy.MaxHours
	}

	amounts := ClaimAmounts{
		Bolt: int64(math.Floor(rates.Bolt / 24 * claimableHours)),
		Usdt: roundTo(rates.Usdt/24*claimableHours, 2),
		Ton:  roundTo(rates.Ton/24*claimableHours, 4),
	}

	return amounts, claimableHours, true
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
