package internal

import (
	"time"
)

// ClaimResult is the response of the on-demand claim across all of an
// account's assets.
type ClaimResult struct {
	AccountID       int64        `json:"account_id"`
	ClaimedAmounts  ClaimAmounts `json:"claimed_amounts"`
	AssetsProcessed int          `json:"assets_processed"`
	ClaimedAt       time.Time    `json:"claimed_at"`
}

// SweepReport aggregates one run of the batch sweep job.
type SweepReport struct {
	RanAt           time.Time `json:"ran_at"`
	Duration        float64   `json:"duration_seconds"`
	AccountsUpdated int       `json:"accounts_updated"`
	AssetsProcessed int       `json:"assets_processed"`
	AccountsFailed  int       `json:"accounts_failed"`
	TotalBolt       int64     `json:"total_bolt"`
	TotalUsdt       float64   `json:"total_usdt"`
	TotalTon        float64   `json:"total_ton"`
}

// Finish stamps the elapsed wall-clock seconds since the run started.
func (report *SweepReport) Finish(started time.Time) {
	report.Duration = time.Since(started).Seconds()
}

type UpgradeResult struct {
	Kind         string `json:"kind"`
	PreviousTier int    `json:"previous_tier"`
	NewTier      int    `json:"new_tier"`
}
