package models

import (
	"time"

	"github.com/uptrace/bun"
)

type MiningSession struct {
	bun.BaseModel `bun:"table:mining_session"`
	ID            string     `bun:"id,pk" json:"id"`
	AccountID     int64      `bun:"account_id" json:"account_id"`
	StartedAt     time.Time  `bun:"started_at" json:"started_at"`
	EndsAt        time.Time  `bun:"ends_at" json:"ends_at"`
	TokensPerHour float64    `bun:"tokens_per_hour" json:"tokens_per_hour"`
	DurationHours int        `bun:"duration_hours" json:"duration_hours"`
	Active        bool       `bun:"active" json:"active"`
	CompletedAt   *time.Time `bun:"completed_at" json:"completed_at"`
	CreatedAt     time.Time  `bun:"created_at,default:current_timestamp" json:"-"`

	// derived on read, never persisted
	TimeRemaining float64 `bun:"-" json:"time_remaining_seconds"`
	Progress      float64 `bun:"-" json:"progress"`
	TokensMined   float64 `bun:"-" json:"tokens_mined"`
	Completable   bool    `bun:"-" json:"completable"`
}

// Refresh recomputes the derived progress fields from the wall clock.
// Rate and duration were frozen at start, so this is safe to call on
// every poll without touching the store.
func (session *MiningSession) Refresh(now time.Time) {
	total := session.EndsAt.Sub(session.StartedAt)
	elapsed := now.Sub(session.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > total {
		elapsed = total
	}

	session.TimeRemaining = session.EndsAt.Sub(now).Seconds()
	if session.TimeRemaining < 0 {
		session.TimeRemaining = 0
	}
	if total > 0 {
		session.Progress = elapsed.Seconds() / total.Seconds()
	}
	session.TokensMined = session.TokensPerHour * elapsed.Hours()
	session.Completable = session.Active && !now.Before(session.EndsAt)
}

func (session *MiningSession) TotalReward() int64 {
	return int64(session.TokensPerHour * float64(session.DurationHours))
}
