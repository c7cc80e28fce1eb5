package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestSession(started time.Time, hours int, rate float64) *MiningSession {
	return &MiningSession{
		ID:            "test-session",
		AccountID:     1,
		StartedAt:     started,
		EndsAt:        started.Add(time.Duration(hours) * time.Hour),
		TokensPerHour: rate,
		DurationHours: hours,
		Active:        true,
	}
}

func TestMiningSessionRefreshMidway(t *testing.T) {
	started := time.Now().Add(-2 * time.Hour)
	session := newTestSession(started, 4, 10)

	session.Refresh(started.Add(2 * time.Hour))

	assert.InDelta(t, 0.5, session.Progress, 1e-9)
	assert.InDelta(t, 20, session.TokensMined, 1e-9)
	assert.InDelta(t, 2*3600, session.TimeRemaining, 1e-6)
	assert.False(t, session.Completable)
}

func TestMiningSessionRefreshPastEnd(t *testing.T) {
	started := time.Now().Add(-30 * time.Hour)
	session := newTestSession(started, 24, 10)

	// progress and mined tokens clamp at the session end
	session.Refresh(started.Add(30 * time.Hour))

	assert.Equal(t, 1.0, session.Progress)
	assert.InDelta(t, 240, session.TokensMined, 1e-9)
	assert.Zero(t, session.TimeRemaining)
	assert.True(t, session.Completable)
}

func TestMiningSessionRefreshNotCompletableWhenInactive(t *testing.T) {
	started := time.Now().Add(-30 * time.Hour)
	session := newTestSession(started, 24, 10)
	session.Active = false

	session.Refresh(started.Add(30 * time.Hour))
	assert.False(t, session.Completable)
}

func TestMiningSessionTotalReward(t *testing.T) {
	session := newTestSession(time.Now(), 4, 10)
	assert.Equal(t, int64(40), session.TotalReward())

	// rate was frozen at start; changing the account's power later does
	// not affect this session
	session.TokensPerHour = 12.5
	assert.Equal(t, int64(50), session.TotalReward())
}
