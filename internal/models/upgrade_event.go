package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	UPGRADE_KIND_POWER    = "power"
	UPGRADE_KIND_DURATION = "duration"
)

type UpgradeEvent struct {
	bun.BaseModel `bun:"table:upgrade_event"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	AccountID     int64     `bun:"account_id" json:"account_id"`
	Kind          string    `bun:"kind" json:"kind"`
	PreviousTier  int       `bun:"previous_tier" json:"previous_tier"`
	NewTier       int       `bun:"new_tier" json:"new_tier"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
