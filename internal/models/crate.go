package models

import (
	"time"

	"github.com/uptrace/bun"
)

type DropType string

const (
	DropTypeNothing DropType = "nothing"
	DropTypeBolt    DropType = "bolt"
	DropTypeUsdt    DropType = "usdt"
	DropTypeTon     DropType = "ton"
)

// CrateDrop is one possible outcome of opening a supply crate.
type CrateDrop struct {
	Type   DropType `json:"type"`
	Amount float64  `json:"amount"`
	Chance int      `json:"-"`
}

var CrateDrops = []CrateDrop{
	{Type: DropTypeNothing, Amount: 0, Chance: 30},
	{Type: DropTypeBolt, Amount: 25, Chance: 40},
	{Type: DropTypeBolt, Amount: 100, Chance: 20},
	{Type: DropTypeUsdt, Amount: 0.05, Chance: 7},
	{Type: DropTypeTon, Amount: 0.01, Chance: 3},
}

type AccountCrate struct {
	bun.BaseModel `bun:"table:account_crate"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	AccountID     int64     `bun:"account_id" json:"account_id"`
	Countdown     time.Time `bun:"countdown" json:"countdown"`
	TotalOpened   int       `bun:"total_opened" json:"total_opened"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"-"`
}

func (crate *AccountCrate) Openable(now time.Time) bool {
	return !crate.Countdown.After(now)
}
