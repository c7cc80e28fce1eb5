package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AccountWallet struct {
	bun.BaseModel `bun:"table:account_wallet"`
	ID            int64     `bun:"id,pk" json:"id"`
	TONWallet     *string   `bun:"ton_wallet" json:"ton_wallet"`
	CreatedAt     time.Time `bun:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}
