package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Account struct {
	bun.BaseModel `bun:"table:account"`
	ID            int64     `bun:"id,pk" json:"id"`
	FirstName     string    `bun:"first_name" json:"first_name"`
	LastName      string    `bun:"last_name" json:"last_name"`
	Username      string    `bun:"username" json:"username"`
	LanguageCode  string    `bun:"language_code" json:"language_code"`
	PhotoURL      string    `bun:"photo_url" json:"photo_url"`
	IsPremium     bool      `bun:"is_premium" json:"-"`
	BoltBalance   int64     `bun:"bolt_balance" json:"bolt_balance"`
	UsdtBalance   float64   `bun:"usdt_balance" json:"usdt_balance"`
	TonBalance    float64   `bun:"ton_balance" json:"ton_balance"`
	MiningPower   int       `bun:"mining_power" json:"mining_power"`
	MiningHours   int       `bun:"mining_hours" json:"mining_hours"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`

	IsNewAccount bool           `bun:"-" json:"is_new_account"`
	TONWallet    *string        `bun:"-" json:"ton_wallet"`
	Session      *MiningSession `bun:"-" json:"mining_session"`
}

// AccountFromAuth only use in middleware
type AccountFromAuth struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
	IsPremium    bool   `json:"is_premium"`
}
