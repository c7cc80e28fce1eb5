package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ServerAsset struct {
	bun.BaseModel  `bun:"table:server_asset"`
	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	AccountID      int64     `bun:"account_id" json:"account_id"`
	CatalogSlug    string    `bun:"catalog_slug" json:"catalog_slug"`
	Name           string    `bun:"name" json:"name"`
	DailyBoltYield float64   `bun:"daily_bolt_yield" json:"daily_bolt_yield"`
	DailyUsdtYield float64   `bun:"daily_usdt_yield" json:"daily_usdt_yield"`
	DailyTonYield  float64   `bun:"daily_ton_yield" json:"daily_ton_yield"`
	PurchasedAt    time.Time `bun:"purchased_at" json:"purchased_at"`
	LastClaimAt    time.Time `bun:"last_claim_at" json:"last_claim_at"`
	Active         bool      `bun:"active" json:"active"`
	CreatedAt      time.Time `bun:"created_at,default:current_timestamp" json:"-"`
	UpdatedAt      time.Time `bun:"updated_at" json:"-"`
}

// CatalogServer is one purchasable server type. Stock is tracked in the
// config table under StockConfigKey and decremented on purchase.
type CatalogServer struct {
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	DailyBoltYield float64 `json:"daily_bolt_yield"`
	DailyUsdtYield float64 `json:"daily_usdt_yield"`
	DailyTonYield  float64 `json:"daily_ton_yield"`
	PriceBolt      int64   `json:"price_bolt"`
	InitialStock   int     `json:"initial_stock"`
}

var ServerCatalog = []CatalogServer{
	{
		Slug:           "rig-basic",
		Name:           "Basic Rig",
		DailyBoltYield: 240,
		PriceBolt:      1000,
		InitialStock:   10000,
	},
	{
		Slug:           "rig-pro",
		Name:           "Pro Rig",
		DailyBoltYield: 720,
		DailyUsdtYield: 0.48,
		PriceBolt:      5000,
		InitialStock:   2500,
	},
	{
		Slug:           "rig-quantum",
		Name:           "Quantum Rig",
		DailyBoltYield: 2400,
		DailyUsdtYield: 2.4,
		DailyTonYield:  0.096,
		PriceBolt:      20000,
		InitialStock:   500,
	},
}

func FindCatalogServer(slug string) *CatalogServer {
	for i := range ServerCatalog {
		if ServerCatalog[i].Slug == slug {
			return &ServerCatalog[i]
		}
	}
	return nil
}

func (c *CatalogServer) StockConfigKey() string {
	return "SERVER_STOCK_" + c.Slug
}
