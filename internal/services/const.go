package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrSessionAlreadyActive = errors.New("mining session already active")
var ErrSessionNotComplete = errors.New("mining session has not reached its end time")
var ErrNoActiveSession = errors.New("no active mining session")
var ErrMaxTierReached = errors.New("already at the maximum tier")
var ErrUnknownUpgradeKind = errors.New("unknown upgrade kind")
var ErrNothingToClaim = errors.New("nothing to claim")
var ErrOutOfStock = errors.New("server out of stock")
var ErrInsufficientBalance = errors.New("insufficient balance")
var ErrCrateNotReady = errors.New("crate is still on cooldown")
var ErrMiningLock = errors.New("mining session locked")
var ErrClaimLock = errors.New("claim locked")
var ErrPurchaseLock = errors.New("purchase locked")
var ErrCrateLock = errors.New("crate locked")

const (
	CONFIG_SERVER_MODE            = "SERVER_MODE"
	CONFIG_MINING_BASE_RATE       = "MINING_BASE_RATE_PER_HOUR"
	CONFIG_CLAIM_MIN_HOURS        = "CLAIM_MIN_HOURS"
	CONFIG_CLAIM_MAX_HOURS        = "CLAIM_MAX_HOURS"
	CONFIG_CRONJOB_TIME_SWEEP     = "CRONJOB_TIME_SWEEP"
	CONFIG_CRATE_COUNTDOWN_HOURS  = "CRATE_COUNTDOWN_HOURS"
	CONFIG_MINER_LEADERBOARD_SIZE = "MINER_LEADERBOARD_SIZE"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	MINING_BASE_RATE_PER_HOUR_DEFAULT = 10
	MINING_HOURS_DEFAULT              = 4
	MINING_POWER_DEFAULT              = 1
	MAX_MINING_POWER                  = 1000
	MAX_MINING_HOURS                  = 24

	CRATE_COUNTDOWN_HOURS_DEFAULT  = 8
	MINER_LEADERBOARD_DEFAULT_SIZE = 20

	CLAIM_RATE_LIMIT_PER_MINUTE = 10

	CRONJOB_TIME_SWEEP_DEFAULT = "@hourly"

	CACHE_TTL_5_SECONDS  = 5 * time.Second
	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour
)

func LockKeyMiningSession(accountID int64) string {
	return fmt.Sprintf("lock:mining-session:%d", accountID)
}

func LockKeyAssetClaim(accountID int64) string {
	return fmt.Sprintf("lock:asset-claim:%d", accountID)
}

func LockKeyAssetPurchase(accountID int64) string {
	return fmt.Sprintf("lock:asset-purchase:%d", accountID)
}

func LockKeyCrate(accountID int64) string {
	return fmt.Sprintf("lock:crate:%d", accountID)
}

// db
func DBKeyAccount(accountID int64) string {
	return fmt.Sprintf("account:%d", accountID)
}

func DBKeyMe(accountID int64) string {
	return fmt.Sprintf("me:%d", accountID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyActiveSession(accountID int64) string {
	return fmt.Sprintf("mining_session:active:%d", accountID)
}

func DBKeyAccountAssets(accountID int64) string {
	return fmt.Sprintf("server_asset:account:%d", accountID)
}

func DBKeyAccountWallet(accountID int64) string {
	return fmt.Sprintf("account_wallet:%d", accountID)
}

func DBKeyAccountCrate(accountID int64) string {
	return fmt.Sprintf("account_crate:%d", accountID)
}

func LimitKeyClaim(accountID int64) string {
	return fmt.Sprintf("limit:claim:%d", accountID)
}
