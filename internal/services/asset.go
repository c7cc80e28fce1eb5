package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"boltfarm/internal"
	"boltfarm/internal/datastore"
	"boltfarm/internal/interfaces"
	"boltfarm/internal/models"
	"boltfarm/internal/pkg/caching"
	"boltfarm/internal/pkg/limiter"
)

// ServiceAsset owns the server registry and the on-demand claim across
// all of an account's assets.
type ServiceAsset struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	limiter            interfaces.Limiter

	serviceConfig  *ServiceConfig
	serviceAccount *ServiceAccount
}

func NewServiceAsset(container *do.Injector) (*ServiceAsset, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	lim, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceAccount, err := do.Invoke[*ServiceAccount](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAsset{container, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, lim, serviceConfig, serviceAccount}, nil
}

func (service *ServiceAsset) GetAccountAssets(ctx context.Context, accountID int64) ([]*models.ServerAsset, error) {
	callback := func() ([]*models.ServerAsset, error) {
		return datastore.GetActiveAssetsByAccount(ctx, service.readonlyPostgresDB, accountID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyAccountAssets(accountID), CACHE_TTL_1_MIN, callback)
}

// PurchaseAsset buys one catalog server: price debited and global stock
// decremented in the same transaction as the asset insert. The new
// asset's watermark starts at purchase time.
func (service *ServiceAsset) PurchaseAsset(ctx context.Context, account *models.Account, slug string) (*models.ServerAsset, error) {
	mutex := service.rs.NewMutex(LockKeyAssetPurchase(account.ID))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrPurchaseLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	catalog := models.FindCatalogServer(slug)
	if catalog == nil {
		return nil, errorx.Wrap(errors.New("unknown server type"), errorx.NotExist)
	}

	now := time.Now()
	asset := &models.ServerAsset{
		AccountID:      account.ID,
		CatalogSlug:    catalog.Slug,
		Name:           catalog.Name,
		DailyBoltYield: catalog.DailyBoltYield,
		DailyUsdtYield: catalog.DailyUsdtYield,
		DailyTonYield:  catalog.DailyTonYield,
		PurchasedAt:    now,
		LastClaimAt:    now,
		Active:         true,
	}

	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		inStock, err := datastore.DecrementConfigCounter(ctx, tx, catalog.StockConfigKey())
		if err != nil {
			return err
		}
		if !inStock {
			return errorx.Wrap(ErrOutOfStock, errorx.Invalid)
		}

		paid, err := datastore.DebitAccountBolt(ctx, tx, account.ID, catalog.PriceBolt)
		if err != nil {
			return err
		}
		if !paid {
			return errorx.Wrap(ErrInsufficientBalance, errorx.Invalid)
		}

		return datastore.InsertServerAsset(ctx, tx, asset)
	})
	if err != nil {
		return nil, err
	}

	_ = service.cache.Delete(ctx, DBKeyAccountAssets(account.ID))
	_ = service.cache.Delete(ctx, DBKeyConfig(catalog.StockConfigKey()))
	_ = service.serviceAccount.ClearAccountCache(ctx, account.ID)

	return asset, nil
}

func (service *ServiceAsset) DeactivateAsset(ctx context.Context, account *models.Account, assetID int64) error {
	err := datastore.DeactivateServerAsset(ctx, service.postgresDB, assetID, account.ID)
	if err != nil {
		return err
	}

	return service.cache.Delete(ctx, DBKeyAccountAssets(account.ID))
}

// ClaimAll settles every active asset of the account under the capped
// on-demand policy. Per asset: elapsed time below the minimum interval
// skips the asset with its watermark untouched; otherwise the asset's
// reward is added to one aggregate and its watermark is advanced to
// "now" with an update conditional on the value the reward was computed
// from. Watermark advances and the single ledger credit share one
// transaction, so a concurrent sweep either wins an asset entirely or
// loses it entirely.
func (service *ServiceAsset) ClaimAll(ctx context.Context, account *models.Account) (*internal.ClaimResult, error) {
	err := service.limiter.Allow(ctx, LimitKeyClaim(account.ID), redis_rate.PerMinute(CLAIM_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		if errors.Is(err, limiter.ErrRateLimited) {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyAssetClaim(account.ID))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrClaimLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	assets, err := datastore.GetActiveAssetsByAccount(ctx, service.readonlyPostgresDB, account.ID)
	if err != nil {
		return nil, err
	}

	policy := service.onDemandPolicy(ctx)

	now := time.Now()
	result, err := settleAssets(ctx, service.postgresDB, account.ID, assets, now, policy)
	if err != nil {
		return nil, err
	}

	if result.AssetsProcessed == 0 {
		return nil, errorx.Wrap(ErrNothingToClaim, errorx.NotExist)
	}

	service.serviceAccount.RecordMinedBolt(ctx, account.ID, result.ClaimedAmounts.Bolt)

	_ = service.cache.Delete(ctx, DBKeyAccountAssets(account.ID))
	_ = service.serviceAccount.ClearAccountCache(ctx, account.ID)

	return result, nil
}

func (service *ServiceAsset) onDemandPolicy(ctx context.Context) internal.ClaimPolicy {
	policy := internal.OnDemandPolicy()

	policy.MinHours, _ = service.serviceConfig.GetFloatConfig(ctx, CONFIG_CLAIM_MIN_HOURS, policy.MinHours)
	policy.MaxHours, _ = service.serviceConfig.GetFloatConfig(ctx, CONFIG_CLAIM_MAX_HOURS, policy.MaxHours)
	return policy
}

// settleAssets is the shared claim-and-credit transaction used by the
// on-demand path and, per account, by the batch sweep. Assets whose
// conditional watermark advance loses a race are dropped from the
// aggregate before the credit.
func settleAssets(ctx context.Context, db *bun.DB, accountID int64, assets []*models.ServerAsset, now time.Time, policy internal.ClaimPolicy) (*internal.ClaimResult, error) {
	type pending struct {
		asset   *models.ServerAsset
		amounts internal.ClaimAmounts
	}

	var claimable []pending
	total := internal.ClaimAmounts{}

	for _, asset := range assets {
		rates := internal.YieldRates{
			Bolt: asset.DailyBoltYield,
			Usdt: asset.DailyUsdtYield,
			Ton:  asset.DailyTonYield,
		}

		amounts, _, ok := internal.ComputeClaim(asset.LastClaimAt, now, rates, policy)
		if !ok {
			continue
		}

		claimable = append(claimable, pending{asset, amounts})
		total = total.Add(amounts)
	}

	if len(claimable) == 0 {
		return &internal.ClaimResult{AccountID: accountID, ClaimedAt: now}, nil
	}

	processed := 0
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		processed = 0
		credit := total

		for _, p := range claimable {
			advanced, err := datastore.AdvanceAssetWatermark(ctx, tx, p.asset.ID, p.asset.LastClaimAt, now)
			if err != nil {
				return err
			}
			if !advanced {
				// someone else settled this asset since we read it
				credit = credit.Sub(p.amounts)
				continue
			}
			processed++
		}

		total = credit
		if processed == 0 {
			total = internal.ClaimAmounts{}
			return nil
		}
		if credit.IsZero() {
			return nil
		}

		return datastore.CreditAccountBalances(ctx, tx, accountID, credit)
	})
	if err != nil {
		log.Println("claim settle failed:", "account:", accountID, err)
		return nil, err
	}

	return &internal.ClaimResult{
		AccountID:       accountID,
		ClaimedAmounts:  total,
		AssetsProcessed: processed,
		ClaimedAt:       now,
	}, nil
}
