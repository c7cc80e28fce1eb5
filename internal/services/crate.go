package services

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/mroth/weightedrand/v2"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"boltfarm/internal"
	"boltfarm/internal/datastore"
	"boltfarm/internal/models"
	"boltfarm/internal/pkg/caching"
)

// ServiceCrate handles the supply crate: a free weighted drop on a
// per-account cooldown.
type ServiceCrate struct {
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	chooser            *weightedrand.Chooser[models.CrateDrop, int]

	serviceConfig  *ServiceConfig
	serviceAccount *ServiceAccount
}

func NewServiceCrate(container *do.Injector) (*ServiceCrate, error) {
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

	choices := make([]weightedrand.Choice[models.CrateDrop, int], 0, len(models.CrateDrops))
	for _, drop := range models.CrateDrops {
		choices = append(choices, weightedrand.NewChoice(drop, drop.Chance))
	}
	chooser, err := weightedrand.NewChooser(choices...)
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

	return &ServiceCrate{rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, chooser, serviceConfig, serviceAccount}, nil
}

func (service *ServiceCrate) GetAccountCrate(ctx context.Context, accountID int64) (*models.AccountCrate, error) {
	callback := func() (*models.AccountCrate, error) {
		crate, err := datastore.GetAccountCrate(ctx, service.readonlyPostgresDB, accountID)
		if err != nil {
			return nil, err
		}
		if crate != nil {
			return crate, nil
		}

		crate = &models.AccountCrate{AccountID: accountID, Countdown: time.Now()}
		if err := datastore.InsertAccountCrate(ctx, service.postgresDB, crate); err != nil {
			return nil, err
		}
		return datastore.GetAccountCrate(ctx, service.postgresDB, accountID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyAccountCrate(accountID), CACHE_TTL_15_SECONDS, callback)
}

// OpenCrate rolls a drop and credits it. The cooldown bump is
// conditional on the crate still being openable, so a double submit
// pays out once.
func (service *ServiceCrate) OpenCrate(ctx context.Context, account *models.Account) (*models.CrateDrop, error) {
	mutex := service.rs.NewMutex(LockKeyCrate(account.ID))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrCrateLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	crate, err := service.GetAccountCrate(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !crate.Openable(now) {
		return nil, errorx.Wrap(ErrCrateNotReady, errorx.Invalid)
	}

	cooldownHours, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_CRATE_COUNTDOWN_HOURS, CRATE_COUNTDOWN_HOURS_DEFAULT)
	nextOpen := now.Add(time.Duration(cooldownHours) * time.Hour)

	opened, err := datastore.MarkCrateOpened(ctx, service.postgresDB, crate.ID, now, nextOpen)
	if err != nil {
		return nil, err
	}
	if !opened {
		return nil, errorx.Wrap(ErrCrateNotReady, errorx.Invalid)
	}

	drop := service.chooser.Pick()

	amounts := internal.ClaimAmounts{}
	switch drop.Type {
	case models.DropTypeBolt:
		amounts.Bolt = int64(drop.Amount)
	case models.DropTypeUsdt:
		amounts.Usdt = drop.Amount
	case models.DropTypeTon:
		amounts.Ton = drop.Amount
	}

	if !amounts.IsZero() {
		if err := service.serviceAccount.CreditBalances(ctx, account.ID, amounts); err != nil {
			return nil, err
		}
	}

	_ = service.cache.Delete(ctx, DBKeyAccountCrate(account.ID))

	return &drop, nil
}
