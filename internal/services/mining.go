package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"boltfarm/internal"
	"boltfarm/internal/datastore"
	"boltfarm/internal/models"
	"boltfarm/internal/pkg/caching"
)

// ServiceMining manages the single time-boxed mining session per
// account: start, derived progress, completion credit.
type ServiceMining struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	serviceConfig  *ServiceConfig
	serviceAccount *ServiceAccount
}

func NewServiceMining(container *do.Injector) (*ServiceMining, error) {
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

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceAccount, err := do.Invoke[*ServiceAccount](container)
	if err != nil {
		return nil, err
	}

	return &ServiceMining{container, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, serviceConfig, serviceAccount}, nil
}

// StartSession freezes the rate and end time from the account's current
// tiers. Upgrades applied later never touch a session already running.
func (service *ServiceMining) StartSession(ctx context.Context, account *models.Account) (*models.MiningSession, error) {
	mutex := service.rs.NewMutex(LockKeyMiningSession(account.ID))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrMiningLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	existing, err := service.getActiveSession(ctx, account.ID)
	if err != nil && err != sql.ErrNoRows && err != redis.Nil {
		return nil, err
	}
	if existing != nil {
		return nil, errorx.Wrap(ErrSessionAlreadyActive, errorx.Invalid)
	}

	baseRate, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_MINING_BASE_RATE, MINING_BASE_RATE_PER_HOUR_DEFAULT)

	now := time.Now()
	session := &models.MiningSession{
		ID:            uuid.NewString(),
		AccountID:     account.ID,
		StartedAt:     now,
		EndsAt:        now.Add(time.Duration(account.MiningHours) * time.Hour),
		TokensPerHour: float64(baseRate) * float64(account.MiningPower),
		DurationHours: account.MiningHours,
		Active:        true,
	}

	err = datastore.InsertMiningSession(ctx, service.postgresDB, session)
	if err != nil {
		return nil, err
	}

	_ = service.cache.Delete(ctx, DBKeyActiveSession(account.ID))

	session.Refresh(now)
	return session, nil
}

// GetProgress derives remaining time, progress ratio and tokens mined
// so far from the wall clock. Nothing is persisted, so polling is free.
func (service *ServiceMining) GetProgress(ctx context.Context, account *models.Account) (*models.MiningSession, error) {
	session, err := service.getActiveSession(ctx, account.ID)
	if err == sql.ErrNoRows || err == redis.Nil || session == nil {
		return nil, errorx.Wrap(ErrNoActiveSession, errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	session.Refresh(time.Now())
	return session, nil
}

// CompleteSession credits tokensPerHour × durationHours exactly once.
// The conditional active-flag flip and the ledger credit share one
// transaction, so a replayed completion is a clean rejection rather
// than a double credit.
func (service *ServiceMining) CompleteSession(ctx context.Context, account *models.Account) (*models.MiningSession, error) {
	mutex := service.rs.NewMutex(LockKeyMiningSession(account.ID))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrMiningLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	session, err := service.getActiveSession(ctx, account.ID)
	if err == sql.ErrNoRows || err == redis.Nil || session == nil {
		return nil, errorx.Wrap(ErrNoActiveSession, errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if now.Before(session.EndsAt) {
		return nil, errorx.Wrap(ErrSessionNotComplete, errorx.Invalid)
	}

	reward := internal.ClaimAmounts{Bolt: session.TotalReward()}

	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		completed, err := datastore.CompleteMiningSession(ctx, tx, session.ID, now)
		if err != nil {
			return err
		}
		if !completed {
			return errorx.Wrap(ErrNoActiveSession, errorx.NotExist)
		}

		return datastore.CreditAccountBalances(ctx, tx, account.ID, reward)
	})
	if err != nil {
		return nil, err
	}

	service.serviceAccount.RecordMinedBolt(ctx, account.ID, reward.Bolt)

	_ = service.cache.Delete(ctx, DBKeyActiveSession(account.ID))
	_ = service.serviceAccount.ClearAccountCache(ctx, account.ID)

	session.Active = false
	session.CompletedAt = &now
	session.Refresh(now)
	return session, nil
}

func (service *ServiceMining) GetSessionHistory(ctx context.Context, account *models.Account, limit, offset int) ([]*models.MiningSession, error) {
	return datastore.GetMiningSessionsByAccount(ctx, service.readonlyPostgresDB, account.ID, limit, offset)
}

func (service *ServiceMining) getActiveSession(ctx context.Context, accountID int64) (*models.MiningSession, error) {
	callback := func() (*models.MiningSession, error) {
		return datastore.GetActiveMiningSession(ctx, service.readonlyPostgresDB, accountID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyActiveSession(accountID), CACHE_TTL_15_SECONDS, callback)
}
