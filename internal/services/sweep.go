package services

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"boltfarm/internal"
	"boltfarm/internal/datastore"
	"boltfarm/internal/datastore/redis_store"
	"boltfarm/internal/models"
)

const SWEEP_PAGE_SIZE = 500

// ServiceSweep runs the periodic uncapped settlement over every active
// asset in the system.
type ServiceSweep struct {
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB

	serviceConfig  *ServiceConfig
	serviceAccount *ServiceAccount
}

func NewServiceSweep(container *do.Injector) (*ServiceSweep, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
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

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceAccount, err := do.Invoke[*ServiceAccount](container)
	if err != nil {
		return nil, err
	}

	return &ServiceSweep{redisDB, postgresDB, readonlyPostgresDB, serviceConfig, serviceAccount}, nil
}

// SweepAllAssets pages through the active assets, groups them per
// account and settles each account in its own transaction under the
// uncapped policy. One account failing does not stop the run; it is
// counted and the sweep moves on.
func (service *ServiceSweep) SweepAllAssets(ctx context.Context) (*internal.SweepReport, error) {
	started := time.Now()

	policy := internal.SweepPolicy()
	policy.MinHours, _ = service.serviceConfig.GetFloatConfig(ctx, CONFIG_CLAIM_MIN_HOURS, policy.MinHours)

	report := &internal.SweepReport{RanAt: started}
	byAccount := map[int64][]*models.ServerAsset{}

	offset := 0
	for {
		assets, err := datastore.GetAllActiveAssets(ctx, service.readonlyPostgresDB, SWEEP_PAGE_SIZE, offset)
		if err != nil {
			return nil, err
		}

		for _, asset := range assets {
			byAccount[asset.AccountID] = append(byAccount[asset.AccountID], asset)
		}

		if len(assets) < SWEEP_PAGE_SIZE {
			break
		}
		offset += SWEEP_PAGE_SIZE
	}

	now := time.Now()
	for accountID, assets := range byAccount {
		result, err := settleAssets(ctx, service.postgresDB, accountID, assets, now, policy)
		if err != nil {
			log.Println("sweep account failed:", accountID, err)
			report.AccountsFailed++
			continue
		}

		if result.AssetsProcessed == 0 {
			continue
		}

		report.AccountsUpdated++
		report.AssetsProcessed += result.AssetsProcessed
		report.TotalBolt += result.ClaimedAmounts.Bolt
		report.TotalUsdt += result.ClaimedAmounts.Usdt
		report.TotalTon += result.ClaimedAmounts.Ton

		service.serviceAccount.RecordMinedBolt(ctx, accountID, result.ClaimedAmounts.Bolt)
		_ = service.serviceAccount.ClearAccountCache(ctx, accountID)
	}

	report.Finish(started)

	if err := redis_store.SetLastSweepReport(ctx, service.redisDB, report); err != nil {
		log.Println("store sweep report:", err)
	}

	return report, nil
}

func (service *ServiceSweep) GetLastSweepReport(ctx context.Context) (*internal.SweepReport, error) {
	return redis_store.GetLastSweepReport(ctx, service.redisDB)
}
