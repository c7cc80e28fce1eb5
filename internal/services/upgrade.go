package services

import (
	"context"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"boltfarm/internal"
	"boltfarm/internal/datastore"
	"boltfarm/internal/models"
)

// ServiceUpgrade advances an account's mining power or session duration
// along fixed step tables.
type ServiceUpgrade struct {
	postgresDB *bun.DB

	serviceAccount *ServiceAccount
}

func NewServiceUpgrade(container *do.Injector) (*ServiceUpgrade, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	serviceAccount, err := do.Invoke[*ServiceAccount](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUpgrade{postgresDB, serviceAccount}, nil
}

// NextPowerTier returns the power after one upgrade step. Steps grow
// with the current tier and the result never exceeds the global cap.
func NextPowerTier(current int) (int, error) {
	if current >= MAX_MINING_POWER {
		return current, ErrMaxTierReached
	}

	var step int
	switch {
	case current < 10:
		step = 2
	case current < 50:
		step = 10
	case current < 100:
		step = 25
	default:
		step = 50
	}

	next := current + step
	if next > MAX_MINING_POWER {
		next = MAX_MINING_POWER
	}
	return next, nil
}

// NextDurationTier returns the session length after one upgrade step:
// 4h, 12h then 24h.
func NextDurationTier(current int) (int, error) {
	switch {
	case current < 12:
		return 12, nil
	case current < MAX_MINING_HOURS:
		return MAX_MINING_HOURS, nil
	default:
		return current, ErrMaxTierReached
	}
}

func (service *ServiceUpgrade) Upgrade(ctx context.Context, account *models.Account, kind string) (*internal.UpgradeResult, error) {
	var previous, next int
	var err error

	switch kind {
	case models.UPGRADE_KIND_POWER:
		previous = account.MiningPower
		next, err = NextPowerTier(previous)
	case models.UPGRADE_KIND_DURATION:
		previous = account.MiningHours
		next, err = NextDurationTier(previous)
	default:
		return nil, errorx.Wrap(ErrUnknownUpgradeKind, errorx.Invalid)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}

	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := datastore.UpdateAccountTier(ctx, tx, account.ID, kind, next); err != nil {
			return err
		}

		event := &models.UpgradeEvent{
			AccountID:    account.ID,
			Kind:         kind,
			PreviousTier: previous,
			NewTier:      next,
			CreatedAt:    time.Now(),
		}
		return datastore.InsertUpgradeEvent(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	_ = service.serviceAccount.ClearAccountCache(ctx, account.ID)

	return &internal.UpgradeResult{Kind: kind, PreviousTier: previous, NewTier: next}, nil
}

func (service *ServiceUpgrade) GetUpgradeHistory(ctx context.Context, accountID int64) ([]*models.UpgradeEvent, error) {
	return datastore.GetUpgradeEventsByAccount(ctx, service.postgresDB, accountID)
}
