package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/tonkeeper/tongo"
	"github.com/uptrace/bun"

	"boltfarm/internal"
	"boltfarm/internal/datastore"
	"boltfarm/internal/datastore/redis_store"
	"boltfarm/internal/models"
	"boltfarm/internal/pkg/caching"
	"boltfarm/internal/pkg/ton_utils"
)

type ServiceAccount struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceAccount(container *do.Injector) (*ServiceAccount, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
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

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	return &ServiceAccount{container, db, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

// FindOrCreateAccount syncs the identity profile onto the ledger row,
// creating it on first contact. Balances and tiers are never taken from
// the identity provider.
func (service *ServiceAccount) FindOrCreateAccount(ctx context.Context, accountAuth *models.AccountFromAuth) (*models.Account, error) {
	if accountAuth == nil {
		return nil, errors.New("accountAuth is nil")
	}

	account, _ := service.FindAccountByID(ctx, accountAuth.ID)
	if account != nil {
		if (account.Username != strings.ToLower(accountAuth.Username)) ||
			(account.FirstName != accountAuth.FirstName) ||
			(account.LastName != accountAuth.LastName) ||
			(account.PhotoURL != accountAuth.PhotoURL) {
			account.Username = strings.ToLower(accountAuth.Username)
			account.FirstName = accountAuth.FirstName
			account.LastName = accountAuth.LastName
			account.PhotoURL = accountAuth.PhotoURL
			//nolint:errcheck
			datastore.UpdateAccountProfile(ctx, service.postgresDB, account)
			_ = service.cache.Delete(ctx, DBKeyAccount(account.ID))
		}
		return account, nil
	}

	now := time.Now()
	newAccount := &models.Account{
		ID:           accountAuth.ID,
		FirstName:    accountAuth.FirstName,
		LastName:     accountAuth.LastName,
		Username:     strings.ToLower(accountAuth.Username),
		LanguageCode: accountAuth.LanguageCode,
		PhotoURL:     accountAuth.PhotoURL,
		IsPremium:    accountAuth.IsPremium,
		MiningPower:  MINING_POWER_DEFAULT,
		MiningHours:  MINING_HOURS_DEFAULT,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	log.Println("Create new account:", newAccount.ID, "username:", newAccount.Username)
	account, err := datastore.CreateAccount(ctx, service.postgresDB, newAccount)
	if err != nil {
		return nil, err
	}

	account.IsNewAccount = true
	return account, nil
}

func (service *ServiceAccount) FindAccountByID(ctx context.Context, accountID int64) (*models.Account, error) {
	callback := func() (*models.Account, error) {
		return datastore.FindAccountByID(ctx, service.readonlyPostgresDB, accountID)
	}
	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyAccount(accountID), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceAccount) FindAccountByIDNoCache(ctx context.Context, accountID int64) (*models.Account, error) {
	return datastore.FindAccountByID(ctx, service.readonlyPostgresDB, accountID)
}

func (service *ServiceAccount) Me(ctx context.Context, account *models.Account) (*models.Account, error) {
	wallet, err := service.FindAccountWalletByID(ctx, account.ID)
	if err != nil && err != sql.ErrNoRows && err != redis.Nil {
		return nil, err
	}
	if wallet != nil {
		account.TONWallet = wallet.TONWallet
	}

	serviceMining, err := do.Invoke[*ServiceMining](service.container)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	session, err := serviceMining.GetProgress(ctx, account)
	if err != nil && !errors.Is(err, ErrNoActiveSession) {
		return nil, err
	}
	account.Session = session

	return account, nil
}

// CreditBalances is the single entry point for putting settled amounts
// onto the ledger outside a claim transaction (crate drops, session
// completion uses its own transaction).
func (service *ServiceAccount) CreditBalances(ctx context.Context, accountID int64, amounts internal.ClaimAmounts) error {
	err := datastore.CreditAccountBalances(ctx, service.postgresDB, accountID, amounts)
	if err != nil {
		return err
	}

	service.RecordMinedBolt(ctx, accountID, amounts.Bolt)
	return service.ClearAccountCache(ctx, accountID)
}

// RecordMinedBolt bumps the miner leaderboard. Best effort: the ledger
// is the source of truth, the board is derived.
func (service *ServiceAccount) RecordMinedBolt(ctx context.Context, accountID int64, bolt int64) {
	if bolt <= 0 {
		return
	}
	err := redis_store.IncrMinerScore(ctx, service.redisDB, accountID, bolt)
	if err != nil {
		log.Println("miner leaderboard update failed:", err)
	}
}

func (service *ServiceAccount) FindAccountWalletByID(ctx context.Context, accountID int64) (*models.AccountWallet, error) {
	callback := func() (*models.AccountWallet, error) {
		return datastore.FindAccountWalletByID(ctx, service.readonlyPostgresDB, accountID)
	}
	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyAccountWallet(accountID), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceAccount) ConnectTonWallet(ctx context.Context, account *models.Account, payload *models.TonProof) error {
	if payload == nil {
		return errors.New("invalid payload")
	}

	wallet, err := service.FindAccountWalletByID(ctx, account.ID)
	if err != nil && err != sql.ErrNoRows && err != redis.Nil {
		return err
	}

	if wallet != nil && wallet.TONWallet != nil {
		return errorx.Wrap(errors.New("already connected"), errorx.Invalid)
	}

	parsed, err := ton_utils.ParseTonProofMessage(payload)
	if err != nil {
		return err
	}

	addr, err := tongo.ParseAddress(payload.Address)
	if err != nil {
		return errorx.Wrap(errors.New("invalid account"), errorx.Invalid)
	}

	vs := do.MustInvokeNamed[map[string]string](service.container, "envs")

	check, err := ton_utils.CheckProof(ctx, service.redisDB, addr.ID, vs["TON_APP_DOMAIN"], payload.Nonce, payload.PublicKey, parsed)
	if err != nil {
		log.Println(err)
		return errorx.Wrap(errors.New("proof checking error"), errorx.Invalid)
	}
	if !check {
		return errorx.Wrap(errors.New("invalid proof"), errorx.Invalid)
	}

	tonWallet := addr.ID.String()

	if wallet == nil {
		wallet = &models.AccountWallet{
			ID:        account.ID,
			TONWallet: &tonWallet,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		_, err = datastore.CreateAccountWallet(ctx, service.postgresDB, wallet)
		if err != nil {
			return err
		}
	} else {
		wallet.TONWallet = &tonWallet

		_, err = datastore.UpdateAccountWallet(ctx, service.postgresDB, wallet)
		if err != nil {
			return err
		}
	}

	err = service.cache.Delete(ctx, DBKeyAccountWallet(account.ID))
	if err != nil {
		log.Println(err)
	}

	return service.ClearAccountCache(ctx, account.ID)
}

func (service *ServiceAccount) ClearAccountCache(ctx context.Context, accountID int64) error {
	err := service.cache.Delete(ctx, DBKeyMe(accountID))
	if err != nil {
		log.Println(err)
	}

	err = service.cache.Delete(ctx, DBKeyAccount(accountID))
	if err != nil {
		log.Println(err)
	}

	return nil
}
