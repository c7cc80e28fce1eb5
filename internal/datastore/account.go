package datastore

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"boltfarm/internal"
	"boltfarm/internal/models"
)

func CreateTableAccount(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Account)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Account)(nil)).Index("index_account_username").IfNotExists().Column("username").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewRaw(`
		alter table account
			alter column created_at set default current_timestamp;
		alter table account
			add if not exists mining_power int default 1;
		alter table account
			add if not exists mining_hours int default 4;`).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindAccountByID(ctx context.Context, db *bun.DB, accountID int64) (*models.Account, error) {
	var account models.Account
	err := db.NewSelect().Model(&account).Where("id = ?", accountID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func CreateAccount(ctx context.Context, db *bun.DB, account *models.Account) (*models.Account, error) {
	_, err := db.NewInsert().Model(account).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return account, nil
}

func UpdateAccountProfile(ctx context.Context, db *bun.DB, account *models.Account) (*models.Account, error) {
	_, err := db.NewUpdate().Model(account).
		Set("username = ?", strings.ToLower(account.Username)).
		Set("first_name = ?", account.FirstName).
		Set("last_name = ?", account.LastName).
		Set("photo_url = ?", account.PhotoURL).WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// CreditAccountBalances adds the settled amounts onto the ledger in a
// single atomic increment. Never read-then-write-absolute here: two
// concurrent claims must both land.
func CreditAccountBalances(ctx context.Context, db bun.IDB, accountID int64, amounts internal.ClaimAmounts) error {
	_, err := db.NewUpdate().
		Model((*models.Account)(nil)).
		Set("bolt_balance = bolt_balance + ?", amounts.Bolt).
		Set("usdt_balance = usdt_balance + ?", amounts.Usdt).
		Set("ton_balance = ton_balance + ?", amounts.Ton).
		Set("updated_at = current_timestamp").
		Where("id = ?", accountID).
		Exec(ctx)
	return err
}

// DebitAccountBolt withdraws a purchase price, failing when the balance
// would go negative. Returns false on insufficient funds.
func DebitAccountBolt(ctx context.Context, db bun.IDB, accountID int64, amount int64) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.Account)(nil)).
		Set("bolt_balance = bolt_balance - ?", amount).
		Set("updated_at = current_timestamp").
		Where("id = ?", accountID).
		Where("bolt_balance >= ?", amount).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func UpdateAccountTier(ctx context.Context, db bun.IDB, accountID int64, kind string, newTier int) error {
	column := "mining_power"
	if kind == models.UPGRADE_KIND_DURATION {
		column = "mining_hours"
	}

	_, err := db.NewUpdate().
		Model((*models.Account)(nil)).
		Set(column+" = ?", newTier).
		Set("updated_at = current_timestamp").
		Where("id = ?", accountID).
		Exec(ctx)
	return err
}

func CountAccounts(ctx context.Context, db *bun.DB) (int, error) {
	count, err := db.NewSelect().Model((*models.Account)(nil)).Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}
