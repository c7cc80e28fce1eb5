package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"boltfarm/internal/models"
)

func CreateTableAccountWallet(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AccountWallet)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.AccountWallet)(nil)).Index("index_account_wallet_ton").Unique().IfNotExists().Column("ton_wallet").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindAccountWalletByID(ctx context.Context, db *bun.DB, accountID int64) (*models.AccountWallet, error) {
	var wallet models.AccountWallet
	err := db.NewSelect().Model(&wallet).Where("id = ?", accountID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func CreateAccountWallet(ctx context.Context, db *bun.DB, wallet *models.AccountWallet) (*models.AccountWallet, error) {
	_, err := db.NewInsert().Model(wallet).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

func UpdateAccountWallet(ctx context.Context, db *bun.DB, wallet *models.AccountWallet) (*models.AccountWallet, error) {
	_, err := db.NewUpdate().Model(wallet).WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}

	return wallet, nil
}
