package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"boltfarm/internal/models"
)

func CreateTableAccountCrate(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AccountCrate)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.AccountCrate)(nil)).Index("index_account_crate_account_id").IfNotExists().Unique().Column("account_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertAccountCrate(ctx context.Context, db *bun.DB, crate *models.AccountCrate) error {
	_, err := db.NewInsert().Model(crate).On("CONFLICT (account_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetAccountCrate(ctx context.Context, db *bun.DB, accountID int64) (*models.AccountCrate, error) {
	var crate models.AccountCrate
	err := db.NewSelect().Model(&crate).Where("account_id = ?", accountID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &crate, nil
}

// MarkCrateOpened resets the cooldown, conditionally on the crate still
// being openable. Double-open races match zero rows.
func MarkCrateOpened(ctx context.Context, db *bun.DB, crateID int64, now, nextOpen time.Time) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.AccountCrate)(nil)).
		Set("countdown = ?", nextOpen).
		Set("total_opened = total_opened + 1").
		Where("id = ?", crateID).
		Where("countdown <= ?", now).
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
