package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"boltfarm/internal/models"
)

func CreateTableUpgradeEvent(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UpgradeEvent)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UpgradeEvent)(nil)).Index("index_upgrade_event_account_id").IfNotExists().Column("account_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertUpgradeEvent(ctx context.Context, db bun.IDB, event *models.UpgradeEvent) error {
	_, err := db.NewInsert().Model(event).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetUpgradeEventsByAccount(ctx context.Context, db *bun.DB, accountID int64) ([]*models.UpgradeEvent, error) {
	var events []*models.UpgradeEvent
	err := db.NewSelect().Model(&events).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return events, nil
}
