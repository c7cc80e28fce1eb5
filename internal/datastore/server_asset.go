package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"boltfarm/internal/models"
)

func CreateTableServerAsset(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ServerAsset)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ServerAsset)(nil)).Index("index_server_asset_account_id").IfNotExists().Column("account_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ServerAsset)(nil)).Index("index_server_asset_active").IfNotExists().Column("active").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewRaw(`
		alter table server_asset
			add if not exists catalog_slug varchar;`).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertServerAsset(ctx context.Context, db bun.IDB, asset *models.ServerAsset) error {
	_, err := db.NewInsert().Model(asset).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetActiveAssetsByAccount(ctx context.Context, db *bun.DB, accountID int64) ([]*models.ServerAsset, error) {
	var assets []*models.ServerAsset
	err := db.NewSelect().Model(&assets).
		Where("account_id = ?", accountID).
		Where("active = true").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return assets, nil
}

func GetAllActiveAssets(ctx context.Context, db *bun.DB, limit, offset int) ([]*models.ServerAsset, error) {
	var assets []*models.ServerAsset
	err := db.NewSelect().Model(&assets).
		Where("active = true").
		Order("account_id ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return assets, nil
}

// AdvanceAssetWatermark moves last_claim_at forward only when it still
// holds the value the reward was computed from. A concurrent claim that
// already advanced it makes this a no-op; the caller must then drop the
// asset's amounts from the aggregate.
func AdvanceAssetWatermark(ctx context.Context, db bun.IDB, assetID int64, seenAt, now time.Time) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.ServerAsset)(nil)).
		Set("last_claim_at = ?", now).
		Set("updated_at = current_timestamp").
		Where("id = ?", assetID).
		Where("last_claim_at = ?", seenAt).
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

func DeactivateServerAsset(ctx context.Context, db *bun.DB, assetID int64, accountID int64) error {
	_, err := db.NewUpdate().
		Model((*models.ServerAsset)(nil)).
		Set("active = false").
		Set("updated_at = current_timestamp").
		Where("id = ?", assetID).
		Where("account_id = ?", accountID).
		Exec(ctx)
	return err
}

func CountActiveAssets(ctx context.Context, db *bun.DB) (int, error) {
	count, err := db.NewSelect().Model((*models.ServerAsset)(nil)).Where("active = true").Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}
