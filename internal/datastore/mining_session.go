package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"boltfarm/internal/models"
)

func CreateTableMiningSession(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.MiningSession)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.MiningSession)(nil)).Index("index_mining_session_account_id").IfNotExists().Column("account_id").Exec(ctx)
	if err != nil {
		return err
	}

	// one active session per account, enforced by the store as well as
	// the per-account lock
	_, err = db.NewRaw(`
		create unique index if not exists index_mining_session_single_active
			on mining_session (account_id) where active;`).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertMiningSession(ctx context.Context, db *bun.DB, session *models.MiningSession) error {
	_, err := db.NewInsert().Model(session).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// GetActiveMiningSession returns sql.ErrNoRows when no session is live.
func GetActiveMiningSession(ctx context.Context, db *bun.DB, accountID int64) (*models.MiningSession, error) {
	var session models.MiningSession
	err := db.NewSelect().Model(&session).
		Where("account_id = ?", accountID).
		Where("active = true").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// CompleteMiningSession flips the active flag off, conditionally on it
// still being on. A second completion matches zero rows.
func CompleteMiningSession(ctx context.Context, db bun.IDB, sessionID string, completedAt time.Time) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.MiningSession)(nil)).
		Set("active = false").
		Set("completed_at = ?", completedAt).
		Where("id = ?", sessionID).
		Where("active = true").
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

func GetMiningSessionsByAccount(ctx context.Context, db *bun.DB, accountID int64, limit, offset int) ([]*models.MiningSession, error) {
	var sessions []*models.MiningSession
	err := db.NewSelect().Model(&sessions).
		Where("account_id = ?", accountID).
		Order("started_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}
