package redis_store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"boltfarm/internal"
	"boltfarm/internal/models"
)

const MINER_LEADERBOARD_SIZE_MAX = 100

func dbKeyLastSweepReport() string {
	return "sweep:last_report"
}

func dbKeyMinerLeaderboard() string {
	return "leaderboard:miners"
}

func dbKeyProofNonce(key string) string {
	return "nonce:" + key
}

func GetProofNonce(ctx context.Context, cmd redis.Cmdable, key string) (string, error) {
	return cmd.Get(ctx, dbKeyProofNonce(key)).Result()
}

func SetProofNonce(ctx context.Context, cmd redis.Cmdable, key string, nonce string, ttl time.Duration) error {
	return cmd.Set(ctx, dbKeyProofNonce(key), nonce, ttl).Err()
}

// SetLastSweepReport keeps the most recent sweep run for the stats
// endpoint. No TTL: a stale report is still the last report.
func SetLastSweepReport(ctx context.Context, cmd redis.Cmdable, report *internal.SweepReport) error {
	b, err := msgpack.Marshal(report)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyLastSweepReport(), b, 0).Err()
}

func GetLastSweepReport(ctx context.Context, cmd redis.Cmdable) (*internal.SweepReport, error) {
	var v *internal.SweepReport
	b, err := cmd.Get(ctx, dbKeyLastSweepReport()).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}

// IncrMinerScore bumps an account's lifetime mined BOLT on the
// leaderboard set.
func IncrMinerScore(ctx context.Context, cmd redis.Cmdable, accountID int64, bolt int64) error {
	return cmd.ZIncrBy(ctx, dbKeyMinerLeaderboard(), float64(bolt), strconv.FormatInt(accountID, 10)).Err()
}

func GetMinerLeaderboard(ctx context.Context, cmd redis.Cmdable, num int) ([]*models.LeaderboardItem, error) {
	if num > MINER_LEADERBOARD_SIZE_MAX {
		num = MINER_LEADERBOARD_SIZE_MAX
	}

	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyMinerLeaderboard(), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	var results []*models.LeaderboardItem
	for i, item := range items {
		id, _ := strconv.ParseInt(item.Member.(string), 10, 64)
		results = append(results, &models.LeaderboardItem{
			AccountID: id,
			Score:     item.Score,
			Rank:      i + 1,
		})
	}

	return results, nil
}

func GetMinerRank(ctx context.Context, cmd redis.Cmdable, accountID int64) (*models.LeaderboardItem, error) {
	member := strconv.FormatInt(accountID, 10)
	rank, err := cmd.ZRevRank(ctx, dbKeyMinerLeaderboard(), member).Result()
	if err != nil {
		return nil, err
	}

	score, err := cmd.ZScore(ctx, dbKeyMinerLeaderboard(), member).Result()
	if err != nil {
		return nil, err
	}

	return &models.LeaderboardItem{
		AccountID: accountID,
		Score:     score,
		Rank:      int(rank) + 1,
	}, nil
}
