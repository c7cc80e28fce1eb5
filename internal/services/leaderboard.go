package services

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"

	"boltfarm/internal/datastore/redis_store"
	"boltfarm/internal/models"
)

// ServiceLeaderboard ranks miners by lifetime BOLT mined, backed by a
// redis sorted set updated on every credit.
type ServiceLeaderboard struct {
	redisDB redis.UniversalClient

	serviceConfig  *ServiceConfig
	serviceAccount *ServiceAccount
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
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

	return &ServiceLeaderboard{redisDB, serviceConfig, serviceAccount}, nil
}

func (service *ServiceLeaderboard) GetMinerLeaderboard(ctx context.Context, viewer *models.Account) (*models.LeaderboardResponse, error) {
	size, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_MINER_LEADERBOARD_SIZE, MINER_LEADERBOARD_DEFAULT_SIZE)

	items, err := redis_store.GetMinerLeaderboard(ctx, service.redisDB, size)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		account, err := service.serviceAccount.FindAccountByID(ctx, item.AccountID)
		if err != nil || account == nil {
			continue
		}
		item.Username = account.Username
	}

	response := &models.LeaderboardResponse{Leaderboard: items}

	if viewer != nil {
		me, err := redis_store.GetMinerRank(ctx, service.redisDB, viewer.ID)
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, err
		}
		if me != nil {
			me.Username = viewer.Username
			response.Me = me
		}
	}

	return response, nil
}
