package repository

import (
	"context"
	"fmt"
	"rollingdice-go/internal/model"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const rollStatsKey = "dice:stats"

// RollStatsRepository 定义了按出目统计掷骰次数的操作。
type RollStatsRepository interface {
	Increment(ctx context.Context, value int) error
	Get(ctx context.Context) (model.RollStats, error)
}

type redisRollStatsRepository struct {
	redisClient *redis.Client
}

// NewRollStatsRepository 创建一个基于 Redis Hash 的 RollStatsRepository。
func NewRollStatsRepository(redisClient *redis.Client) RollStatsRepository {
	return &redisRollStatsRepository{redisClient: redisClient}
}

// Increment 将指定出目的计数加一。
func (r *redisRollStatsRepository) Increment(ctx context.Context, value int) error {
	if err := r.redisClient.HIncrBy(ctx, rollStatsKey, strconv.Itoa(value), 1).Err(); err != nil {
		return fmt.Errorf("failed to increment roll stats: %w", err)
	}
	return nil
}

// Get 读取所有出目的计数。
func (r *redisRollStatsRepository) Get(ctx context.Context) (model.RollStats, error) {
	stats := model.NewRollStats()
	fields, err := r.redisClient.HGetAll(ctx, rollStatsKey).Result()
	if err != nil {
		return stats, fmt.Errorf("failed to get roll stats: %w", err)
	}
	for field, raw := range fields {
		face, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		stats.Counts[face] = count
		stats.Total += count
	}
	return stats, nil
}

// noopRollStatsRepository 在未启用 Redis 时使用。
type noopRollStatsRepository struct{}

// NewNoopRollStatsRepository 返回一个不做任何记录的 RollStatsRepository。
func NewNoopRollStatsRepository() RollStatsRepository {
	return noopRollStatsRepository{}
}

func (noopRollStatsRepository) Increment(context.Context, int) error { return nil }

func (noopRollStatsRepository) Get(context.Context) (model.RollStats, error) {
	return model.NewRollStats(), nil
}
