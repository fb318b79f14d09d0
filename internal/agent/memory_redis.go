package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPlanMemory 实现了 PlanMemory 接口，使用 Redis List 存放引擎调用流水。
// 流水只是诊断数据，键默认带 TTL，过期自动清理。
type RedisPlanMemory struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

// NewRedisPlanMemory 创建一个新的 RedisPlanMemory 实例。
// keyPrefix 为空时使用 "plan_transcript:"；ttl 为 0 表示不过期。
func NewRedisPlanMemory(redisClient *redis.Client, keyPrefix string, ttl time.Duration) (*RedisPlanMemory, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if keyPrefix == "" {
		keyPrefix = "plan_transcript:"
	}

	// 启动时确认连通性，避免运行到第一条流水才发现 Redis 不可达
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisPlanMemory{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		ttl:         ttl,
	}, nil
}

// buildKey 为给定的请求 ID 构建 Redis 键
func (rpm *RedisPlanMemory) buildKey(requestID string) string {
	return rpm.keyPrefix + requestID
}

// AppendExchange 实现 PlanMemory 接口
func (rpm *RedisPlanMemory) AppendExchange(requestID string, exchange *EngineExchange) error {
	if exchange == nil {
		return fmt.Errorf("cannot append nil exchange to transcript for request %s", requestID)
	}
	key := rpm.buildKey(requestID)
	ctx := context.Background()

	serialized, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange for request %s: %w", requestID, err)
	}

	// RPush 与 Expire 放进同一个事务管道，保证 TTL 不会丢
	pipe := rpm.redisClient.TxPipeline()
	pipe.RPush(ctx, key, serialized)
	if rpm.ttl > 0 {
		pipe.Expire(ctx, key, rpm.ttl)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append exchange to redis for request %s: %w", requestID, err)
	}
	return nil
}

// GetTranscript 实现 PlanMemory 接口
func (rpm *RedisPlanMemory) GetTranscript(requestID string) ([]*EngineExchange, error) {
	key := rpm.buildKey(requestID)
	ctx := context.Background()

	serialized, err := rpm.redisClient.LRange(ctx, key, 0, -1).Result()
	if errors.Is(err, redis.Nil) {
		return []*EngineExchange{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript from redis for request %s: %w", requestID, err)
	}

	transcript := make([]*EngineExchange, 0, len(serialized))
	for _, item := range serialized {
		var exchange EngineExchange
		if err := json.Unmarshal([]byte(item), &exchange); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exchange for request %s: %w", requestID, err)
		}
		transcript = append(transcript, &exchange)
	}
	return transcript, nil
}

// ClearTranscript 实现 PlanMemory 接口
func (rpm *RedisPlanMemory) ClearTranscript(requestID string) error {
	key := rpm.buildKey(requestID)
	ctx := context.Background()

	if err := rpm.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear transcript from redis for request %s: %w", requestID, err)
	}
	return nil
}

var _ PlanMemory = (*RedisPlanMemory)(nil)
var _ PlanMemory = (*InMemoryPlanMemory)(nil)
