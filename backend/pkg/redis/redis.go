package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rotahub/backend/config"
)

// Client Redis 客户端封装
// 当前用于接口限流计数与排班生成运行锁
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 接口限流 ──

// CheckRateLimit 固定窗口计数限流
// 返回 true 表示放行；窗口内首次访问时设置过期时间
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── 排班生成运行锁 ──
//
// 同一作用域的两个生成批次并发运行时，双方可能同时对同一 (employee, date)
// 插入排班。数据库唯一约束是最终仲裁，这里的咨询锁用于在正常路径上
// 将生成批次串行化，避免把约束冲突当作主要正确性手段。

const generationLockPrefix = "rotation:generate:lock:"

// AcquireGenerationLock 尝试获取指定作用域的生成锁
// 返回 false 表示已有批次在运行
func (c *Client) AcquireGenerationLock(ctx context.Context, scope string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, generationLockPrefix+scope, "1", ttl).Result()
}

// ReleaseGenerationLock 释放生成锁
func (c *Client) ReleaseGenerationLock(ctx context.Context, scope string) error {
	return c.rdb.Del(ctx, generationLockPrefix+scope).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
