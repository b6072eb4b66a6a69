package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const (
	ScrapeQueueKey     = "newsbug:queue:scrape"
	DeadLetterKey      = "newsbug:queue:failed"
	geocodeCachePrefix = "newsbug:geocode:"
)

func ConnectRedis(redisURL string) error {
	if redisURL == "" {
		return fmt.Errorf("redis url is empty")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

func PingRedis(ctx context.Context) error {
	if Redis == nil {
		return fmt.Errorf("redis not connected")
	}
	return Redis.Ping(ctx).Err()
}

func PushToQueue(queueKey string, data string) error {
	return Redis.LPush(Ctx, queueKey, data).Err()
}

// PopFromQueue blocks for up to timeout; ErrQueueEmpty is returned when nothing arrived.
func PopFromQueue(queueKey string, timeout time.Duration) (string, error) {
	result, err := Redis.BRPop(Ctx, timeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrQueueEmpty
	}
	if err != nil {
		return "", err
	}
	return result[1], nil
}

var ErrQueueEmpty = errors.New("queue empty")

func GetQueueLength(queueKey string) (int64, error) {
	return Redis.LLen(Ctx, queueKey).Result()
}

// RedisQueue adapts the package-level queue helpers to a single queue key.
type RedisQueue struct {
	Key string
}

func (q RedisQueue) Push(data string) error {
	return PushToQueue(q.Key, data)
}

// GeocodeCache stores resolved coordinates as "lat,lng" strings.
type GeocodeCache struct {
	TTL time.Duration
}

func (c GeocodeCache) Get(ctx context.Context, location string) (string, bool, error) {
	val, err := Redis.Get(ctx, geocodeCachePrefix+location).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c GeocodeCache) Set(ctx context.Context, location string, value string) error {
	return Redis.Set(ctx, geocodeCachePrefix+location, value, c.TTL).Err()
}
