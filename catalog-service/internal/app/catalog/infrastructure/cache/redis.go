package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName        = "catalog-service"
	categoriesCacheKey = "categories:all"
	categoriesPrefix   = "categories"

	// bumped by every invalidation; a list loaded under an older version is not cached
	categoriesVersionKey = "categories:version"
)

// CategoryCache keeps the full category list under a single key.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects and pings the server.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	return &CategoryCache{client: client, ttl: ttl}
}

// CategoriesVersion returns the invalidation counter; take it before loading the list.
func (c *CategoryCache) CategoriesVersion(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, categoriesVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return 0, fmt.Errorf("failed to get categories version: %w", err)
	}
	return version, nil
}

// SetCategories stores the list only while the version is still the one the
// caller loaded under. It reports whether the list was stored.
func (c *CategoryCache) SetCategories(ctx context.Context, categories []entity.Category, version int64) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(categories)
	if err != nil {
		return false, fmt.Errorf("failed to marshal categories: %w", err)
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, categoriesVersionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, categoriesCacheKey, data, c.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, categoriesVersionKey)

	if errors.Is(err, redis.TxFailedErr) {
		// an invalidation ran between WATCH and EXEC
		return false, nil
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return false, fmt.Errorf("failed to set categories in cache: %w", err)
	}

	return stored, nil
}

func (c *CategoryCache) GetCategories(ctx context.Context) ([]entity.Category, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := c.client.Get(ctx, categoriesCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, categoriesPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get categories from cache: %w", err)
	}

	var categories []entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	metrics.RecordCacheHit(serviceName, categoriesPrefix)
	return categories, nil
}

// DeleteCategories bumps the version before dropping the list so that loads
// started earlier cannot write their result back.
func (c *CategoryCache) DeleteCategories(ctx context.Context) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, categoriesVersionKey)
		pipe.Del(ctx, categoriesCacheKey)
		return nil
	})
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete categories from cache: %w", err)
	}
	return nil
}
