package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/newsagent/models"
	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a redis instance, for deployments running more
// than one replica.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s): %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, topic string, count int) ([]models.Article, bool, error) {
	raw, err := r.client.Get(ctx, cacheKey(topic, count)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var articles []models.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached articles: %w", err)
	}
	return articles, true, nil
}

func (r *Redis) Set(ctx context.Context, topic string, count int, articles []models.Article) error {
	raw, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("marshal articles: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(topic, count), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
