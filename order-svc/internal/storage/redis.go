package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"menugenius/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) OrderKey(orderNumber string) string {
	return "order:number:" + orderNumber
}

func (c *RedisCache) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	payload, err := c.Client.Get(ctx, c.OrderKey(orderNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var order domain.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *RedisCache) SetOrder(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.OrderKey(order.OrderNumber), payload, c.TTL).Err()
}
