package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightapp/config"
	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SearchKey identifies one itinerary search. Flights are read-only, so equal
// keys always produce equal results.
type SearchKey struct {
	Origin      string
	Destination string
	DirectOnly  bool
	Day         int
	MaxResults  int
}

type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), searchTTL)
}

func NewRedisCacheWithClient(client *redis.Client, searchTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, searchTTL: searchTTL}
}

// GetItineraries returns the cached result for key, or nil on a miss.
func (c *RedisCache) GetItineraries(ctx context.Context, key SearchKey) ([]domain.Itinerary, error) {
	data, err := c.client.Get(ctx, searchKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	itineraries := make([]domain.Itinerary, 0)
	if err := json.Unmarshal(data, &itineraries); err != nil {
		return nil, err
	}
	return itineraries, nil
}

func (c *RedisCache) SetItineraries(ctx context.Context, key SearchKey, itineraries []domain.Itinerary) error {
	if itineraries == nil {
		itineraries = []domain.Itinerary{}
	}
	payload, err := json.Marshal(itineraries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(key), payload, c.searchTTL).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func searchKey(k SearchKey) string {
	return fmt.Sprintf("cache:search:%q:%q:%t:%d:%d", k.Origin, k.Destination, k.DirectOnly, k.Day, k.MaxResults)
}
