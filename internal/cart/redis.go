package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps one cart document per owner under cart:<owner>. Unlike a
// cache entry the document has no TTL; a cart must survive until the shopper
// clears it.
type RedisStorage struct {
	client *redis.Client
	owner  string
}

func NewRedisStorage(client *redis.Client, owner string) *RedisStorage {
	return &RedisStorage{client: client, owner: owner}
}

func (r *RedisStorage) Load(ctx context.Context) ([]Line, error) {
	data, err := r.client.Get(ctx, storageKey(r.owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return lines, nil
}

func (r *RedisStorage) Save(ctx context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := r.client.Set(ctx, storageKey(r.owner), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func storageKey(owner string) string {
	return fmt.Sprintf("cart:%s", owner)
}
