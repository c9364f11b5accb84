package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	sharedCache "github.com/davicafu/mstask/internal/shared/infra/platform/cache"
)

// setIfNewerScript compara y escribe de forma atómica valor y versión.
// KEYS[1] = valor, KEYS[2] = versión; ARGV = versión, valor, ttl en ms.
var setIfNewerScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if cur and tonumber(cur) > tonumber(ARGV[1]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[3])
return 1
`)

// RedisCache implementa la caché compartida sobre Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ sharedCache.Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func versionKey(key string) string {
	return key + ":version"
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) SetIfNewer(ctx context.Context, key string, version int64, val interface{}, ttlSecs int) (bool, error) {
	data, err := json.Marshal(val)
	if err != nil {
		return false, err
	}
	ttl := c.ttl
	if ttlSecs > 0 {
		ttl = time.Duration(ttlSecs) * time.Second
	}

	stored, err := setIfNewerScript.Run(ctx, c.client,
		[]string{key, versionKey(key)},
		version, data, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key, versionKey(key)).Err()
}

// Close libera el pool de conexiones.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
