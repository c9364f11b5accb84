package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const asyncTimeout = 200 * time.Millisecond

// AsyncCacheSet actualiza caché en background sin bloquear. Una versión más
// antigua que la guardada se descarta, así que puede llegar tarde sin pisar nada.
func AsyncCacheSet(cache Cache, key string, version int64, value interface{}, ttl int, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		// Contexto propio: la petición original puede haber terminado ya.
		cacheCtx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if _, err := cache.SetIfNewer(cacheCtx, key, version, value, ttl); err != nil {
			log.Warn("Cache update failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}

// Refresh escribe la versión nueva de forma síncrona. Si la caché falla se
// intenta borrar la key; si tampoco se puede, solo se registra.
func Refresh(ctx context.Context, cache Cache, key string, version int64, value interface{}, log *zap.Logger) {
	if cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, asyncTimeout)
	defer cancel()

	if _, err := cache.SetIfNewer(cacheCtx, key, version, value, 0); err != nil {
		log.Warn("Cache refresh failed, invalidating",
			zap.String("key", key),
			zap.Error(err))
		Invalidate(ctx, cache, key, log)
	}
}

// Invalidate borra la key de forma síncrona; un fallo solo se registra.
func Invalidate(ctx context.Context, cache Cache, key string, log *zap.Logger) {
	if cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, asyncTimeout)
	defer cancel()

	if err := cache.Delete(cacheCtx, key); err != nil {
		log.Warn("Cache invalidation failed",
			zap.String("key", key),
			zap.Error(err))
	}
}
