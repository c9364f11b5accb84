package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	sharedCache "github.com/davicafu/mstask/internal/shared/infra/platform/cache"
)

type dummyEntry struct {
	data    []byte
	version int64
}

// DummyCache es una caché en memoria sin expiración, segura para concurrencia.
type DummyCache struct {
	store map[string]dummyEntry
	mu    sync.RWMutex
	sets  atomic.Int64

	// DeleteErr simula una caché que no puede invalidar.
	DeleteErr error
	// SetDelay simula la latencia de red de Redis en cada escritura.
	SetDelay time.Duration
	// OnSet se llama antes de aplicar cada escritura; permite retener una concreta.
	OnSet func(key string, version int64)
}

var _ sharedCache.Cache = (*DummyCache)(nil)

func NewDummyCache() *DummyCache {
	return &DummyCache{store: make(map[string]dummyEntry)}
}

func (c *DummyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DummyCache) SetIfNewer(ctx context.Context, key string, version int64, val interface{}, ttlSecs int) (bool, error) {
	defer c.sets.Add(1)

	if c.SetDelay > 0 {
		time.Sleep(c.SetDelay)
	}
	if c.OnSet != nil {
		c.OnSet(key, version)
	}

	data, err := json.Marshal(val)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]dummyEntry)
	}
	if cur, ok := c.store[key]; ok && cur.version > version {
		return false, nil
	}
	c.store[key] = dummyEntry{data: data, version: version}
	return true, nil
}

func (c *DummyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	delete(c.store, key)
	return nil
}

// Has indica si la key está presente.
func (c *DummyCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.store[key]
	return ok
}

// Version devuelve la versión guardada para la key (0 si no existe).
func (c *DummyCache) Version(key string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store[key].version
}

// Sets cuenta las escrituras terminadas, aceptadas o descartadas.
func (c *DummyCache) Sets() int64 {
	return c.sets.Load()
}

var ErrCacheDown = errors.New("cache unavailable")
