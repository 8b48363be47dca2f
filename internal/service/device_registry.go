package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DeviceRegistry holds a runtime per device, evicting devices idle for
// longer than the TTL. Persistent state lives in device storage, so an
// evicted device only needs to report its launch context again.
type DeviceRegistry struct {
	deps  RuntimeDeps
	cache *cache.Cache
	mu    sync.Mutex
}

func NewDeviceRegistry(deps RuntimeDeps, idleTTL time.Duration) *DeviceRegistry {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &DeviceRegistry{
		deps:  deps,
		cache: cache.New(idleTTL, idleTTL/2),
	}
}

// Get returns the device's runtime, creating it on first sight. Every call
// extends the device's idle deadline.
func (r *DeviceRegistry) Get(id uuid.UUID) *DeviceRuntime {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := id.String()
	rt, ok := r.lookup(key)
	if !ok {
		rt = newDeviceRuntime(id, &r.deps)
	}
	r.cache.Set(key, rt, cache.DefaultExpiration)
	return rt
}

func (r *DeviceRegistry) lookup(key string) (*DeviceRuntime, bool) {
	if x, found := r.cache.Get(key); found {
		return x.(*DeviceRuntime), true
	}
	return nil, false
}

func (r *DeviceRegistry) Len() int {
	return r.cache.ItemCount()
}
