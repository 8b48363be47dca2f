package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"miniapp-gateway/internal/repository/contract"
)

type DeviceStorageRepository struct {
	cache *cache.Cache
}

// NewDeviceStorageRepository keeps entries for ttl after their last write.
// A zero ttl keeps them for the lifetime of the process.
func NewDeviceStorageRepository(ttl time.Duration) contract.DeviceStorageRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &DeviceStorageRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func entryKey(deviceID uuid.UUID, key string) string {
	return deviceID.String() + ":" + key
}

func (r *DeviceStorageRepository) Get(_ context.Context, deviceID uuid.UUID, key string) (string, bool, error) {
	if x, found := r.cache.Get(entryKey(deviceID, key)); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (r *DeviceStorageRepository) Set(_ context.Context, deviceID uuid.UUID, key, value string) error {
	r.cache.Set(entryKey(deviceID, key), value, cache.DefaultExpiration)
	return nil
}

func (r *DeviceStorageRepository) Delete(_ context.Context, deviceID uuid.UUID, key string) error {
	r.cache.Delete(entryKey(deviceID, key))
	return nil
}

func (r *DeviceStorageRepository) Clear(_ context.Context, deviceID uuid.UUID) error {
	prefix := deviceID.String() + ":"
	for k := range r.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			r.cache.Delete(k)
		}
	}
	return nil
}
