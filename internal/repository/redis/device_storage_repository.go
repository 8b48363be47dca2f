package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"miniapp-gateway/internal/repository/contract"
)

const keyPrefix = "device_storage:"

// DeviceStorageRepository keeps one Redis hash per device so the whole
// storage of a device expires and clears together.
type DeviceStorageRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeviceStorageRepository(rdb *redis.Client, ttl time.Duration) contract.DeviceStorageRepository {
	return &DeviceStorageRepository{rdb: rdb, ttl: ttl}
}

func hashKey(deviceID uuid.UUID) string {
	return keyPrefix + deviceID.String()
}

func (r *DeviceStorageRepository) Get(ctx context.Context, deviceID uuid.UUID, key string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, hashKey(deviceID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *DeviceStorageRepository) Set(ctx context.Context, deviceID uuid.UUID, key, value string) error {
	hk := hashKey(deviceID)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hk, key, value)
		if r.ttl > 0 {
			pipe.Expire(ctx, hk, r.ttl)
		}
		return nil
	})
	return err
}

func (r *DeviceStorageRepository) Delete(ctx context.Context, deviceID uuid.UUID, key string) error {
	return r.rdb.HDel(ctx, hashKey(deviceID), key).Err()
}

func (r *DeviceStorageRepository) Clear(ctx context.Context, deviceID uuid.UUID) error {
	return r.rdb.Del(ctx, hashKey(deviceID)).Err()
}
