package service

import (
	"context"

	"github.com/google/uuid"

	"miniapp-gateway/internal/repository/contract"
)

// DeviceStorage is one device's view of the storage repository.
type DeviceStorage struct {
	repo     contract.DeviceStorageRepository
	deviceID uuid.UUID
}

func NewDeviceStorage(repo contract.DeviceStorageRepository, deviceID uuid.UUID) *DeviceStorage {
	return &DeviceStorage{repo: repo, deviceID: deviceID}
}

func (s *DeviceStorage) Load(ctx context.Context, key string) (string, error) {
	v, _, err := s.repo.Get(ctx, s.deviceID, key)
	return v, err
}

func (s *DeviceStorage) Save(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, s.deviceID, key, value)
}

func (s *DeviceStorage) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, s.deviceID, key)
}
