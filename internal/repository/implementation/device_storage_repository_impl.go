package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"miniapp-gateway/internal/model"
	"miniapp-gateway/internal/repository/contract"
)

type DeviceStorageRepositoryImpl struct {
	db *gorm.DB
}

func NewDeviceStorageRepository(db *gorm.DB) contract.DeviceStorageRepository {
	return &DeviceStorageRepositoryImpl{db: db}
}

func (r *DeviceStorageRepositoryImpl) Get(ctx context.Context, deviceID uuid.UUID, key string) (string, bool, error) {
	var entry model.DeviceStorageEntry
	err := r.db.WithContext(ctx).
		Where("device_id = ? AND key = ?", deviceID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *DeviceStorageRepositoryImpl) Set(ctx context.Context, deviceID uuid.UUID, key, value string) error {
	entry := model.DeviceStorageEntry{
		DeviceID:  deviceID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *DeviceStorageRepositoryImpl) Delete(ctx context.Context, deviceID uuid.UUID, key string) error {
	return r.db.WithContext(ctx).
		Where("device_id = ? AND key = ?", deviceID, key).
		Delete(&model.DeviceStorageEntry{}).Error
}

func (r *DeviceStorageRepositoryImpl) Clear(ctx context.Context, deviceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Delete(&model.DeviceStorageEntry{}).Error
}
