package model

import (
	"time"

	"github.com/google/uuid"
)

// DeviceStorageEntry is one key of a device's local storage.
type DeviceStorageEntry struct {
	DeviceID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"device_id"`
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_device_storage_updated" json:"updated_at"`
}

func (DeviceStorageEntry) TableName() string {
	return "device_storage_entries"
}
