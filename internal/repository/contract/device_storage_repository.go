package contract

import (
	"context"

	"github.com/google/uuid"
)

// DeviceStorageRepository is the server-side key/value store backing each
// device's local storage.
type DeviceStorageRepository interface {
	// Get reports found=false for a missing key.
	Get(ctx context.Context, deviceID uuid.UUID, key string) (value string, found bool, err error)
	Set(ctx context.Context, deviceID uuid.UUID, key, value string) error
	Delete(ctx context.Context, deviceID uuid.UUID, key string) error
	// Clear drops every key of the device.
	Clear(ctx context.Context, deviceID uuid.UUID) error
}
