package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"movie-catalog-backend/internal/model"
)

// UpsertPushDevice registers the endpoint, replacing its keys and owner if
// it is already known.
func (s *gormStore) UpsertPushDevice(ctx context.Context, device *model.PushDevice) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(device).Error
	if err != nil {
		return fmt.Errorf("failed to upsert push device: %w", err)
	}
	return nil
}

// DeletePushDevice removes an endpoint owned by the user.
func (s *gormStore) DeletePushDevice(ctx context.Context, userID, endpoint string) error {
	err := s.db.WithContext(ctx).
		Where("endpoint = ? AND user_id = ?", endpoint, userID).
		Delete(&model.PushDevice{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete push device: %w", err)
	}
	return nil
}

// DeletePushDeviceByEndpoint removes an endpoint the push service reported
// as gone.
func (s *gormStore) DeletePushDeviceByEndpoint(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushDevice{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete expired push device %s: %w", endpoint, err)
	}
	return nil
}

// ListPushDevices returns the endpoints registered by a user.
func (s *gormStore) ListPushDevices(ctx context.Context, userID string) ([]model.PushDevice, error) {
	var devices []model.PushDevice
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to list push devices of user %s: %w", userID, err)
	}
	return devices, nil
}
