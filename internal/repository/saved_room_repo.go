package repository

import (
	"context"

	"gorm.io/gorm"

	"dormhop/backend/internal/model"
)

// SavedRoomRepository bookmark data access
type SavedRoomRepository interface {
	// Create fails with gorm.ErrDuplicatedKey when the bookmark exists
	Create(ctx context.Context, saved *model.SavedRoom) error
	// Delete reports whether a bookmark was removed
	Delete(ctx context.Context, userID, roomID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.SavedRoom, error)
}

type savedRoomRepo struct {
	db *gorm.DB
}

// NewSavedRoomRepo creates a SavedRoomRepository
func NewSavedRoomRepo(db *gorm.DB) SavedRoomRepository {
	return &savedRoomRepo{db: db}
}

func (r *savedRoomRepo) Create(ctx context.Context, saved *model.SavedRoom) error {
	return r.db.WithContext(ctx).Omit("Room").Create(saved).Error
}

func (r *savedRoomRepo) Delete(ctx context.Context, userID, roomID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Delete(&model.SavedRoom{})
	return result.RowsAffected > 0, result.Error
}

func (r *savedRoomRepo) ListByUser(ctx context.Context, userID string) ([]model.SavedRoom, error) {
	var saved []model.SavedRoom
	err := r.db.WithContext(ctx).
		Preload("Room").Preload("Room.Owner").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}
