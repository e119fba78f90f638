package repository

import (
	"context"

	"gorm.io/gorm"

	"dormhop/backend/internal/model"
)

// RoomRepository room data access
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByOwner(ctx context.Context, ownerID string) (*model.Room, error)
	// Replace overwrites every mutable column of an existing room
	Replace(ctx context.Context, room *model.Room) error
	// ListListed returns rooms whose owner is listed, excluding excludeOwnerID,
	// optionally filtered by dorm, oldest first
	ListListed(ctx context.Context, excludeOwnerID, dorm string) ([]model.Room, error)
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo creates a RoomRepository
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByOwner(ctx context.Context, ownerID string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) Replace(ctx context.Context, room *model.Room) error {
	result := r.db.WithContext(ctx).
		Model(room).
		Where("room_id = ?", room.RoomID).
		Select("dorm", "room_number", "occupancy", "amenities", "description", "gender", "updated_at").
		Updates(room)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *roomRepo) ListListed(ctx context.Context, excludeOwnerID, dorm string) ([]model.Room, error) {
	var rooms []model.Room
	db := r.db.WithContext(ctx).
		Joins("JOIN users ON users.user_id = rooms.owner_id").
		Where("users.is_room_listed = ?", true)
	if excludeOwnerID != "" {
		db = db.Where("rooms.owner_id <> ?", excludeOwnerID)
	}
	if dorm != "" {
		db = db.Where("rooms.dorm = ?", dorm)
	}
	err := db.Preload("Owner").
		Order("rooms.created_at ASC, rooms.room_id ASC").
		Find(&rooms).Error
	return rooms, err
}
