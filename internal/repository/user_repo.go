package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dormhop/backend/internal/model"
)

// UserRepository user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// SetRoomListed updates the listing flag and returns the new updated_at
	SetRoomListed(ctx context.Context, id string, listed bool) (time.Time, error)
	// Delete removes the user; room, knocks and bookmarks cascade
	Delete(ctx context.Context, id string) error
}

// userRepo GORM implementation of UserRepository
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Room").Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) SetRoomListed(ctx context.Context, id string, listed bool) (time.Time, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{
			"is_room_listed": listed,
			"updated_at":     now,
		})
	if result.Error != nil {
		return time.Time{}, result.Error
	}
	if result.RowsAffected == 0 {
		return time.Time{}, gorm.ErrRecordNotFound
	}
	return now, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
