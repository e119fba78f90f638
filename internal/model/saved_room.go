package model

import "time"

// SavedRoom saved_rooms table: a user's bookmark on a listed room
type SavedRoom struct {
	UserID    string    `gorm:"type:uuid;primaryKey"               json:"user_id"`
	RoomID    string    `gorm:"type:uuid;primaryKey"               json:"room_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// associations
	Room *Room `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
}

// TableName table name
func (SavedRoom) TableName() string { return "saved_rooms" }
