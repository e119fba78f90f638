package model

import "time"

// Knock statuses. A knock only ever moves pending -> accepted.
const (
	KnockPending  = "pending"
	KnockAccepted = "accepted"
)

// Knock knocks table: a directed swap request from a user to a room
type Knock struct {
	KnockID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"           json:"knock_id"`
	FromUserID string     `gorm:"type:uuid;not null;uniqueIndex:idx_knock_pair,priority:1" json:"from_user_id"`
	ToRoomID   string     `gorm:"type:uuid;not null;uniqueIndex:idx_knock_pair,priority:2" json:"to_room_id"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending'"              json:"status"` // pending | accepted
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                       json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	// associations
	FromUser *User `gorm:"foreignKey:FromUserID;references:UserID;constraint:OnDelete:CASCADE" json:"from_user,omitempty"`
	ToRoom   *Room `gorm:"foreignKey:ToRoomID;references:RoomID;constraint:OnDelete:CASCADE"   json:"to_room,omitempty"`
}

// TableName table name
func (Knock) TableName() string { return "knocks" }
