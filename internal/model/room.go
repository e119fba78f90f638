package model

import "gorm.io/datatypes"

// Room rooms table; one per owner
type Room struct {
	RoomID      string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"     json:"room_id"`
	OwnerID     string                      `gorm:"type:uuid;not null;uniqueIndex:idx_rooms_owner"     json:"owner_id"`
	Dorm        string                      `gorm:"type:varchar(100);not null;index:idx_rooms_dorm"    json:"dorm"`
	RoomNumber  string                      `gorm:"type:varchar(20);not null"                          json:"room_number"`
	Occupancy   int                         `gorm:"not null"                                           json:"occupancy"`
	Amenities   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"                   json:"amenities"`
	Description *string                     `gorm:"type:varchar(1000)"                                 json:"description,omitempty"`
	Gender      string                      `gorm:"type:varchar(10);not null;default:''"               json:"gender,omitempty"`
	BaseModel

	// associations
	Owner *User `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
}

// TableName table name
func (Room) TableName() string { return "rooms" }
