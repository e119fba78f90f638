package dto

// ── room module DTO ──

// UpdateRoomRequest full replacement of the caller's room
type UpdateRoomRequest struct {
	Dorm        string   `json:"dorm"        binding:"required,max=100"`
	RoomNumber  string   `json:"room_number" binding:"required,max=20"`
	Occupancy   int      `json:"occupancy"   binding:"required,min=1,max=20"`
	Amenities   []string `json:"amenities"   binding:"omitempty,max=50,dive,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Gender      string   `json:"gender"      binding:"omitempty,oneof=male female"`
}

// RoomFeedRequest feed filters
type RoomFeedRequest struct {
	Dorm string `form:"dorm" binding:"omitempty,max=100"`
}
