package dto

// ── user module DTO ──

// VisibilityRequest toggle whether the caller's room appears in the feed
type VisibilityRequest struct {
	IsRoomListed *bool `json:"is_room_listed" binding:"required"`
}
