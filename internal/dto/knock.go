package dto

// ── knock module DTO ──

// SendKnockRequest knock on another user's room
type SendKnockRequest struct {
	ToRoomID string `json:"to_room_id" binding:"required,uuid"`
}
