package dto

// ── auth module DTO ──

// GoogleSignInRequest Google ID-token sign-in. Profile fields are only
// read when the account does not exist yet.
type GoogleSignInRequest struct {
	IDToken      string             `json:"id_token"       binding:"required"`
	ClassYear    *int               `json:"class_year"     binding:"omitempty,min=1900,max=2100"`
	Gender       string             `json:"gender"         binding:"omitempty,oneof=male female"`
	IsRoomListed bool               `json:"is_room_listed"`
	CurrentRoom  *UpdateRoomRequest `json:"current_room"`
}

// RegisterRequest development-only registration
type RegisterRequest struct {
	Email        string             `json:"email"          binding:"required,email,max=255"`
	FullName     string             `json:"full_name"      binding:"required,min=1,max=100"`
	ClassYear    int                `json:"class_year"     binding:"required,min=1900,max=2100"`
	Gender       string             `json:"gender"         binding:"omitempty,oneof=male female"`
	IsRoomListed bool               `json:"is_room_listed"`
	CurrentRoom  *UpdateRoomRequest `json:"current_room"`
}
