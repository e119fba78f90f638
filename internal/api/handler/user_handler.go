package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/service"
	"dormhop/backend/pkg/response"
)

// UserHandler the caller's profile, room and bookmarks
type UserHandler struct {
	userSvc service.UserService
	roomSvc service.RoomService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService, roomSvc service.RoomService) *UserHandler {
	return &UserHandler{userSvc: userSvc, roomSvc: roomSvc}
}

// GetMe GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.userSvc.GetMe(c.Request.Context(), userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteMe deletes the account together with its room, knocks and bookmarks
// DELETE /api/v1/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.userSvc.DeleteMe(c.Request.Context(), userID); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

// UpdateRoom PUT /api/v1/users/me/room
func (h *UserHandler) UpdateRoom(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.userSvc.UpdateRoom(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, result)
}

// SetVisibility PATCH /api/v1/users/me/room/visibility
func (h *UserHandler) SetVisibility(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.VisibilityRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.userSvc.SetVisibility(c.Request.Context(), userID, *req.IsRoomListed)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, result)
}

// ListSaved GET /api/v1/users/me/saved
func (h *UserHandler) ListSaved(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.roomSvc.ListSaved(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.FromError(c, 12001, err)
	case errors.Is(err, service.ErrRoomGenderMismatch):
		response.FromError(c, 12002, err)
	default:
		internalError(c, err)
	}
}
