package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/service"
	"dormhop/backend/pkg/response"
)

// RoomHandler room feed and bookmarks
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler creates a RoomHandler
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// Feed GET /api/v1/rooms?dorm=
func (h *RoomHandler) Feed(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RoomFeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}
	result, err := h.roomSvc.Feed(c.Request.Context(), userID, req.Dorm)
	if err != nil {
		internalError(c, err)
		return
	}
	response.OK(c, result)
}

// Get GET /api/v1/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.roomSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.OK(c, result)
}

// Save POST /api/v1/rooms/:id/save
func (h *RoomHandler) Save(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.roomSvc.Save(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.Created(c, nil)
}

// Unsave DELETE /api/v1/rooms/:id/save
func (h *RoomHandler) Unsave(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.roomSvc.Unsave(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *RoomHandler) handleRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		response.FromError(c, 13001, err)
	case errors.Is(err, service.ErrRoomAlreadySaved):
		response.FromError(c, 13002, err)
	case errors.Is(err, service.ErrRoomNotSaved):
		response.FromError(c, 13003, err)
	default:
		internalError(c, err)
	}
}
