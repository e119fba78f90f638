package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/service"
	"dormhop/backend/pkg/response"
)

// KnockHandler knock module HTTP handlers
type KnockHandler struct {
	knockSvc service.KnockService
}

// NewKnockHandler creates a KnockHandler
func NewKnockHandler(knockSvc service.KnockService) *KnockHandler {
	return &KnockHandler{knockSvc: knockSvc}
}

// Send knocks on a room; a reciprocal knock answers with status accepted and contacts
// POST /api/v1/knocks
func (h *KnockHandler) Send(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SendKnockRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.knockSvc.Send(c.Request.Context(), userID, req.ToRoomID)
	if err != nil {
		h.handleKnockError(c, err)
		return
	}
	response.Created(c, result)
}

// ListSent GET /api/v1/knocks/sent
func (h *KnockHandler) ListSent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.knockSvc.ListSent(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}
	response.OK(c, result)
}

// ListReceived GET /api/v1/knocks/received
func (h *KnockHandler) ListReceived(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.knockSvc.ListReceived(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}
	response.OK(c, result)
}

// Accept POST /api/v1/knocks/:id/accept
func (h *KnockHandler) Accept(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.knockSvc.Accept(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleKnockError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete cancel or reject
// DELETE /api/v1/knocks/:id
func (h *KnockHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.knockSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleKnockError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *KnockHandler) handleKnockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrKnockTargetRequired):
		response.FromError(c, 14001, err)
	case errors.Is(err, service.ErrKnockNoRoom):
		response.FromError(c, 14002, err)
	case errors.Is(err, service.ErrKnockRoomNotFound):
		response.FromError(c, 14003, err)
	case errors.Is(err, service.ErrKnockOwnRoom):
		response.FromError(c, 14004, err)
	case errors.Is(err, service.ErrKnockExists):
		response.FromError(c, 14005, err)
	case errors.Is(err, service.ErrKnockTransient):
		response.FromError(c, 14006, err)
	case errors.Is(err, service.ErrKnockNotFound):
		response.FromError(c, 14007, err)
	case errors.Is(err, service.ErrKnockForbidden):
		response.FromError(c, 14008, err)
	case errors.Is(err, service.ErrKnockAlreadyAccepted):
		response.FromError(c, 14009, err)
	case errors.Is(err, service.ErrUserNotFound):
		response.FromError(c, 12001, err)
	default:
		internalError(c, err)
	}
}
