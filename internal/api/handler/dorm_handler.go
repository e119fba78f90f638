package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dormhop/backend/internal/service"
	"dormhop/backend/pkg/response"
)

// DormHandler dorm catalogue and community features
type DormHandler struct {
	dormSvc service.DormService
}

// NewDormHandler creates a DormHandler
func NewDormHandler(dormSvc service.DormService) *DormHandler {
	return &DormHandler{dormSvc: dormSvc}
}

// List GET /api/v1/dorms
func (h *DormHandler) List(c *gin.Context) {
	response.OK(c, h.dormSvc.List())
}

// Features GET /api/v1/dorms/:name/features
func (h *DormHandler) Features(c *gin.Context) {
	result, err := h.dormSvc.Features(c.Request.Context(), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDormNotFound):
			response.FromError(c, 16001, err)
		case errors.Is(err, service.ErrFeaturesUnavailable):
			response.FromError(c, 16002, err)
		default:
			internalError(c, err)
		}
		return
	}
	response.OK(c, result)
}
