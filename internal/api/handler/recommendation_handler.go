package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dormhop/backend/internal/service"
	"dormhop/backend/pkg/response"
)

// RecommendationHandler ranked room suggestions
type RecommendationHandler struct {
	recSvc service.RecommendationService
}

// NewRecommendationHandler creates a RecommendationHandler
func NewRecommendationHandler(recSvc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recSvc: recSvc}
}

// Recommend GET /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.recSvc.Recommend(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecommendNoRoom):
			response.FromError(c, 15001, err)
		case errors.Is(err, service.ErrUserNotFound):
			response.FromError(c, 12001, err)
		default:
			internalError(c, err)
		}
		return
	}
	response.OK(c, result)
}
