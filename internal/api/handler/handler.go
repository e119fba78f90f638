package handler

import (
	"dormhop/backend/internal/notify"
	"dormhop/backend/internal/service"
)

// Handler aggregate entry point for all handlers
type Handler struct {
	Auth           *AuthHandler
	User           *UserHandler
	Room           *RoomHandler
	Knock          *KnockHandler
	Recommendation *RecommendationHandler
	Dorm           *DormHandler
	Export         *ExportHandler
	Notification   *NotificationHandler
}

// NewHandler builds the aggregate; hub may be nil when notifications are off
func NewHandler(svc *service.Service, hub *notify.Hub, allowOrigins []string) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth),
		User:           NewUserHandler(svc.User, svc.Room),
		Room:           NewRoomHandler(svc.Room),
		Knock:          NewKnockHandler(svc.Knock),
		Recommendation: NewRecommendationHandler(svc.Recommendation),
		Dorm:           NewDormHandler(svc.Dorm),
		Export:         NewExportHandler(svc.Export),
		Notification:   NewNotificationHandler(hub, allowOrigins),
	}
}
