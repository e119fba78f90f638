package service

import (
	"go.uber.org/zap"

	"dormhop/backend/config"
	"dormhop/backend/internal/notify"
	"dormhop/backend/internal/repository"
	"dormhop/backend/pkg/clock"
	"dormhop/backend/pkg/features"
	"dormhop/backend/pkg/identity"
	"dormhop/backend/pkg/jwt"
)

// Service aggregate entry point for all services
type Service struct {
	Auth           AuthService
	User           UserService
	Room           RoomService
	Knock          KnockService
	Recommendation RecommendationService
	Dorm           DormService
	Export         ExportService
}

// Deps collaborators shared by the services. Blacklist and Notifier may be nil.
type Deps struct {
	Config    *config.Config
	Repo      *repository.Repository
	JWT       *jwt.Manager
	Verifier  identity.Verifier
	Blacklist TokenBlacklist
	Notifier  Notifier
	Catalog   *features.Catalog
	Features  FeatureLookup
	Clock     clock.Clock
	Logger    *zap.Logger
}

// Notifier receives knock events once their unit of work has committed
type Notifier interface {
	Publish(userID string, ev notify.Event)
}

// NewService builds the aggregate
func NewService(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	return &Service{
		Auth:           NewAuthService(d.Config, d.Repo, d.JWT, d.Verifier, d.Blacklist, d.Clock, d.Logger),
		User:           NewUserService(d.Config, d.Repo, d.Clock, d.Logger),
		Room:           NewRoomService(d.Repo, d.Clock, d.Logger),
		Knock:          NewKnockService(d.Repo, d.Notifier, d.Clock, d.Logger),
		Recommendation: NewRecommendationService(d.Repo, d.Logger),
		Dorm:           NewDormService(d.Catalog, d.Features, d.Logger),
		Export:         NewExportService(d.Repo, d.Clock, d.Logger),
	}
}
