package service

import (
	"context"

	"go.uber.org/zap"

	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/repository"
	pkgerrors "dormhop/backend/pkg/errors"
)

var ErrRecommendNoRoom = pkgerrors.New(pkgerrors.KindPreconditionFailed, "you need a room to get recommendations")

// RecommendationService ranks listed rooms against the caller's room
type RecommendationService interface {
	Recommend(ctx context.Context, userID string) (*dto.RecommendationResponse, error)
}

type recommendationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRecommendationService creates a RecommendationService
func NewRecommendationService(repo *repository.Repository, logger *zap.Logger) RecommendationService {
	return &recommendationService{repo: repo, logger: logger}
}

// Recommend scores every room of another listed user. Rooms the caller
// already knocked on stay in the list.
func (s *recommendationService) Recommend(ctx context.Context, userID string) (*dto.RecommendationResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if user.Room == nil {
		return nil, ErrRecommendNoRoom
	}

	candidates, err := s.repo.Room.ListListed(ctx, userID, "")
	if err != nil {
		s.logger.Error("list candidate rooms failed", zap.Error(err))
		return nil, err
	}

	ranked := RankRooms(user.Room, candidates)
	items := make([]dto.RecommendedRoom, 0, len(ranked))
	for _, sr := range ranked {
		items = append(items, dto.RecommendedRoom{
			RoomFeedItem: toFeedItem(sr.Room),
			Score:        roundScore(sr.Score),
		})
	}
	return &dto.RecommendationResponse{Rooms: items, Total: len(items)}, nil
}
