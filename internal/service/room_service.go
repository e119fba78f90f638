package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/model"
	"dormhop/backend/internal/repository"
	"dormhop/backend/pkg/clock"
	pkgerrors "dormhop/backend/pkg/errors"
)

var (
	ErrRoomNotFound     = pkgerrors.New(pkgerrors.KindNotFound, "room not found")
	ErrRoomAlreadySaved = pkgerrors.New(pkgerrors.KindConflict, "room already saved")
	ErrRoomNotSaved     = pkgerrors.New(pkgerrors.KindInvalidInput, "room is not in your saved list")
)

// RoomService feed browsing and bookmarks
type RoomService interface {
	// Feed lists every listed room except the caller's, oldest first
	Feed(ctx context.Context, userID, dorm string) (*dto.RoomListResponse, error)
	Get(ctx context.Context, userID, roomID string) (*dto.RoomFeedItem, error)
	Save(ctx context.Context, userID, roomID string) error
	Unsave(ctx context.Context, userID, roomID string) error
	ListSaved(ctx context.Context, userID string) (*dto.RoomListResponse, error)
}

type roomService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewRoomService creates a RoomService
func NewRoomService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, clock: clk, logger: logger}
}

func (s *roomService) Feed(ctx context.Context, userID, dorm string) (*dto.RoomListResponse, error) {
	rooms, err := s.repo.Room.ListListed(ctx, userID, dorm)
	if err != nil {
		s.logger.Error("list listed rooms failed", zap.Error(err))
		return nil, err
	}
	items := make([]dto.RoomFeedItem, 0, len(rooms))
	for i := range rooms {
		items = append(items, toFeedItem(&rooms[i]))
	}
	return &dto.RoomListResponse{Rooms: items, Total: len(items)}, nil
}

// Get owners may always see their own room, listed or not
func (s *roomService) Get(ctx context.Context, userID, roomID string) (*dto.RoomFeedItem, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != userID && !ownerListed(room) {
		return nil, ErrRoomNotFound
	}
	item := toFeedItem(room)
	return &item, nil
}

func (s *roomService) Save(ctx context.Context, userID, roomID string) error {
	room, err := s.visibleRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID == userID {
		return ErrRoomNotFound
	}

	err = s.repo.SavedRoom.Create(ctx, &model.SavedRoom{
		UserID:    userID,
		RoomID:    roomID,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRoomAlreadySaved
		}
		s.logger.Error("save room failed", zap.String("room_id", roomID), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) Unsave(ctx context.Context, userID, roomID string) error {
	if !validID(roomID) {
		return ErrRoomNotSaved
	}
	removed, err := s.repo.SavedRoom.Delete(ctx, userID, roomID)
	if err != nil {
		s.logger.Error("unsave room failed", zap.String("room_id", roomID), zap.Error(err))
		return err
	}
	if !removed {
		return ErrRoomNotSaved
	}
	return nil
}

// ListSaved hides bookmarks whose owner has since unlisted
func (s *roomService) ListSaved(ctx context.Context, userID string) (*dto.RoomListResponse, error) {
	saved, err := s.repo.SavedRoom.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list saved rooms failed", zap.Error(err))
		return nil, err
	}
	items := make([]dto.RoomFeedItem, 0, len(saved))
	for _, sr := range saved {
		if sr.Room == nil || !ownerListed(sr.Room) {
			continue
		}
		items = append(items, toFeedItem(sr.Room))
	}
	return &dto.RoomListResponse{Rooms: items, Total: len(items)}, nil
}

// visibleRoom loads a room whose owner is listed; hidden and absent rooms
// are indistinguishable
func (s *roomService) visibleRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !ownerListed(room) {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *roomService) loadRoom(ctx context.Context, roomID string) (*model.Room, error) {
	if !validID(roomID) {
		return nil, ErrRoomNotFound
	}
	room, err := s.repo.Room.GetByID(ctx, roomID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("get room failed", zap.String("room_id", roomID), zap.Error(err))
		return nil, err
	}
	return room, nil
}

func ownerListed(room *model.Room) bool {
	return room.Owner != nil && room.Owner.IsRoomListed
}
