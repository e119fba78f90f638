package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"dormhop/backend/config"
	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/model"
	"dormhop/backend/internal/repository"
	"dormhop/backend/pkg/clock"
	pkgerrors "dormhop/backend/pkg/errors"
)

var (
	ErrUserNotFound       = pkgerrors.New(pkgerrors.KindUnauthenticated, "user no longer exists")
	ErrRoomGenderMismatch = pkgerrors.New(pkgerrors.KindInvalidInput, "room gender must match your gender")
)

// UserService the caller's own profile and room
type UserService interface {
	GetMe(ctx context.Context, userID string) (*dto.UserResponse, error)
	// UpdateRoom creates or fully replaces the caller's room and lists it
	UpdateRoom(ctx context.Context, userID string, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)
	SetVisibility(ctx context.Context, userID string, listed bool) (*dto.VisibilityResponse, error)
	DeleteMe(ctx context.Context, userID string) error
}

type userService struct {
	cfg    *config.Config
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(cfg *config.Config, repo *repository.Repository, clk clock.Clock, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, clock: clk, logger: logger}
}

func (s *userService) GetMe(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdateRoom(ctx context.Context, userID string, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	now := s.clock.Now()
	var room *model.Room

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		room, err = saveRoom(ctx, tx, s.cfg.Policy, now, user, req)
		if err != nil {
			return err
		}
		_, err = tx.User.SetRoomListed(ctx, userID, true)
		return err
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindInternal {
			s.logger.Error("update room failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	resp := toRoomResponse(room)
	return &resp, nil
}

func (s *userService) SetVisibility(ctx context.Context, userID string, listed bool) (*dto.VisibilityResponse, error) {
	updatedAt, err := s.repo.User.SetRoomListed(ctx, userID, listed)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("set visibility failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &dto.VisibilityResponse{
		IsRoomListed: listed,
		UpdatedAt:    formatTime(updatedAt),
	}, nil
}

func (s *userService) DeleteMe(ctx context.Context, userID string) error {
	if err := s.repo.User.Delete(ctx, userID); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		s.logger.Error("delete user failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", userID))
	return nil
}

// saveRoom creates or replaces user's room inside tx
func saveRoom(
	ctx context.Context,
	tx *repository.Repository,
	policy config.PolicyConfig,
	now time.Time,
	user *model.User,
	req *dto.UpdateRoomRequest,
) (*model.Room, error) {
	gender := req.Gender
	if gender == "" {
		gender = user.Gender
	}
	if policy.RoomGenderMustMatch && user.Gender != "" && gender != user.Gender {
		return nil, ErrRoomGenderMismatch
	}

	var description *string
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			description = &d
		}
	}

	room, err := tx.Room.GetByOwner(ctx, user.UserID)
	switch {
	case err == nil:
	case isNotFound(err):
		room = &model.Room{OwnerID: user.UserID}
		room.CreatedAt = now
	default:
		return nil, err
	}

	room.Dorm = strings.TrimSpace(req.Dorm)
	room.RoomNumber = strings.TrimSpace(req.RoomNumber)
	room.Occupancy = req.Occupancy
	room.Amenities = normalizeAmenities(req.Amenities)
	room.Description = description
	room.Gender = gender
	room.UpdatedAt = now

	if room.RoomID == "" {
		err = tx.Room.Create(ctx, room)
	} else {
		err = tx.Room.Replace(ctx, room)
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

// normalizeAmenities trims entries and drops blanks and case-insensitive
// duplicates, keeping the first spelling
func normalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}
