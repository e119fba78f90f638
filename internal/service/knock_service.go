package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/model"
	"dormhop/backend/internal/notify"
	"dormhop/backend/internal/repository"
	"dormhop/backend/pkg/clock"
	pkgerrors "dormhop/backend/pkg/errors"
)

var (
	ErrKnockTargetRequired  = pkgerrors.New(pkgerrors.KindInvalidInput, "to_room_id is required")
	ErrKnockNoRoom          = pkgerrors.New(pkgerrors.KindPreconditionFailed, "you need a room before knocking")
	ErrKnockRoomNotFound    = pkgerrors.New(pkgerrors.KindNotFound, "room not found")
	ErrKnockOwnRoom         = pkgerrors.New(pkgerrors.KindInvalidInput, "cannot knock on your own room")
	ErrKnockExists          = pkgerrors.New(pkgerrors.KindConflict, "you already knocked on this room")
	ErrKnockTransient       = pkgerrors.New(pkgerrors.KindConflict, "knock could not be completed, please retry")
	ErrKnockNotFound        = pkgerrors.New(pkgerrors.KindNotFound, "knock not found")
	ErrKnockForbidden       = pkgerrors.New(pkgerrors.KindForbidden, "not allowed to act on this knock")
	ErrKnockAlreadyAccepted = pkgerrors.New(pkgerrors.KindConflict, "knock is already accepted")
)

// KnockService swap requests between users and reciprocal matching
type KnockService interface {
	// Send creates a pending knock on toRoomID. If the room's owner already has
	// a pending knock on the caller's room, both are accepted together.
	Send(ctx context.Context, requesterID, toRoomID string) (*dto.KnockResponse, error)
	// Accept lets the target room's owner accept a pending knock
	Accept(ctx context.Context, actorID, knockID string) (*dto.KnockResponse, error)
	// Delete cancels (requester) or rejects (owner) a knock in any status
	Delete(ctx context.Context, actorID, knockID string) error
	ListSent(ctx context.Context, userID string) (*dto.KnockListResponse, error)
	ListReceived(ctx context.Context, userID string) (*dto.KnockListResponse, error)
}

type knockService struct {
	repo     *repository.Repository
	notifier Notifier
	clock    clock.Clock
	logger   *zap.Logger
}

// NewKnockService creates a KnockService; notifier may be nil
func NewKnockService(repo *repository.Repository, notifier Notifier, clk clock.Clock, logger *zap.Logger) KnockService {
	return &knockService{repo: repo, notifier: notifier, clock: clk, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Send — create a knock and settle a reciprocal match
// ═══════════════════════════════════════════════════════════
//
// Checks run in a fixed order: target present, caller has a room, target
// visible, not own room, no existing knock. Insert, reverse lookup and the
// double accept share one unit of work that holds the pair lock, so two
// opposite knocks racing each other are serialized and the later one always
// sees the earlier.

func (s *knockService) Send(ctx context.Context, requesterID, toRoomID string) (*dto.KnockResponse, error) {
	toRoomID = strings.TrimSpace(toRoomID)
	if toRoomID == "" {
		return nil, ErrKnockTargetRequired
	}

	requester, err := s.repo.User.GetByID(ctx, requesterID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load requester failed", zap.String("user_id", requesterID), zap.Error(err))
		return nil, err
	}
	if requester.Room == nil {
		return nil, ErrKnockNoRoom
	}
	myRoom := requester.Room

	if !validID(toRoomID) {
		return nil, ErrKnockRoomNotFound
	}
	target, err := s.repo.Room.GetByID(ctx, toRoomID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrKnockRoomNotFound
		}
		s.logger.Error("load target room failed", zap.String("room_id", toRoomID), zap.Error(err))
		return nil, err
	}
	if !ownerListed(target) {
		return nil, ErrKnockRoomNotFound
	}
	if target.OwnerID == requesterID {
		return nil, ErrKnockOwnRoom
	}

	knock := &model.Knock{
		FromUserID: requesterID,
		ToRoomID:   target.RoomID,
		Status:     model.KnockPending,
	}
	var reverse *model.Knock

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Knock.LockPair(ctx, requesterID, target.OwnerID); err != nil {
			return err
		}

		_, err := tx.Knock.FindByPair(ctx, requesterID, target.RoomID)
		if err == nil {
			return ErrKnockExists
		}
		if !isNotFound(err) {
			return err
		}

		knock.CreatedAt = s.clock.Now()
		if err := tx.Knock.Create(ctx, knock); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrKnockExists
			}
			return err
		}

		rev, err := tx.Knock.FindByPair(ctx, target.OwnerID, myRoom.RoomID)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if rev.Status != model.KnockPending {
			return nil
		}

		at := s.clock.Now()
		if err := tx.Knock.MarkAccepted(ctx, []string{knock.KnockID, rev.KnockID}, at); err != nil {
			return err
		}
		knock.Status, knock.AcceptedAt = model.KnockAccepted, &at
		rev.Status, rev.AcceptedAt = model.KnockAccepted, &at
		reverse = rev
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) != pkgerrors.KindInternal {
			return nil, err
		}
		s.logger.Warn("send knock rolled back",
			zap.String("from_user_id", requesterID),
			zap.String("to_room_id", target.RoomID),
			zap.Error(err),
		)
		return nil, ErrKnockTransient
	}

	knock.FromUser = requester
	knock.ToRoom = target

	if reverse != nil {
		s.logger.Info("reciprocal knock matched",
			zap.String("knock_id", knock.KnockID),
			zap.String("reverse_knock_id", reverse.KnockID),
		)
		s.publish(requesterID, notify.EventKnockMatched, knock.KnockID, target.RoomID)
		s.publish(target.OwnerID, notify.EventKnockMatched, reverse.KnockID, myRoom.RoomID)
	} else {
		s.publish(target.OwnerID, notify.EventKnockReceived, knock.KnockID, target.RoomID)
	}

	resp := toKnockResponse(knock)
	return &resp, nil
}

// ────── Accept ──────

func (s *knockService) Accept(ctx context.Context, actorID, knockID string) (*dto.KnockResponse, error) {
	if !validID(knockID) {
		return nil, ErrKnockNotFound
	}

	var fromUserID string
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		knock, err := tx.Knock.GetByIDForUpdate(ctx, knockID)
		if err != nil {
			if isNotFound(err) {
				return ErrKnockNotFound
			}
			return err
		}
		room, err := tx.Room.GetByID(ctx, knock.ToRoomID)
		if err != nil {
			return err
		}
		if room.OwnerID != actorID {
			return ErrKnockForbidden
		}
		if knock.Status != model.KnockPending {
			return ErrKnockAlreadyAccepted
		}

		if err := tx.Knock.MarkAccepted(ctx, []string{knock.KnockID}, s.clock.Now()); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrKnockAlreadyAccepted
			}
			return err
		}
		fromUserID = knock.FromUserID
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindInternal {
			s.logger.Error("accept knock failed", zap.String("knock_id", knockID), zap.Error(err))
		}
		return nil, err
	}

	knock, err := s.repo.Knock.GetByID(ctx, knockID)
	if err != nil {
		if isNotFound(err) {
			// deleted right after commit
			return nil, ErrKnockNotFound
		}
		s.logger.Error("reload knock failed", zap.String("knock_id", knockID), zap.Error(err))
		return nil, err
	}

	s.publish(fromUserID, notify.EventKnockAccepted, knock.KnockID, knock.ToRoomID)

	resp := toKnockResponse(knock)
	return &resp, nil
}

// ────── Delete ──────

func (s *knockService) Delete(ctx context.Context, actorID, knockID string) error {
	if !validID(knockID) {
		return ErrKnockNotFound
	}
	knock, err := s.repo.Knock.GetByID(ctx, knockID)
	if err != nil {
		if isNotFound(err) {
			return ErrKnockNotFound
		}
		s.logger.Error("get knock failed", zap.String("knock_id", knockID), zap.Error(err))
		return err
	}

	isRequester := knock.FromUserID == actorID
	isOwner := knock.ToRoom != nil && knock.ToRoom.OwnerID == actorID
	if !isRequester && !isOwner {
		return ErrKnockForbidden
	}

	if err := s.repo.Knock.Delete(ctx, knockID); err != nil {
		if isNotFound(err) {
			return ErrKnockNotFound
		}
		s.logger.Error("delete knock failed", zap.String("knock_id", knockID), zap.Error(err))
		return err
	}
	return nil
}

// ────── List ──────

func (s *knockService) ListSent(ctx context.Context, userID string) (*dto.KnockListResponse, error) {
	knocks, err := s.repo.Knock.ListSent(ctx, userID)
	if err != nil {
		s.logger.Error("list sent knocks failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toKnockList(knocks), nil
}

// ListReceived knocks on the caller's room; empty when the caller has none
func (s *knockService) ListReceived(ctx context.Context, userID string) (*dto.KnockListResponse, error) {
	room, err := s.repo.Room.GetByOwner(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return toKnockList(nil), nil
		}
		s.logger.Error("get own room failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	knocks, err := s.repo.Knock.ListReceived(ctx, room.RoomID)
	if err != nil {
		s.logger.Error("list received knocks failed", zap.String("room_id", room.RoomID), zap.Error(err))
		return nil, err
	}
	return toKnockList(knocks), nil
}

func toKnockList(knocks []model.Knock) *dto.KnockListResponse {
	items := make([]dto.KnockResponse, 0, len(knocks))
	for i := range knocks {
		items = append(items, toKnockResponse(&knocks[i]))
	}
	return &dto.KnockListResponse{Knocks: items, Total: len(items)}
}

func (s *knockService) publish(userID, eventType, knockID, roomID string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(userID, notify.Event{
		Type:    eventType,
		KnockID: knockID,
		RoomID:  roomID,
		At:      s.clock.Now(),
	})
}

