package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dormhop/backend/internal/model"
	pkgerrors "dormhop/backend/pkg/errors"
)

// KnockRepository knock data access
type KnockRepository interface {
	// LockPair takes a transaction-scoped lock on the unordered user pair.
	// Only meaningful inside Repository.Transaction.
	LockPair(ctx context.Context, userA, userB string) error
	Create(ctx context.Context, knock *model.Knock) error
	GetByID(ctx context.Context, id string) (*model.Knock, error)
	// GetByIDForUpdate row-locks the knock until the transaction ends; no associations loaded
	GetByIDForUpdate(ctx context.Context, id string) (*model.Knock, error)
	// FindByPair the knock from fromUserID to toRoomID, any status
	FindByPair(ctx context.Context, fromUserID, toRoomID string) (*model.Knock, error)
	// MarkAccepted moves every listed pending knock to accepted with one timestamp.
	// Returns ErrOptimisticLock unless all of them were still pending.
	MarkAccepted(ctx context.Context, ids []string, at time.Time) error
	Delete(ctx context.Context, id string) error
	ListSent(ctx context.Context, fromUserID string) ([]model.Knock, error)
	ListReceived(ctx context.Context, toRoomID string) ([]model.Knock, error)
}

type knockRepo struct {
	db *gorm.DB
}

// NewKnockRepo creates a KnockRepository
func NewKnockRepo(db *gorm.DB) KnockRepository {
	return &knockRepo{db: db}
}

// PairKey order-independent key for two user ids
func PairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

func (r *knockRepo) LockPair(ctx context.Context, userA, userB string) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", PairKey(userA, userB)).Error
}

func (r *knockRepo) Create(ctx context.Context, knock *model.Knock) error {
	return r.db.WithContext(ctx).Omit("FromUser", "ToRoom").Create(knock).Error
}

func (r *knockRepo) GetByID(ctx context.Context, id string) (*model.Knock, error) {
	var knock model.Knock
	err := r.withAssociations(ctx).
		Where("knock_id = ?", id).
		First(&knock).Error
	if err != nil {
		return nil, err
	}
	return &knock, nil
}

func (r *knockRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Knock, error) {
	var knock model.Knock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("knock_id = ?", id).
		First(&knock).Error
	if err != nil {
		return nil, err
	}
	return &knock, nil
}

func (r *knockRepo) FindByPair(ctx context.Context, fromUserID, toRoomID string) (*model.Knock, error) {
	var knock model.Knock
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_room_id = ?", fromUserID, toRoomID).
		First(&knock).Error
	if err != nil {
		return nil, err
	}
	return &knock, nil
}

func (r *knockRepo) MarkAccepted(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Knock{}).
		Where("knock_id IN ? AND status = ?", ids, model.KnockPending).
		Updates(map[string]interface{}{
			"status":      model.KnockAccepted,
			"accepted_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(len(ids)) {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *knockRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("knock_id = ?", id).
		Delete(&model.Knock{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *knockRepo) ListSent(ctx context.Context, fromUserID string) ([]model.Knock, error) {
	var knocks []model.Knock
	err := r.withAssociations(ctx).
		Where("from_user_id = ?", fromUserID).
		Order("created_at DESC, knock_id DESC").
		Find(&knocks).Error
	return knocks, err
}

func (r *knockRepo) ListReceived(ctx context.Context, toRoomID string) ([]model.Knock, error) {
	var knocks []model.Knock
	err := r.withAssociations(ctx).
		Where("to_room_id = ?", toRoomID).
		Order("created_at DESC, knock_id DESC").
		Find(&knocks).Error
	return knocks, err
}

func (r *knockRepo) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToRoom").Preload("ToRoom.Owner")
}
