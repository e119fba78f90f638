package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate entry point for all repositories
type Repository struct {
	User      UserRepository
	Room      RoomRepository
	Knock     KnockRepository
	SavedRoom SavedRoomRepository

	// Tx runs units of work; replaced by an in-memory implementation in tests
	Tx Transactor
}

// Transactor runs fn inside one unit of work. fn receives a Repository bound
// to that unit; returning an error rolls everything back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *Repository) error) error
}

// NewRepository builds the aggregate over db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:      NewUserRepo(db),
		Room:      NewRoomRepo(db),
		Knock:     NewKnockRepo(db),
		SavedRoom: NewSavedRoomRepo(db),
		Tx:        gormTransactor{db: db},
	}
}

// Transaction shorthand for r.Tx.Transaction
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.Tx.Transaction(ctx, fn)
}

type gormTransactor struct {
	db *gorm.DB
}

// Transaction nested calls become savepoints
func (t gormTransactor) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
