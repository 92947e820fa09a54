package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/shinyyama/checkin-points/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
	mu sync.RWMutex
}

// NewGormStore wraps a connected database. Tables are expected to be migrated.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) View(ctx context.Context, fn func(Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(newGormTx(s.db.WithContext(ctx)))
}

func (s *gormStore) Update(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormTx(tx))
	})
}

// Persist is a no-op: every Update commits before returning.
func (s *gormStore) Persist(ctx context.Context) error {
	return nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormTx struct {
	db *gorm.DB
}

func newGormTx(db *gorm.DB) *gormTx {
	return &gormTx{db: db}
}

func (t *gormTx) Members() Collection[model.Member] {
	return gormCollection[model.Member]{db: t.db, order: "created_at, id"}
}

func (t *gormTx) Teams() Collection[model.Team] {
	return gormCollection[model.Team]{db: t.db, order: "created_at, id"}
}

func (t *gormTx) Events() Collection[model.Event] {
	return gormCollection[model.Event]{db: t.db, order: "created_at, id"}
}

func (t *gormTx) CheckIns() CheckInRepository {
	return gormCheckIns{gormCollection[model.CheckInRecord]{db: t.db, order: "checked_in_at, id"}}
}

type gormCollection[T any] struct {
	db    *gorm.DB
	order string
}

func (c gormCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	var v T
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (c gormCollection[T]) Put(ctx context.Context, v *T) error {
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(v).Error
}

func (c gormCollection[T]) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c gormCollection[T]) List(ctx context.Context) ([]T, error) {
	var list []T
	if err := c.db.WithContext(ctx).Order(c.order).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (c gormCollection[T]) Clear(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(new(T))
	return res.RowsAffected, res.Error
}
