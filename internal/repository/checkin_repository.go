package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/checkin-points/internal/model"
	"gorm.io/gorm"
)

type gormCheckIns struct {
	gormCollection[model.CheckInRecord]
}

// Put inserts only; the (event_id, member_id) unique index rejects a second record.
func (r gormCheckIns) Put(ctx context.Context, rec *model.CheckInRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCheckIn
		}
		return err
	}
	return nil
}

func (r gormCheckIns) FindByEventMember(ctx context.Context, eventID, memberID string) (*model.CheckInRecord, error) {
	var rec model.CheckInRecord
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND member_id = ?", eventID, memberID).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r gormCheckIns) ListByEvent(ctx context.Context, eventID string) ([]model.CheckInRecord, error) {
	var list []model.CheckInRecord
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order(r.order).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r gormCheckIns) ListByMember(ctx context.Context, memberID string) ([]model.CheckInRecord, error) {
	var list []model.CheckInRecord
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order(r.order).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r gormCheckIns) DeleteByMember(ctx context.Context, memberID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Delete(&model.CheckInRecord{})
	return res.RowsAffected, res.Error
}
