package model

import "time"

// CheckInRecord is immutable once written. PointsAwarded is the event value at check-in time.
type CheckInRecord struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	EventID       string    `gorm:"column:event_id;size:64;not null;uniqueIndex:uk_checkin_event_member" json:"event_id"`
	MemberID      string    `gorm:"column:member_id;size:64;not null;uniqueIndex:uk_checkin_event_member;index:idx_checkin_member" json:"member_id"`
	PointsAwarded float64   `gorm:"column:points_awarded;not null" json:"points_awarded"`
	CheckedInAt   time.Time `gorm:"column:checked_in_at;not null" json:"checked_in_at"`
}

func (CheckInRecord) TableName() string {
	return "checkin_records"
}
