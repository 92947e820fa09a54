package model

import "time"

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusActive, EventStatusCompleted:
		return true
	}
	return false
}

type Event struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id"`
	Name        string      `gorm:"size:120;not null" json:"name"`
	Points      float64     `gorm:"not null" json:"points"`
	Date        string      `gorm:"size:32" json:"date"`
	Status      EventStatus `gorm:"size:16;not null;index:idx_events_status" json:"status"`
	Description *string     `gorm:"type:text" json:"description"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string {
	return "events"
}
