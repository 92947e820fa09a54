package model

import "time"

// Member is a participant who accrues points. Team holds the team name, not a team id.
type Member struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Team      string    `gorm:"size:120;index:idx_members_team" json:"team"`
	Points    float64   `gorm:"not null" json:"points"`
	Email     *string   `gorm:"size:255" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Member) TableName() string {
	return "members"
}
