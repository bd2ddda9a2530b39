package models

import (
	"time"

	"gorm.io/gorm"
)

// Contest lifecycle states.
const (
	ContestStatusUpcoming  = "upcoming"
	ContestStatusActive    = "active"
	ContestStatusCompleted = "completed"
)

// Contest is a time-boxed competition users submit entries to.
// Participants and TotalVotes are denormalized: participants tracks active
// entries, totalVotes is re-aggregated from entry votes after every vote.
type Contest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ContestID    int64     `gorm:"uniqueIndex" json:"contestId"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"not null" json:"description"`
	CreatedByID  uint      `gorm:"not null" json:"-"`
	CreatedBy    *User     `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Deadline     time.Time `gorm:"not null" json:"deadline"`
	Status       string    `gorm:"not null;default:active" json:"status"`
	Participants int64     `gorm:"not null;default:0" json:"participants"`
	TotalVotes   int64     `gorm:"not null;default:0" json:"totalVotes"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c *Contest) BeforeCreate(tx *gorm.DB) error {
	if c.ContestID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "Contest")
	if err != nil {
		return err
	}
	c.ContestID = seq
	return nil
}
