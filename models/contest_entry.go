package models

import (
	"time"

	"gorm.io/gorm"
)

// ContestEntry is one participant's submission. A user may hold at most one
// entry per contest.
type ContestEntry struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EntryID        int64     `gorm:"uniqueIndex" json:"entryId"`
	ContestID      uint      `gorm:"not null;uniqueIndex:idx_entries_contest_participant" json:"contestId"`
	Contest        *Contest  `gorm:"foreignKey:ContestID;references:ID" json:"-"`
	ParticipantID  uint      `gorm:"not null;uniqueIndex:idx_entries_contest_participant" json:"-"`
	Participant    *User     `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	SubmissionLink string    `gorm:"not null" json:"submissionLink"`
	PreviewImage   string    `json:"previewImage"`
	Votes          int64     `gorm:"not null;default:0" json:"votes"`
	IsActive       bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (e *ContestEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "ContestEntry")
	if err != nil {
		return err
	}
	e.EntryID = seq
	return nil
}

// EntryVote is one row per (entry, user) in the voter set.
type EntryVote struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	EntryID   uint      `gorm:"not null;uniqueIndex:idx_entry_votes_entry_user" json:"entryId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_entry_votes_entry_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
