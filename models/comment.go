package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to a community post.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CommentID int64          `gorm:"uniqueIndex" json:"commentId"`
	PostID    uint           `gorm:"not null" json:"postId"`
	Post      *CommunityPost `gorm:"foreignKey:PostID;references:ID" json:"-"`
	AuthorID  uint           `gorm:"not null" json:"-"`
	Author    *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Text      string         `gorm:"not null" json:"text"`
	IsActive  bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.CommentID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "Comment")
	if err != nil {
		return err
	}
	c.CommentID = seq
	return nil
}
