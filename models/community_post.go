package models

import (
	"time"

	"gorm.io/gorm"
)

// CommunityPost is a feed post in the community section.
type CommunityPost struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PostID         int64      `gorm:"uniqueIndex" json:"postId"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `gorm:"not null" json:"description"`
	AuthorID       uint       `gorm:"not null" json:"-"`
	Author         *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	SourceCodeLink string     `json:"sourceCodeLink"`
	ProjectLink    string     `json:"projectLink"`
	Tags           StringList `gorm:"type:text" json:"tags"`
	Likes          int64      `gorm:"not null;default:0" json:"likes"`
	CommentsCount  int64      `gorm:"not null;default:0" json:"commentsCount"`
	IsActive       bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (p *CommunityPost) BeforeCreate(tx *gorm.DB) error {
	if p.PostID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "CommunityPost")
	if err != nil {
		return err
	}
	p.PostID = seq
	return nil
}

// PostLike is one row per (post, user) in the liker set.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_post_user" json:"postId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_post_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
