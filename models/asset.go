package models

import (
	"time"

	"gorm.io/gorm"
)

// Asset moderation states.
const (
	AssetStatusPending  = "pending"
	AssetStatusApproved = "approved"
	AssetStatusRejected = "rejected"
)

// Asset is an uploaded project or resource.
type Asset struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	AssetID        int64      `gorm:"uniqueIndex" json:"assetId"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `gorm:"not null" json:"description"`
	CategoryID     uint       `gorm:"not null" json:"categoryId"`
	Category       *Category  `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	UploadedByID   uint       `gorm:"not null" json:"-"`
	UploadedBy     *User      `gorm:"foreignKey:UploadedByID" json:"uploadedBy,omitempty"`
	YoutubeURL     string     `json:"youtubeUrl"`
	Thumbnail      string     `json:"thumbnail"`
	DownloadLink   string     `json:"downloadLink"`
	SourceCodeLink string     `json:"sourceCodeLink"`
	TechStack      StringList `gorm:"type:text" json:"techStack"`
	Likes          int64      `gorm:"not null;default:0" json:"likes"`
	Views          int64      `gorm:"not null;default:0" json:"views"`
	Status         string     `gorm:"not null;default:pending" json:"status"`
	IsActive       bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "Asset")
	if err != nil {
		return err
	}
	a.AssetID = seq
	return nil
}

// AssetLike is one row per (asset, user) in the liker set. Asset.Likes must
// always equal the number of rows for that asset; both are written in the
// same transaction.
type AssetLike struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	AssetID   uint      `gorm:"not null;uniqueIndex:idx_asset_likes_asset_user" json:"assetId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_asset_likes_asset_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
