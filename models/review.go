package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a rating left on an asset. One review per (asset, user).
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  int64     `gorm:"uniqueIndex" json:"reviewId"`
	AssetID   uint      `gorm:"not null;uniqueIndex:idx_reviews_asset_user" json:"assetId"`
	Asset     *Asset    `gorm:"foreignKey:AssetID;references:ID" json:"asset,omitempty"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_asset_user" json:"-"`
	User      *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"not null" json:"comment"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ReviewID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "Review")
	if err != nil {
		return err
	}
	r.ReviewID = seq
	return nil
}
