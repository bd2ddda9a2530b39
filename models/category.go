package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups assets.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  int64     `gorm:"uniqueIndex" json:"categoryId"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedByID uint      `json:"-"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.CategoryID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "Category")
	if err != nil {
		return err
	}
	c.CategoryID = seq
	return nil
}
