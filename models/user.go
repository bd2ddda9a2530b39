package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. "manager" and "super-admin" both bypass ownership checks.
const (
	RoleUser       = "user"
	RoleManager    = "manager"
	RoleSuperAdmin = "super-admin"
)

// User represents a registered account. UserID is the human-facing
// sequential number; ID is the database key carried in tokens.
type User struct {
	ID                 uint       `gorm:"primaryKey" json:"-"`
	UserID             int64      `gorm:"uniqueIndex" json:"id"`
	Name               string     `gorm:"not null" json:"name"`
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	Password           string     `gorm:"not null" json:"-"`
	Role               string     `gorm:"not null;default:user" json:"role"`
	IsActive           bool       `gorm:"not null;default:true" json:"isActive"`
	ProfilePicture     string     `json:"profilePicture"`
	ResetPasswordToken string     `gorm:"index" json:"-"`
	ResetPasswordExp   *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// CanBypassOwnership reports whether the user may mutate resources they
// do not own. Any elevated role qualifies; the model is two-tier.
func (u *User) CanBypassOwnership() bool {
	return u.Role != RoleUser
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "User")
	if err != nil {
		return err
	}
	u.UserID = seq
	return nil
}
