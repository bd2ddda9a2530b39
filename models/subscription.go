package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan durations.
const (
	DurationMonthly  = "monthly"
	DurationYearly   = "yearly"
	DurationLifetime = "lifetime"
)

// Subscription states.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// SubscriptionPlan is a purchasable tier.
type SubscriptionPlan struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PlanID        int64      `gorm:"uniqueIndex" json:"planId"`
	Name          string     `gorm:"uniqueIndex;not null" json:"name"`
	Price         float64    `gorm:"not null" json:"price"`
	Duration      string     `gorm:"not null;default:monthly" json:"duration"`
	Features      StringList `gorm:"type:text" json:"features"`
	IsRecommended bool       `gorm:"not null;default:false" json:"isRecommended"`
	IsActive      bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.PlanID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "SubscriptionPlan")
	if err != nil {
		return err
	}
	p.PlanID = seq
	return nil
}

// UserSubscription is a user's hold on a plan. At most one record per user.
type UserSubscription struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	SubscriptionID int64             `gorm:"uniqueIndex" json:"subscriptionId"`
	UserID         uint              `gorm:"not null;uniqueIndex" json:"-"`
	User           *User             `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	PlanID         uint              `gorm:"not null" json:"planId"`
	Plan           *SubscriptionPlan `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	Status         string            `gorm:"not null;default:active" json:"status"`
	StartDate      time.Time         `json:"startDate"`
	EndDate        time.Time         `json:"endDate"`
	AutoRenew      bool              `gorm:"not null;default:true" json:"autoRenew"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.SubscriptionID != 0 {
		return nil
	}
	seq, err := NextSequence(tx, "UserSubscription")
	if err != nil {
		return err
	}
	s.SubscriptionID = seq
	return nil
}
