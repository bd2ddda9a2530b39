package repository

import (
	"context"
	"errors"

	"codevault/models"

	"gorm.io/gorm"
)

// SubscriptionRepository covers plans and user subscriptions.
type SubscriptionRepository interface {
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	GetPlanByID(ctx context.Context, id uint) (*models.SubscriptionPlan, error)
	ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	DeletePlan(ctx context.Context, id uint) error

	CreateSubscription(ctx context.Context, sub *models.UserSubscription) error
	GetSubscriptionByUser(ctx context.Context, userID uint) (*models.UserSubscription, error)
	GetActiveSubscriptionByUser(ctx context.Context, userID uint) (*models.UserSubscription, error)
	UpdateSubscription(ctx context.Context, sub *models.UserSubscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *subscriptionRepository) GetPlanByID(ctx context.Context, id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).First(&plan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionRepository) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	var plans []*models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&plans).Error
	return plans, err
}

func (r *subscriptionRepository) UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *subscriptionRepository) DeletePlan(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.SubscriptionPlan{}, id).Error
}

func (r *subscriptionRepository) CreateSubscription(ctx context.Context, sub *models.UserSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) GetSubscriptionByUser(ctx context.Context, userID uint) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Plan").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) GetActiveSubscriptionByUser(ctx context.Context, userID uint) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) UpdateSubscription(ctx context.Context, sub *models.UserSubscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
