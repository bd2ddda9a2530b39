package repository

import (
	"context"
	"errors"

	"codevault/models"

	"gorm.io/gorm"
)

// AssetFilter captures the query parameters of the asset listing endpoint.
// Status is forced to "approved" upstream for plain users.
type AssetFilter struct {
	CategoryID uint
	Status     string
	Search     string
	Page       int
	Limit      int
}

// AssetRepository defines the interface for asset data operations
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id uint) (*models.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]*models.Asset, int64, error)
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, assetID, userID uint) (liked bool, likes int64, err error)
	ListLikedBy(ctx context.Context, userID uint) ([]*models.Asset, error)
}

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *assetRepository) GetByID(ctx context.Context, id uint) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("UploadedBy").
		First(&asset, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, filter AssetFilter) ([]*models.Asset, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Asset{}).Where("is_active = ?", true)

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assets []*models.Asset
	err := query.
		Preload("Category").
		Preload("UploadedBy").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&assets).Error
	return assets, total, err
}

func (r *assetRepository) Update(ctx context.Context, asset *models.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *assetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", id).Delete(&models.AssetLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Asset{}, id).Error
	})
}

func (r *assetRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// ToggleLike adds or removes the caller from the liker set and adjusts the
// counter in the same transaction, keeping count equal to set cardinality.
func (r *assetRepository) ToggleLike(ctx context.Context, assetID, userID uint) (bool, int64, error) {
	var liked bool
	var likes int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var like models.AssetLike
		err := tx.Where("asset_id = ? AND user_id = ?", assetID, userID).First(&like).Error

		switch {
		case err == nil:
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Asset{}).Where("id = ?", assetID).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.AssetLike{AssetID: assetID, UserID: userID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Asset{}).Where("id = ?", assetID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}

		var asset models.Asset
		if err := tx.Select("likes").First(&asset, assetID).Error; err != nil {
			return err
		}
		likes = asset.Likes
		return nil
	})

	return liked, likes, err
}

func (r *assetRepository) ListLikedBy(ctx context.Context, userID uint) ([]*models.Asset, error) {
	var assets []*models.Asset
	err := r.db.WithContext(ctx).
		Joins("JOIN asset_likes ON asset_likes.asset_id = assets.id").
		Where("asset_likes.user_id = ? AND assets.is_active = ?", userID, true).
		Preload("Category").
		Preload("UploadedBy").
		Order("assets.created_at DESC").
		Find(&assets).Error
	return assets, err
}
