package repository

import (
	"context"
	"errors"

	"codevault/models"

	"gorm.io/gorm"
)

// PostFilter captures the query parameters of the community feed listing.
type PostFilter struct {
	Search string
	Page   int
	Limit  int
}

// CommunityRepository covers community posts and their comments.
type CommunityRepository interface {
	CreatePost(ctx context.Context, post *models.CommunityPost) error
	GetPostByID(ctx context.Context, id uint) (*models.CommunityPost, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*models.CommunityPost, int64, error)
	UpdatePost(ctx context.Context, post *models.CommunityPost) error
	DeletePost(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, postID, userID uint) (liked bool, likes int64, err error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	ListComments(ctx context.Context, postID uint) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, comment *models.Comment) error
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) CreatePost(ctx context.Context, post *models.CommunityPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *communityRepository) GetPostByID(ctx context.Context, id uint) (*models.CommunityPost, error) {
	var post models.CommunityPost
	err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *communityRepository) ListPosts(ctx context.Context, filter PostFilter) ([]*models.CommunityPost, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CommunityPost{}).Where("is_active = ?", true)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.CommunityPost
	err := query.
		Preload("Author").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *communityRepository) UpdatePost(ctx context.Context, post *models.CommunityPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *communityRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CommunityPost{}, id).Error
	})
}

func (r *communityRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, int64, error) {
	var liked bool
	var likes int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var like models.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error

		switch {
		case err == nil:
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.CommunityPost{}).Where("id = ?", postID).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.CommunityPost{}).Where("id = ?", postID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}

		var post models.CommunityPost
		if err := tx.Select("likes").First(&post, postID).Error; err != nil {
			return err
		}
		likes = post.Likes
		return nil
	})

	return liked, likes, err
}

// CreateComment inserts the comment and bumps the parent's counter in one
// transaction.
func (r *communityRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

func (r *communityRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *communityRepository) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND is_active = ?", postID, true).
		Preload("Author").
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// DeleteComment removes the comment and decrements the parent's counter.
// The decrement is skipped when the post is already gone.
func (r *communityRepository) DeleteComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Comment{}, comment.ID).Error; err != nil {
			return err
		}

		var post models.CommunityPost
		err := tx.First(&post, comment.PostID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error
	})
}
