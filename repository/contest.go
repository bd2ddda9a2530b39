package repository

import (
	"context"
	"errors"

	"codevault/models"

	"gorm.io/gorm"
)

// ContestFilter captures the query parameters of the contest listing.
type ContestFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// ContestRepository covers contests and their entries.
type ContestRepository interface {
	Create(ctx context.Context, contest *models.Contest) error
	GetByID(ctx context.Context, id uint) (*models.Contest, error)
	List(ctx context.Context, filter ContestFilter) ([]*models.Contest, int64, error)
	Update(ctx context.Context, contest *models.Contest) error
	Delete(ctx context.Context, id uint) error

	CreateEntry(ctx context.Context, entry *models.ContestEntry) error
	GetEntryByID(ctx context.Context, id uint) (*models.ContestEntry, error)
	GetEntryByParticipant(ctx context.Context, contestID, userID uint) (*models.ContestEntry, error)
	ListEntries(ctx context.Context, contestID uint) ([]*models.ContestEntry, error)
	ToggleVote(ctx context.Context, entryID, userID uint) (voted bool, votes int64, err error)
	DeleteEntry(ctx context.Context, entry *models.ContestEntry) error
}

type contestRepository struct {
	db *gorm.DB
}

// NewContestRepository creates a new contest repository
func NewContestRepository(db *gorm.DB) ContestRepository {
	return &contestRepository{db: db}
}

func (r *contestRepository) Create(ctx context.Context, contest *models.Contest) error {
	return r.db.WithContext(ctx).Create(contest).Error
}

func (r *contestRepository) GetByID(ctx context.Context, id uint) (*models.Contest, error) {
	var contest models.Contest
	err := r.db.WithContext(ctx).Preload("CreatedBy").First(&contest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

func (r *contestRepository) List(ctx context.Context, filter ContestFilter) ([]*models.Contest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Contest{}).Where("is_active = ?", true)

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

	var contests []*models.Contest
	err := query.
		Preload("CreatedBy").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&contests).Error
	return contests, total, err
}

func (r *contestRepository) Update(ctx context.Context, contest *models.Contest) error {
	return r.db.WithContext(ctx).Save(contest).Error
}

func (r *contestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entryIDs []uint
		if err := tx.Model(&models.ContestEntry{}).Where("contest_id = ?", id).
			Pluck("id", &entryIDs).Error; err != nil {
			return err
		}
		if len(entryIDs) > 0 {
			if err := tx.Where("entry_id IN ?", entryIDs).Delete(&models.EntryVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("contest_id = ?", id).Delete(&models.ContestEntry{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Contest{}, id).Error
	})
}

// CreateEntry inserts the entry and bumps the contest's participant counter
// in one transaction.
func (r *contestRepository) CreateEntry(ctx context.Context, entry *models.ContestEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Model(&models.Contest{}).Where("id = ?", entry.ContestID).
			UpdateColumn("participants", gorm.Expr("participants + 1")).Error
	})
}

func (r *contestRepository) GetEntryByID(ctx context.Context, id uint) (*models.ContestEntry, error) {
	var entry models.ContestEntry
	err := r.db.WithContext(ctx).Preload("Participant").First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *contestRepository) GetEntryByParticipant(ctx context.Context, contestID, userID uint) (*models.ContestEntry, error) {
	var entry models.ContestEntry
	err := r.db.WithContext(ctx).
		Where("contest_id = ? AND participant_id = ?", contestID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *contestRepository) ListEntries(ctx context.Context, contestID uint) ([]*models.ContestEntry, error) {
	var entries []*models.ContestEntry
	err := r.db.WithContext(ctx).
		Where("contest_id = ? AND is_active = ?", contestID, true).
		Preload("Participant").
		Order("votes DESC").
		Find(&entries).Error
	return entries, err
}

// ToggleVote adds or removes the caller from the voter set, adjusts the
// entry's counter, then recomputes the contest's totalVotes as the exact sum
// over all entries. All in one transaction.
func (r *contestRepository) ToggleVote(ctx context.Context, entryID, userID uint) (bool, int64, error) {
	var voted bool
	var votes int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.ContestEntry
		if err := tx.First(&entry, entryID).Error; err != nil {
			return err
		}

		var vote models.EntryVote
		err := tx.Where("entry_id = ? AND user_id = ?", entryID, userID).First(&vote).Error

		switch {
		case err == nil:
			if err := tx.Delete(&vote).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.ContestEntry{}).Where("id = ?", entryID).
				UpdateColumn("votes", gorm.Expr("votes - 1")).Error; err != nil {
				return err
			}
			voted = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.EntryVote{EntryID: entryID, UserID: userID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.ContestEntry{}).Where("id = ?", entryID).
				UpdateColumn("votes", gorm.Expr("votes + 1")).Error; err != nil {
				return err
			}
			voted = true
		default:
			return err
		}

		var fresh models.ContestEntry
		if err := tx.Select("votes").First(&fresh, entryID).Error; err != nil {
			return err
		}
		votes = fresh.Votes

		// Full re-aggregation, not an incremental delta.
		var total int64
		if err := tx.Model(&models.ContestEntry{}).
			Where("contest_id = ?", entry.ContestID).
			Select("COALESCE(SUM(votes), 0)").
			Scan(&total).Error; err != nil {
			return err
		}
		return tx.Model(&models.Contest{}).Where("id = ?", entry.ContestID).
			UpdateColumn("total_votes", total).Error
	})

	return voted, votes, err
}

// DeleteEntry removes the entry and decrements the contest's participant
// counter. The decrement is skipped when the contest is already gone.
func (r *contestRepository) DeleteEntry(ctx context.Context, entry *models.ContestEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.EntryVote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ContestEntry{}, entry.ID).Error; err != nil {
			return err
		}

		var contest models.Contest
		err := tx.First(&contest, entry.ContestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&models.Contest{}).Where("id = ?", entry.ContestID).
			UpdateColumn("participants", gorm.Expr("participants - 1")).Error
	})
}
