package models

import (
	"gorm.io/gorm"
)

// Counter holds the last issued sequence value for one model name.
// One row per numbered model; values are monotonic and never reused.
type Counter struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	ModelName     string `gorm:"uniqueIndex;not null" json:"model_name"`
	SequenceValue int64  `gorm:"not null;default:0" json:"sequence_value"`
}

// NextSequence atomically increments and returns the counter for modelName,
// creating the row on first use. The whole find-or-create-and-increment is a
// single upsert statement, so two concurrent callers can never observe the
// same value. Runs on the caller's transaction: if the surrounding create
// rolls back, the counter mutation rolls back with it.
func NextSequence(tx *gorm.DB, modelName string) (int64, error) {
	var seq int64
	err := tx.Raw(
		`INSERT INTO counters (model_name, sequence_value) VALUES (?, 1)
		 ON CONFLICT (model_name) DO UPDATE SET sequence_value = sequence_value + 1
		 RETURNING sequence_value`,
		modelName,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
