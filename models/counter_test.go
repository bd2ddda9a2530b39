package models

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCounterTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Counter{}, &User{}, &Category{}))
	return db
}

func TestNextSequenceStartsAtOne(t *testing.T) {
	db := setupCounterTestDB(t)

	seq, err := NextSequence(db, "User")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestNextSequenceIsGapless(t *testing.T) {
	db := setupCounterTestDB(t)

	for want := int64(1); want <= 10; want++ {
		seq, err := NextSequence(db, "User")
		require.NoError(t, err)
		assert.Equal(t, want, seq)
	}
}

func TestNextSequenceCountersAreIndependent(t *testing.T) {
	db := setupCounterTestDB(t)

	for i := 0; i < 3; i++ {
		_, err := NextSequence(db, "User")
		require.NoError(t, err)
	}

	seq, err := NextSequence(db, "Category")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	seq, err = NextSequence(db, "User")
	require.NoError(t, err)
	assert.Equal(t, int64(4), seq)
}

func TestUserCreateAssignsSequentialIDs(t *testing.T) {
	db := setupCounterTestDB(t)

	for i := 1; i <= 5; i++ {
		user := &User{
			Name:     fmt.Sprintf("User %d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
			Password: "hashed",
			Role:     RoleUser,
			IsActive: true,
		}
		require.NoError(t, db.Create(user).Error)
		assert.Equal(t, int64(i), user.UserID)
	}
}

func TestFailedCreateDoesNotConsumeSequence(t *testing.T) {
	db := setupCounterTestDB(t)

	first := &User{Name: "First", Email: "dup@example.com", Password: "pw", Role: RoleUser, IsActive: true}
	require.NoError(t, db.Create(first).Error)
	require.Equal(t, int64(1), first.UserID)

	// Duplicate email violates the unique index; the insert and its counter
	// increment roll back together.
	dup := &User{Name: "Dup", Email: "dup@example.com", Password: "pw", Role: RoleUser, IsActive: true}
	require.Error(t, db.Create(dup).Error)

	next := &User{Name: "Next", Email: "next@example.com", Password: "pw", Role: RoleUser, IsActive: true}
	require.NoError(t, db.Create(next).Error)
	assert.Equal(t, int64(2), next.UserID)
}

func TestNextSequenceConcurrent(t *testing.T) {
	db := setupCounterTestDB(t)

	const workers = 20
	results := make([]int64, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			seq, err := NextSequence(db, "User")
			if err != nil {
				t.Errorf("NextSequence: %v", err)
				return
			}
			results[slot] = seq
		}(i)
	}
	wg.Wait()

	// Every worker must receive a distinct value and the full set must be
	// exactly 1..workers.
	seen := make(map[int64]bool, workers)
	for _, seq := range results {
		assert.False(t, seen[seq], "duplicate sequence value %d", seq)
		seen[seq] = true
		assert.GreaterOrEqual(t, seq, int64(1))
		assert.LessOrEqual(t, seq, int64(workers))
	}
	assert.Len(t, seen, workers)
}
