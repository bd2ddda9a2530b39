package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Opens a database with foreign keys enforced so a constraint generated in
// the wrong direction would fail these tests at insert time.
func setupRelationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&Counter{}, &User{}, &Category{}, &Asset{}, &AssetLike{},
		&CommunityPost{}, &PostLike{}, &Comment{},
		&Contest{}, &ContestEntry{}, &EntryVote{},
		&Review{}, &SubscriptionPlan{}, &UserSubscription{},
	))
	return db
}

// Advances the named counters so that sequence numbers and database primary
// keys no longer coincide. Associations keyed on the wrong column would then
// load the wrong row (or none), which is exactly what these tests check.
func skewCounters(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		for i := 0; i < 5; i++ {
			_, err := NextSequence(db, name)
			require.NoError(t, err)
		}
	}
}

func createRelationUser(t *testing.T, db *gorm.DB, name, email string) *User {
	t.Helper()
	user := &User{Name: name, Email: email, Password: "pw", Role: RoleUser, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestReviewPreloadsReviewerAndAsset(t *testing.T) {
	db := setupRelationsTestDB(t)
	skewCounters(t, db, "User", "Category", "Asset", "Review")

	alice := createRelationUser(t, db, "Alice", "alice@example.com")
	bob := createRelationUser(t, db, "Bob", "bob@example.com")
	require.NotEqual(t, int64(bob.ID), bob.UserID)

	category := &Category{Name: "Templates", CreatedByID: alice.ID, IsActive: true}
	require.NoError(t, db.Create(category).Error)

	first := &Asset{Title: "First", Description: "d", CategoryID: category.ID, UploadedByID: alice.ID, Status: AssetStatusApproved, IsActive: true}
	require.NoError(t, db.Create(first).Error)
	second := &Asset{Title: "Second", Description: "d", CategoryID: category.ID, UploadedByID: alice.ID, Status: AssetStatusApproved, IsActive: true}
	require.NoError(t, db.Create(second).Error)

	review := &Review{AssetID: second.ID, UserID: bob.ID, Rating: 4, Comment: "solid", IsActive: true}
	require.NoError(t, db.Create(review).Error)

	var got Review
	require.NoError(t, db.Preload("User").Preload("Asset").First(&got, review.ID).Error)
	require.NotNil(t, got.User)
	assert.Equal(t, "Bob", got.User.Name)
	assert.Equal(t, bob.ID, got.User.ID)
	require.NotNil(t, got.Asset)
	assert.Equal(t, "Second", got.Asset.Title)
}

func TestAssetPreloadsCategory(t *testing.T) {
	db := setupRelationsTestDB(t)
	skewCounters(t, db, "User", "Category", "Asset")

	owner := createRelationUser(t, db, "Owner", "owner@example.com")

	icons := &Category{Name: "Icons", CreatedByID: owner.ID, IsActive: true}
	require.NoError(t, db.Create(icons).Error)
	fonts := &Category{Name: "Fonts", CreatedByID: owner.ID, IsActive: true}
	require.NoError(t, db.Create(fonts).Error)
	require.NotEqual(t, int64(fonts.ID), fonts.CategoryID)

	asset := &Asset{Title: "Font pack", Description: "d", CategoryID: fonts.ID, UploadedByID: owner.ID, Status: AssetStatusApproved, IsActive: true}
	require.NoError(t, db.Create(asset).Error)

	var got Asset
	require.NoError(t, db.Preload("Category").Preload("UploadedBy").First(&got, asset.ID).Error)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Fonts", got.Category.Name)
	require.NotNil(t, got.UploadedBy)
	assert.Equal(t, owner.ID, got.UploadedBy.ID)
}

func TestCommentAndEntryPreloadParents(t *testing.T) {
	db := setupRelationsTestDB(t)
	skewCounters(t, db, "User", "CommunityPost", "Comment", "Contest", "ContestEntry")

	author := createRelationUser(t, db, "Author", "author@example.com")

	post := &CommunityPost{Title: "Post", Description: "d", AuthorID: author.ID, IsActive: true}
	require.NoError(t, db.Create(post).Error)
	comment := &Comment{PostID: post.ID, AuthorID: author.ID, Text: "hi", IsActive: true}
	require.NoError(t, db.Create(comment).Error)

	var gotComment Comment
	require.NoError(t, db.Preload("Post").First(&gotComment, comment.ID).Error)
	require.NotNil(t, gotComment.Post)
	assert.Equal(t, post.ID, gotComment.Post.ID)

	contest := &Contest{Title: "Contest", Description: "d", CreatedByID: author.ID, Deadline: time.Now().Add(time.Hour), Status: ContestStatusActive, IsActive: true}
	require.NoError(t, db.Create(contest).Error)
	entry := &ContestEntry{ContestID: contest.ID, ParticipantID: author.ID, Title: "Entry", SubmissionLink: "https://example.com", IsActive: true}
	require.NoError(t, db.Create(entry).Error)

	var gotEntry ContestEntry
	require.NoError(t, db.Preload("Contest").First(&gotEntry, entry.ID).Error)
	require.NotNil(t, gotEntry.Contest)
	assert.Equal(t, contest.ID, gotEntry.Contest.ID)
}

func TestSubscriptionPreloadsUserAndPlan(t *testing.T) {
	db := setupRelationsTestDB(t)
	skewCounters(t, db, "User", "SubscriptionPlan", "UserSubscription")

	member := createRelationUser(t, db, "Member", "member@example.com")

	basic := &SubscriptionPlan{Name: "Basic", Price: 5, Duration: DurationMonthly, IsActive: true}
	require.NoError(t, db.Create(basic).Error)
	pro := &SubscriptionPlan{Name: "Pro", Price: 20, Duration: DurationYearly, IsActive: true}
	require.NoError(t, db.Create(pro).Error)
	require.NotEqual(t, int64(pro.ID), pro.PlanID)

	sub := &UserSubscription{
		UserID:    member.ID,
		PlanID:    pro.ID,
		Status:    SubscriptionActive,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(1, 0, 0),
		AutoRenew: true,
	}
	require.NoError(t, db.Create(sub).Error)

	var got UserSubscription
	require.NoError(t, db.Preload("User").Preload("Plan").First(&got, sub.ID).Error)
	require.NotNil(t, got.User)
	assert.Equal(t, member.ID, got.User.ID)
	require.NotNil(t, got.Plan)
	assert.Equal(t, "Pro", got.Plan.Name)
}
