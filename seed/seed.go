// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"codevault/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumAssets   int
	NumPosts    int
	ShouldClean bool
}

var categoryNames = []string{
	"Web Templates", "Mobile Apps", "Game Assets", "UI Kits", "APIs",
	"CLI Tools", "Data Visualization", "Machine Learning", "DevOps", "Browser Extensions",
}

var techChoices = []string{
	"Go", "TypeScript", "React", "Vue", "Svelte", "Node.js", "Python",
	"PostgreSQL", "Redis", "Docker", "Kubernetes", "GraphQL", "Tailwind",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	log.Printf("Seeding %d users, %d assets, %d posts...", opts.NumUsers, opts.NumAssets, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	categories, err := createCategories(db, users)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("Created %d categories", len(categories))

	assets, err := createAssets(db, users, categories, opts.NumAssets)
	if err != nil {
		return fmt.Errorf("failed to create assets: %w", err)
	}
	log.Printf("Created %d assets", len(assets))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	if err := createPlans(db); err != nil {
		return fmt.Errorf("failed to create plans: %w", err)
	}
	log.Println("Created subscription plans")

	if err := createContests(db, users); err != nil {
		return fmt.Errorf("failed to create contests: %w", err)
	}
	log.Println("Created contests")

	log.Println("Seeding complete. All users have the password: password123")
	return nil
}

func clearData(db *gorm.DB) error {
	tables := []any{
		&models.EntryVote{}, &models.ContestEntry{}, &models.Contest{},
		&models.Review{}, &models.Comment{}, &models.PostLike{}, &models.CommunityPost{},
		&models.AssetLike{}, &models.Asset{}, &models.Category{},
		&models.UserSubscription{}, &models.SubscriptionPlan{},
		&models.User{}, &models.Counter{},
	}
	for _, table := range tables {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		role := models.RoleUser
		if i == 0 {
			role = models.RoleSuperAdmin
		} else if i == 1 {
			role = models.RoleManager
		}

		user := &models.User{
			Name:           name,
			Email:          fmt.Sprintf("%s%d@%s", strings.ToLower(gofakeit.Username()), i, gofakeit.DomainName()),
			Password:       string(hashed),
			Role:           role,
			IsActive:       true,
			ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(db *gorm.DB, users []*models.User) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category := &models.Category{
			Name:        name,
			Description: gofakeit.Sentence(8),
			CreatedByID: users[0].ID,
			IsActive:    true,
		}
		if err := db.Create(category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func pickTech(r *rand.Rand) []string {
	n := 2 + r.Intn(4)
	picked := make([]string, 0, n)
	for _, i := range r.Perm(len(techChoices))[:n] {
		picked = append(picked, techChoices[i])
	}
	return picked
}

func createAssets(db *gorm.DB, users []*models.User, categories []*models.Category, count int) ([]*models.Asset, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	statuses := []string{
		models.AssetStatusApproved, models.AssetStatusApproved,
		models.AssetStatusApproved, models.AssetStatusPending, models.AssetStatusRejected,
	}

	assets := make([]*models.Asset, 0, count)
	for i := 0; i < count; i++ {
		asset := &models.Asset{
			Title:          gofakeit.AppName(),
			Description:    gofakeit.Paragraph(1, 3, 8, " "),
			CategoryID:     categories[r.Intn(len(categories))].ID,
			UploadedByID:   users[r.Intn(len(users))].ID,
			Thumbnail:      fmt.Sprintf("https://picsum.photos/seed/%s/640/360", gofakeit.UUID()),
			DownloadLink:   gofakeit.URL(),
			SourceCodeLink: gofakeit.URL(),
			TechStack:      pickTech(r),
			Views:          int64(r.Intn(5000)),
			Status:         statuses[r.Intn(len(statuses))],
			IsActive:       true,
		}
		if err := db.Create(asset).Error; err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func createPosts(db *gorm.DB, users []*models.User, count int) ([]*models.CommunityPost, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	posts := make([]*models.CommunityPost, 0, count)
	for i := 0; i < count; i++ {
		post := &models.CommunityPost{
			Title:          gofakeit.Sentence(5),
			Description:    gofakeit.Paragraph(1, 2, 10, " "),
			AuthorID:       users[r.Intn(len(users))].ID,
			SourceCodeLink: gofakeit.URL(),
			ProjectLink:    gofakeit.URL(),
			Tags:           pickTech(r),
			IsActive:       true,
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createPlans(db *gorm.DB) error {
	plans := []*models.SubscriptionPlan{
		{
			Name:     "Starter",
			Price:    4.99,
			Duration: models.DurationMonthly,
			Features: models.StringList{"Access to approved assets", "Community posting"},
			IsActive: true,
		},
		{
			Name:          "Pro",
			Price:         49.99,
			Duration:      models.DurationYearly,
			Features:      models.StringList{"Everything in Starter", "Contest submissions", "Priority support"},
			IsRecommended: true,
			IsActive:      true,
		},
		{
			Name:     "Lifetime",
			Price:    199.99,
			Duration: models.DurationLifetime,
			Features: models.StringList{"Everything in Pro", "Lifetime updates"},
			IsActive: true,
		},
	}
	for _, plan := range plans {
		if err := db.Create(plan).Error; err != nil {
			return err
		}
	}
	return nil
}

func createContests(db *gorm.DB, users []*models.User) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	contests := []*models.Contest{
		{
			Title:       "Best Portfolio Template",
			Description: gofakeit.Paragraph(1, 2, 10, " "),
			CreatedByID: users[0].ID,
			Deadline:    time.Now().AddDate(0, 1, 0),
			Status:      models.ContestStatusActive,
			IsActive:    true,
		},
		{
			Title:       "CLI Tool Showdown",
			Description: gofakeit.Paragraph(1, 2, 10, " "),
			CreatedByID: users[r.Intn(len(users))].ID,
			Deadline:    time.Now().AddDate(0, 2, 0),
			Status:      models.ContestStatusUpcoming,
			IsActive:    true,
		},
	}
	for _, contest := range contests {
		if err := db.Create(contest).Error; err != nil {
			return err
		}
	}
	return nil
}
