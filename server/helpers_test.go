package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"codevault/config"
	"codevault/database"
	"codevault/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer builds a server against an in-memory SQLite database.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		JWTExpireHours: 1,
	}
	s := newServerWithDB(cfg, db, nil)
	return s, s.App(), db
}

// createUser inserts a user directly and returns it with a valid token.
func createUser(t *testing.T, s *Server, db *gorm.DB, name, email, role string) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	token, err := s.generateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

// doRequest issues a JSON request against the app, optionally authenticated.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals a response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// createCategory inserts a category owned by the given user.
func createCategory(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, CreatedByID: ownerID, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

// createAsset inserts an asset with the given status.
func createAsset(t *testing.T, db *gorm.DB, title string, categoryID, ownerID uint, status string) *models.Asset {
	t.Helper()
	asset := &models.Asset{
		Title:        title,
		Description:  "test asset",
		CategoryID:   categoryID,
		UploadedByID: ownerID,
		Status:       status,
		IsActive:     true,
	}
	require.NoError(t, db.Create(asset).Error)
	return asset
}
