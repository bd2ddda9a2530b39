package server

import (
	"net/http"
	"testing"

	"codevault/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	s, app, db := setupTestServer(t)
	_, token := createUser(t, s, db, "Curator", "curator@example.com", models.RoleUser)

	resp := doRequest(t, app, http.MethodPost, "/api/categories/", token, map[string]string{
		"name":        "Templates",
		"description": "Site templates",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	created := body["category"].(map[string]any)
	assert.Equal(t, float64(1), created["categoryId"])

	t.Run("Duplicate name rejected", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/categories/", token, map[string]string{
			"name": "Templates",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Name required", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/categories/", token, map[string]string{
			"description": "nameless",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Listing excludes inactive", func(t *testing.T) {
		// Create then flip the flag: the column defaults to true, so a
		// zero-valued IsActive would be dropped from the insert.
		inactive := &models.Category{Name: "Hidden", IsActive: true}
		require.NoError(t, db.Create(inactive).Error)
		require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

		resp := doRequest(t, app, http.MethodGet, "/api/categories/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		categories := body["categories"].([]any)
		require.Len(t, categories, 1)
		first := categories[0].(map[string]any)
		assert.Equal(t, "Templates", first["name"])
	})
}
