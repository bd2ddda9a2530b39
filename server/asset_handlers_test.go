package server

import (
	"fmt"
	"net/http"
	"testing"

	"codevault/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAsset(t *testing.T) {
	s, app, db := setupTestServer(t)
	owner, token := createUser(t, s, db, "Uploader", "uploader@example.com", models.RoleUser)
	category := createCategory(t, db, "Templates", owner.ID)

	t.Run("Success starts pending", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/assets/", token, map[string]any{
			"title":       "Portfolio Kit",
			"description": "A portfolio starter",
			"categoryId":  category.ID,
			"techStack":   []string{"Go", "React"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		asset := body["asset"].(map[string]any)
		assert.Equal(t, models.AssetStatusPending, asset["status"])
		assert.Equal(t, float64(1), asset["assetId"])
	})

	t.Run("Unknown category", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/assets/", token, map[string]any{
			"title":       "Orphan",
			"description": "no category",
			"categoryId":  9999,
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Missing fields", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/assets/", token, map[string]any{
			"title": "No description",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestListAssetsRoleGating(t *testing.T) {
	s, app, db := setupTestServer(t)
	owner, userToken := createUser(t, s, db, "Plain", "plain@example.com", models.RoleUser)
	_, managerToken := createUser(t, s, db, "Manager", "manager@example.com", models.RoleManager)
	category := createCategory(t, db, "Tools", owner.ID)

	createAsset(t, db, "Approved One", category.ID, owner.ID, models.AssetStatusApproved)
	createAsset(t, db, "Pending One", category.ID, owner.ID, models.AssetStatusPending)
	createAsset(t, db, "Rejected One", category.ID, owner.ID, models.AssetStatusRejected)

	t.Run("Plain user sees only approved", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/assets/", userToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["total"])
	})

	t.Run("Plain user cannot override status filter", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/assets/?status=pending", userToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["total"])
		assets := body["assets"].([]any)
		first := assets[0].(map[string]any)
		assert.Equal(t, models.AssetStatusApproved, first["status"])
	})

	t.Run("Manager sees everything by default", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/assets/", managerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(3), body["total"])
	})

	t.Run("Manager can filter by status", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/assets/?status=pending", managerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["total"])
	})

	t.Run("Anonymous is rejected", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/assets/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestGetAssetIncrementsViews(t *testing.T) {
	s, app, db := setupTestServer(t)
	owner, _ := createUser(t, s, db, "Viewer", "viewer@example.com", models.RoleUser)
	category := createCategory(t, db, "Views", owner.ID)
	asset := createAsset(t, db, "Watched", category.ID, owner.ID, models.AssetStatusApproved)

	path := fmt.Sprintf("/api/assets/%d", asset.ID)
	for i := 0; i < 3; i++ {
		resp := doRequest(t, app, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}

	var reloaded models.Asset
	require.NoError(t, db.First(&reloaded, asset.ID).Error)
	assert.Equal(t, int64(3), reloaded.Views)
}

func TestUpdateAssetOwnership(t *testing.T) {
	s, app, db := setupTestServer(t)
	owner, ownerToken := createUser(t, s, db, "Owner", "owner@example.com", models.RoleUser)
	_, strangerToken := createUser(t, s, db, "Stranger", "stranger@example.com", models.RoleUser)
	_, adminToken := createUser(t, s, db, "Admin", "admin@example.com", models.RoleSuperAdmin)
	category := createCategory(t, db, "Owned", owner.ID)
	asset := createAsset(t, db, "Mine", category.ID, owner.ID, models.AssetStatusPending)

	path := fmt.Sprintf("/api/assets/%d", asset.ID)

	t.Run("Stranger forbidden", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, path, strangerToken, map[string]any{
			"title": "Stolen",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Owner can update", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, path, ownerToken, map[string]any{
			"title": "Renamed",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		updated := body["asset"].(map[string]any)
		assert.Equal(t, "Renamed", updated["title"])
	})

	t.Run("Invalid status rejected", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, path, ownerToken, map[string]any{
			"status": "published",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Admin bypasses ownership", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, path, adminToken, map[string]any{
			"status": models.AssetStatusApproved,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		var reloaded models.Asset
		require.NoError(t, db.First(&reloaded, asset.ID).Error)
		assert.Equal(t, models.AssetStatusApproved, reloaded.Status)
	})
}

func TestDeleteAsset(t *testing.T) {
	s, app, db := setupTestServer(t)
	owner, ownerToken := createUser(t, s, db, "Remover", "remover@example.com", models.RoleUser)
	_, strangerToken := createUser(t, s, db, "Intruder", "intruder@example.com", models.RoleUser)
	category := createCategory(t, db, "Doomed", owner.ID)
	asset := createAsset(t, db, "Short-lived", category.ID, owner.ID, models.AssetStatusApproved)

	require.NoError(t, db.Create(&models.AssetLike{AssetID: asset.ID, UserID: owner.ID}).Error)
	reviewer, _ := createUser(t, s, db, "Critic", "critic@example.com", models.RoleUser)
	require.NoError(t, db.Create(&models.Review{AssetID: asset.ID, UserID: reviewer.ID, Rating: 5, Comment: "great", IsActive: true}).Error)

	path := fmt.Sprintf("/api/assets/%d", asset.ID)

	resp := doRequest(t, app, http.MethodDelete, path, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var assetCount, likeCount, reviewCount int64
	require.NoError(t, db.Model(&models.Asset{}).Where("id = ?", asset.ID).Count(&assetCount).Error)
	require.NoError(t, db.Model(&models.AssetLike{}).Where("asset_id = ?", asset.ID).Count(&likeCount).Error)
	require.NoError(t, db.Model(&models.Review{}).Where("asset_id = ?", asset.ID).Count(&reviewCount).Error)
	assert.Equal(t, int64(0), assetCount)
	assert.Equal(t, int64(0), likeCount)
	assert.Equal(t, int64(0), reviewCount)

	resp = doRequest(t, app, http.MethodDelete, path, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestLikeAssetToggle(t *testing.T) {
	s, app, db := setupTestServer(t)
	owner, token := createUser(t, s, db, "Liker", "liker@example.com", models.RoleUser)
	_, otherToken := createUser(t, s, db, "Other", "other@example.com", models.RoleUser)
	category := createCategory(t, db, "Liked", owner.ID)
	asset := createAsset(t, db, "Popular", category.ID, owner.ID, models.AssetStatusApproved)

	path := fmt.Sprintf("/api/assets/%d/like", asset.ID)

	resp := doRequest(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Asset liked", body["message"])
	assert.Equal(t, float64(1), body["likes"])

	resp = doRequest(t, app, http.MethodPost, path, otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(2), body["likes"])

	// Second call from the same user undoes the like.
	resp = doRequest(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Asset unliked", body["message"])
	assert.Equal(t, float64(1), body["likes"])

	// Counter always matches the membership rows.
	var likeRows int64
	require.NoError(t, db.Model(&models.AssetLike{}).Where("asset_id = ?", asset.ID).Count(&likeRows).Error)
	var reloaded models.Asset
	require.NoError(t, db.First(&reloaded, asset.ID).Error)
	assert.Equal(t, likeRows, reloaded.Likes)
}

func TestGetFavorites(t *testing.T) {
	s, app, db := setupTestServer(t)
	owner, token := createUser(t, s, db, "Collector", "collector@example.com", models.RoleUser)
	category := createCategory(t, db, "Favs", owner.ID)
	first := createAsset(t, db, "First", category.ID, owner.ID, models.AssetStatusApproved)
	createAsset(t, db, "Second", category.ID, owner.ID, models.AssetStatusApproved)

	resp := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/assets/%d/like", first.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/assets/user/favorites", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])
	assets := body["assets"].([]any)
	liked := assets[0].(map[string]any)
	assert.Equal(t, "First", liked["title"])
}
