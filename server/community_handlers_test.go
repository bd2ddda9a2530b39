package server

import (
	"fmt"
	"net/http"
	"testing"

	"codevault/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPost(t *testing.T, db *gorm.DB, title string, authorID uint) *models.CommunityPost {
	t.Helper()
	post := &models.CommunityPost{
		Title:       title,
		Description: "test post",
		AuthorID:    authorID,
		IsActive:    true,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreateAndListPosts(t *testing.T) {
	s, app, db := setupTestServer(t)
	_, token := createUser(t, s, db, "Author", "author@example.com", models.RoleUser)

	resp := doRequest(t, app, http.MethodPost, "/api/community/", token, map[string]any{
		"title":       "Show and tell",
		"description": "Built a thing",
		"tags":        []string{"go", "fiber"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	created := body["post"].(map[string]any)
	assert.Equal(t, float64(1), created["postId"])

	resp = doRequest(t, app, http.MethodPost, "/api/community/", token, map[string]any{
		"title": "Missing description",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/community/?search=show", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])

	resp = doRequest(t, app, http.MethodGet, "/api/community/?search=nomatch", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(0), body["total"])
}

func TestUpdatePostOwnership(t *testing.T) {
	s, app, db := setupTestServer(t)
	author, authorToken := createUser(t, s, db, "Writer", "writer@example.com", models.RoleUser)
	_, strangerToken := createUser(t, s, db, "Reader", "reader@example.com", models.RoleUser)
	post := createPost(t, db, "Original", author.ID)

	path := fmt.Sprintf("/api/community/%d", post.ID)

	resp := doRequest(t, app, http.MethodPut, path, strangerToken, map[string]any{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPut, path, authorToken, map[string]any{"title": "Edited"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	updated := body["post"].(map[string]any)
	assert.Equal(t, "Edited", updated["title"])
}

func TestLikePostToggle(t *testing.T) {
	s, app, db := setupTestServer(t)
	author, token := createUser(t, s, db, "Poster", "poster@example.com", models.RoleUser)
	post := createPost(t, db, "Likeable", author.ID)

	path := fmt.Sprintf("/api/community/%d/like", post.ID)

	resp := doRequest(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Post liked", body["message"])
	assert.Equal(t, float64(1), body["likes"])

	resp = doRequest(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Post unliked", body["message"])
	assert.Equal(t, float64(0), body["likes"])
}

func TestCommentCounterStaysInSync(t *testing.T) {
	s, app, db := setupTestServer(t)
	author, token := createUser(t, s, db, "Commenter", "commenter@example.com", models.RoleUser)
	post := createPost(t, db, "Discussed", author.ID)

	commentsPath := fmt.Sprintf("/api/community/%d/comments", post.ID)

	resp := doRequest(t, app, http.MethodPost, commentsPath, token, map[string]string{"text": "First!"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	comment := body["comment"].(map[string]any)
	commentID := uint(comment["id"].(float64))

	resp = doRequest(t, app, http.MethodPost, commentsPath, token, map[string]string{"text": "Second!"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, commentsPath, token, map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	var reloaded models.CommunityPost
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, int64(2), reloaded.CommentsCount)

	resp = doRequest(t, app, http.MethodGet, commentsPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(2), body["total"])

	resp = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/community/%d/comments/%d", post.ID, commentID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, int64(1), reloaded.CommentsCount)
}

func TestDeleteCommentOwnership(t *testing.T) {
	s, app, db := setupTestServer(t)
	author, authorToken := createUser(t, s, db, "CommentOwner", "commentowner@example.com", models.RoleUser)
	_, strangerToken := createUser(t, s, db, "Lurker", "lurker@example.com", models.RoleUser)
	_, managerToken := createUser(t, s, db, "Mod", "mod@example.com", models.RoleManager)
	post := createPost(t, db, "Moderated", author.ID)

	commentsPath := fmt.Sprintf("/api/community/%d/comments", post.ID)
	resp := doRequest(t, app, http.MethodPost, commentsPath, authorToken, map[string]string{"text": "keep"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	commentID := uint(body["comment"].(map[string]any)["id"].(float64))

	deletePath := fmt.Sprintf("/api/community/%d/comments/%d", post.ID, commentID)

	resp = doRequest(t, app, http.MethodDelete, deletePath, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodDelete, deletePath, managerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestDeletePostCascades(t *testing.T) {
	s, app, db := setupTestServer(t)
	author, token := createUser(t, s, db, "Eraser", "eraser@example.com", models.RoleUser)
	post := createPost(t, db, "Temporary", author.ID)

	commentsPath := fmt.Sprintf("/api/community/%d/comments", post.ID)
	resp := doRequest(t, app, http.MethodPost, commentsPath, token, map[string]string{"text": "gone soon"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/community/%d/like", post.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/community/%d", post.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var comments, likes, posts int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	require.NoError(t, db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&models.CommunityPost{}).Where("id = ?", post.ID).Count(&posts).Error)
	assert.Equal(t, int64(0), comments)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(0), posts)
}
