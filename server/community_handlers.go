package server

import (
	"codevault/models"
	"codevault/repository"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SourceCodeLink string   `json:"sourceCodeLink"`
	ProjectLink    string   `json:"projectLink"`
	Tags           []string `json:"tags"`
}

type updatePostRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SourceCodeLink string   `json:"sourceCodeLink"`
	ProjectLink    string   `json:"projectLink"`
	Tags           []string `json:"tags"`
}

type addCommentRequest struct {
	Text string `json:"text"`
}

// CreatePost handles POST /api/community
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user := currentUser(c)

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Description == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and description are required"))
	}

	post := &models.CommunityPost{
		Title:          req.Title,
		Description:    req.Description,
		AuthorID:       user.ID,
		SourceCodeLink: req.SourceCodeLink,
		ProjectLink:    req.ProjectLink,
		Tags:           req.Tags,
		IsActive:       true,
	}
	if err := s.communityRepo.CreatePost(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	created, err := s.communityRepo.GetPostByID(c.Context(), post.ID)
	if err == nil && created != nil {
		post = created
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetAllPosts handles GET /api/community
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	posts, total, err := s.communityRepo.ListPosts(c.Context(), repository.PostFilter{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"posts":       posts,
		"total":       total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	})
}

// GetPost handles GET /api/community/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	post, err := s.communityRepo.GetPostByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// UpdatePost handles PUT /api/community/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	post, err := s.communityRepo.GetPostByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}
	if !canModify(user, post.AuthorID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized"))
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Description != "" {
		post.Description = req.Description
	}
	if req.SourceCodeLink != "" {
		post.SourceCodeLink = req.SourceCodeLink
	}
	if req.ProjectLink != "" {
		post.ProjectLink = req.ProjectLink
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}

	if err := s.communityRepo.UpdatePost(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost handles DELETE /api/community/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	post, err := s.communityRepo.GetPostByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}
	if !canModify(user, post.AuthorID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized"))
	}

	if err := s.communityRepo.DeletePost(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully",
	})
}

// LikePost handles POST /api/community/:id/like, toggling the caller's like.
func (s *Server) LikePost(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	post, err := s.communityRepo.GetPostByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	liked, likes, err := s.communityRepo.ToggleLike(c.Context(), id, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"likes":   likes,
	})
}

// AddComment handles POST /api/community/:id/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	post, err := s.communityRepo.GetPostByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment text is required"))
	}

	comment := &models.Comment{
		PostID:   id,
		AuthorID: user.ID,
		Text:     req.Text,
		IsActive: true,
	}
	if err := s.communityRepo.CreateComment(c.Context(), comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// GetComments handles GET /api/community/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post"))
	}

	comments, err := s.communityRepo.ListComments(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"total":    len(comments),
		"comments": comments,
	})
}

// DeleteComment handles DELETE /api/community/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	user := currentUser(c)
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Comment"))
	}

	comment, err := s.communityRepo.GetCommentByID(c.Context(), commentID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if comment == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Comment"))
	}
	if !canModify(user, comment.AuthorID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized"))
	}

	if err := s.communityRepo.DeleteComment(c.Context(), comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Comment deleted successfully",
	})
}
