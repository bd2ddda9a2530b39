package server

import (
	"codevault/models"
	"codevault/repository"

	"github.com/gofiber/fiber/v2"
)

type createAssetRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CategoryID     uint     `json:"categoryId"`
	YoutubeURL     string   `json:"youtubeUrl"`
	Thumbnail      string   `json:"thumbnail"`
	DownloadLink   string   `json:"downloadLink"`
	SourceCodeLink string   `json:"sourceCodeLink"`
	TechStack      []string `json:"techStack"`
}

type updateAssetRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CategoryID     uint     `json:"categoryId"`
	YoutubeURL     string   `json:"youtubeUrl"`
	Thumbnail      string   `json:"thumbnail"`
	DownloadLink   string   `json:"downloadLink"`
	SourceCodeLink string   `json:"sourceCodeLink"`
	TechStack      []string `json:"techStack"`
	Status         string   `json:"status"`
}

// canModify implements the ownership policy: the owner may mutate, and any
// elevated role bypasses ownership.
func canModify(user *models.User, ownerID uint) bool {
	return user.ID == ownerID || user.CanBypassOwnership()
}

// paramID reads a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// CreateAsset handles POST /api/assets
func (s *Server) CreateAsset(c *fiber.Ctx) error {
	user := currentUser(c)

	var req createAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Description == "" || req.CategoryID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title, description, and category are required"))
	}

	category, err := s.categoryRepo.GetByID(c.Context(), req.CategoryID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if category == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Category"))
	}

	asset := &models.Asset{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		UploadedByID:   user.ID,
		YoutubeURL:     req.YoutubeURL,
		Thumbnail:      req.Thumbnail,
		DownloadLink:   req.DownloadLink,
		SourceCodeLink: req.SourceCodeLink,
		TechStack:      req.TechStack,
		Status:         models.AssetStatusPending,
		IsActive:       true,
	}
	if err := s.assetRepo.Create(c.Context(), asset); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	created, err := s.assetRepo.GetByID(c.Context(), asset.ID)
	if err == nil && created != nil {
		asset = created
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Asset uploaded successfully",
		"asset":   asset,
	})
}

// GetAllAssets handles GET /api/assets. Plain users only ever see approved
// assets; elevated roles may filter by any status or see all of them.
func (s *Server) GetAllAssets(c *fiber.Ctx) error {
	user := currentUser(c)
	page, limit := pageParams(c)

	filter := repository.AssetFilter{
		CategoryID: uint(c.QueryInt("category", 0)),
		Search:     c.Query("search"),
		Page:       page,
		Limit:      limit,
	}
	if user.Role == models.RoleUser {
		filter.Status = models.AssetStatusApproved
	} else {
		filter.Status = c.Query("status")
	}

	assets, total, err := s.assetRepo.List(c.Context(), filter)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"assets":      assets,
		"total":       total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	})
}

// GetAsset handles GET /api/assets/:id. Every fetch increments the view
// counter.
func (s *Server) GetAsset(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	asset, err := s.assetRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if asset == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	if err := s.assetRepo.IncrementViews(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	asset.Views++

	return c.JSON(fiber.Map{
		"success": true,
		"asset":   asset,
	})
}

// UpdateAsset handles PUT /api/assets/:id
func (s *Server) UpdateAsset(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	asset, err := s.assetRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if asset == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}
	if !canModify(user, asset.UploadedByID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized"))
	}

	var req updateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != "" {
		asset.Title = req.Title
	}
	if req.Description != "" {
		asset.Description = req.Description
	}
	if req.CategoryID != 0 {
		asset.CategoryID = req.CategoryID
	}
	if req.YoutubeURL != "" {
		asset.YoutubeURL = req.YoutubeURL
	}
	if req.Thumbnail != "" {
		asset.Thumbnail = req.Thumbnail
	}
	if req.DownloadLink != "" {
		asset.DownloadLink = req.DownloadLink
	}
	if req.SourceCodeLink != "" {
		asset.SourceCodeLink = req.SourceCodeLink
	}
	if req.TechStack != nil {
		asset.TechStack = req.TechStack
	}
	if req.Status != "" {
		if req.Status != models.AssetStatusPending &&
			req.Status != models.AssetStatusApproved &&
			req.Status != models.AssetStatusRejected {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid status"))
		}
		asset.Status = req.Status
	}

	if err := s.assetRepo.Update(c.Context(), asset); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Asset updated successfully",
		"asset":   asset,
	})
}

// DeleteAsset handles DELETE /api/assets/:id. Removal is permanent.
func (s *Server) DeleteAsset(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	asset, err := s.assetRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if asset == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}
	if !canModify(user, asset.UploadedByID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized"))
	}

	if err := s.assetRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Asset deleted successfully",
	})
}

// LikeAsset handles POST /api/assets/:id/like, toggling the caller's like.
func (s *Server) LikeAsset(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	asset, err := s.assetRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if asset == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	liked, likes, err := s.assetRepo.ToggleLike(c.Context(), id, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	message := "Asset unliked"
	if liked {
		message = "Asset liked"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"likes":   likes,
	})
}

// GetFavorites handles GET /api/assets/user/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	user := currentUser(c)

	assets, err := s.assetRepo.ListLikedBy(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"total":   len(assets),
		"assets":  assets,
	})
}
