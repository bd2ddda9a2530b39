package server

import (
	"fmt"

	"codevault/models"
	"codevault/validation"

	"github.com/gofiber/fiber/v2"
)

type addReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// averageRating renders the mean rating with one decimal place, "0.0" when
// there are no reviews.
func averageRating(reviews []*models.Review) string {
	if len(reviews) == 0 {
		return "0.0"
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(reviews)))
}

// AddReview handles POST /api/reviews/asset/:assetId. One review per user per
// asset.
func (s *Server) AddReview(c *fiber.Ctx) error {
	user := currentUser(c)
	assetID, ok := paramID(c, "assetId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	var req addReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Comment == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment is required"))
	}
	if err := validation.ValidateRating(req.Rating); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	asset, err := s.assetRepo.GetByID(c.Context(), assetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if asset == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	existing, err := s.reviewRepo.GetByAssetAndUser(c.Context(), assetID, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError("You have already reviewed this asset"))
	}

	review := &models.Review{
		AssetID:  assetID,
		UserID:   user.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		IsActive: true,
	}
	if err := s.reviewRepo.Create(c.Context(), review); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review added successfully",
		"review":  review,
	})
}

// GetMyReviews handles GET /api/reviews
func (s *Server) GetMyReviews(c *fiber.Ctx) error {
	user := currentUser(c)
	page, limit := pageParams(c)

	reviews, total, err := s.reviewRepo.ListByUser(c.Context(), user.ID, page, limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"reviews":     reviews,
		"total":       total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	})
}

// GetAssetReviews handles GET /api/reviews/asset/:assetId
func (s *Server) GetAssetReviews(c *fiber.Ctx) error {
	assetID, ok := paramID(c, "assetId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	asset, err := s.assetRepo.GetByID(c.Context(), assetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if asset == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Asset"))
	}

	reviews, err := s.reviewRepo.ListByAsset(c.Context(), assetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"total":         len(reviews),
		"averageRating": averageRating(reviews),
		"reviews":       reviews,
	})
}

// UpdateReview handles PUT /api/reviews/:id
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Review"))
	}

	review, err := s.reviewRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if review == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Review"))
	}
	if !canModify(user, review.UserID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized"))
	}

	var req updateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Rating != 0 {
		if err := validation.ValidateRating(req.Rating); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		review.Rating = req.Rating
	}
	if req.Comment != "" {
		review.Comment = req.Comment
	}

	if err := s.reviewRepo.Update(c.Context(), review); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteReview handles DELETE /api/reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Review"))
	}

	review, err := s.reviewRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if review == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Review"))
	}
	if !canModify(user, review.UserID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized"))
	}

	if err := s.reviewRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Review deleted successfully",
	})
}
