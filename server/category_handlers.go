package server

import (
	"time"

	"codevault/cache"
	"codevault/models"

	"github.com/gofiber/fiber/v2"
)

const categoriesCacheKey = "categories:active"

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	user := currentUser(c)

	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category name is required"))
	}

	existing, err := s.categoryRepo.GetByName(c.Context(), req.Name)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category already exists"))
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: user.ID,
		IsActive:    true,
	}
	if err := s.categoryRepo.Create(c.Context(), category); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	cache.Invalidate(c.Context(), categoriesCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"category": category,
	})
}

// GetAllCategories handles GET /api/categories
func (s *Server) GetAllCategories(c *fiber.Ctx) error {
	var categories []*models.Category
	err := cache.CacheAside(c.Context(), categoriesCacheKey, &categories, 5*time.Minute, func() error {
		var err error
		categories, err = s.categoryRepo.ListActive(c.Context())
		return err
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}
