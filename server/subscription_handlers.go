package server

import (
	"time"

	"codevault/cache"
	"codevault/models"

	"github.com/gofiber/fiber/v2"
)

const plansCacheKey = "plans:active"

type createPlanRequest struct {
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	Duration      string   `json:"duration"`
	Features      []string `json:"features"`
	IsRecommended bool     `json:"isRecommended"`
}

type updatePlanRequest struct {
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	Duration      string   `json:"duration"`
	Features      []string `json:"features"`
	IsRecommended *bool    `json:"isRecommended"`
	IsActive      *bool    `json:"isActive"`
}

type subscribeRequest struct {
	PlanID uint `json:"planId"`
}

func validDuration(d string) bool {
	return d == models.DurationMonthly || d == models.DurationYearly || d == models.DurationLifetime
}

// subscriptionEnd computes the end of a period starting at start. Lifetime
// plans get a far-future end date rather than a sentinel.
func subscriptionEnd(start time.Time, duration string) time.Time {
	switch duration {
	case models.DurationYearly:
		return start.AddDate(1, 0, 0)
	case models.DurationLifetime:
		return start.AddDate(100, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// GetAllPlans handles GET /api/subscriptions/plans
func (s *Server) GetAllPlans(c *fiber.Ctx) error {
	var plans []*models.SubscriptionPlan
	err := cache.CacheAside(c.Context(), plansCacheKey, &plans, 5*time.Minute, func() error {
		var err error
		plans, err = s.subscriptionRepo.ListActivePlans(c.Context())
		return err
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"plans":   plans,
	})
}

// CreatePlan handles POST /api/subscriptions/plans
func (s *Server) CreatePlan(c *fiber.Ctx) error {
	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" || req.Price == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name and price are required"))
	}
	if *req.Price < 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Price cannot be negative"))
	}
	if req.Duration == "" {
		req.Duration = models.DurationMonthly
	}
	if !validDuration(req.Duration) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid duration"))
	}

	plan := &models.SubscriptionPlan{
		Name:          req.Name,
		Price:         *req.Price,
		Duration:      req.Duration,
		Features:      req.Features,
		IsRecommended: req.IsRecommended,
		IsActive:      true,
	}
	if err := s.subscriptionRepo.CreatePlan(c.Context(), plan); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Plan already exists"))
	}

	cache.Invalidate(c.Context(), plansCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Plan created successfully",
		"plan":    plan,
	})
}

// UpdatePlan handles PUT /api/subscriptions/plans/:id
func (s *Server) UpdatePlan(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Plan"))
	}

	plan, err := s.subscriptionRepo.GetPlanByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if plan == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Plan"))
	}

	var req updatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Price cannot be negative"))
		}
		plan.Price = *req.Price
	}
	if req.Duration != "" {
		if !validDuration(req.Duration) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid duration"))
		}
		plan.Duration = req.Duration
	}
	if req.Features != nil {
		plan.Features = req.Features
	}
	if req.IsRecommended != nil {
		plan.IsRecommended = *req.IsRecommended
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.subscriptionRepo.UpdatePlan(c.Context(), plan); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	cache.Invalidate(c.Context(), plansCacheKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Plan updated successfully",
		"plan":    plan,
	})
}

// DeletePlan handles DELETE /api/subscriptions/plans/:id
func (s *Server) DeletePlan(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Plan"))
	}

	plan, err := s.subscriptionRepo.GetPlanByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if plan == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Plan"))
	}

	if err := s.subscriptionRepo.DeletePlan(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	cache.Invalidate(c.Context(), plansCacheKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Plan deleted successfully",
	})
}

// Subscribe handles POST /api/subscriptions/subscribe. A user holds at most
// one subscription record; resubscribing after cancellation or expiry reuses
// it.
func (s *Server) Subscribe(c *fiber.Ctx) error {
	user := currentUser(c)

	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PlanID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Plan is required"))
	}

	plan, err := s.subscriptionRepo.GetPlanByID(c.Context(), req.PlanID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if plan == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Plan"))
	}

	existing, err := s.subscriptionRepo.GetSubscriptionByUser(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if existing != nil && existing.Status == models.SubscriptionActive {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError("You already have an active subscription"))
	}

	now := time.Now()
	if existing != nil {
		existing.PlanID = plan.ID
		existing.Plan = plan
		existing.Status = models.SubscriptionActive
		existing.StartDate = now
		existing.EndDate = subscriptionEnd(now, plan.Duration)
		existing.AutoRenew = true
		if err := s.subscriptionRepo.UpdateSubscription(c.Context(), existing); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":      true,
			"message":      "Subscribed successfully",
			"subscription": existing,
		})
	}

	sub := &models.UserSubscription{
		UserID:    user.ID,
		PlanID:    plan.ID,
		Plan:      plan,
		Status:    models.SubscriptionActive,
		StartDate: now,
		EndDate:   subscriptionEnd(now, plan.Duration),
		AutoRenew: true,
	}
	if err := s.subscriptionRepo.CreateSubscription(c.Context(), sub); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Subscribed successfully",
		"subscription": sub,
	})
}

// GetMySubscription handles GET /api/subscriptions/my-subscription
func (s *Server) GetMySubscription(c *fiber.Ctx) error {
	user := currentUser(c)

	sub, err := s.subscriptionRepo.GetSubscriptionByUser(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if sub == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Subscription"))
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"subscription": sub,
	})
}

// CancelSubscription handles POST /api/subscriptions/cancel. Dates are left
// untouched so access runs until the paid-for end date.
func (s *Server) CancelSubscription(c *fiber.Ctx) error {
	user := currentUser(c)

	sub, err := s.subscriptionRepo.GetActiveSubscriptionByUser(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if sub == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Active subscription"))
	}

	sub.Status = models.SubscriptionCancelled
	sub.AutoRenew = false
	if err := s.subscriptionRepo.UpdateSubscription(c.Context(), sub); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Subscription cancelled",
		"subscription": sub,
	})
}

// RenewSubscription handles POST /api/subscriptions/renew. Lifetime
// subscriptions reactivate without touching their dates.
func (s *Server) RenewSubscription(c *fiber.Ctx) error {
	user := currentUser(c)

	sub, err := s.subscriptionRepo.GetSubscriptionByUser(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if sub == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Subscription"))
	}

	plan := sub.Plan
	if plan == nil {
		plan, err = s.subscriptionRepo.GetPlanByID(c.Context(), sub.PlanID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if plan == nil {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Plan"))
		}
	}

	if plan.Duration != models.DurationLifetime {
		now := time.Now()
		sub.StartDate = now
		sub.EndDate = subscriptionEnd(now, plan.Duration)
	}
	sub.Status = models.SubscriptionActive
	sub.AutoRenew = true

	if err := s.subscriptionRepo.UpdateSubscription(c.Context(), sub); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Subscription renewed",
		"subscription": sub,
	})
}
