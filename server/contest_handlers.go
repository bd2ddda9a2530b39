package server

import (
	"time"

	"codevault/models"
	"codevault/repository"

	"github.com/gofiber/fiber/v2"
)

type createContestRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

type updateContestRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status"`
}

type submitEntryRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	SubmissionLink string `json:"submissionLink"`
	PreviewImage   string `json:"previewImage"`
}

// CreateContest handles POST /api/contests
func (s *Server) CreateContest(c *fiber.Ctx) error {
	user := currentUser(c)

	var req createContestRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Description == "" || req.Deadline.IsZero() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title, description, and deadline are required"))
	}

	contest := &models.Contest{
		Title:       req.Title,
		Description: req.Description,
		CreatedByID: user.ID,
		Deadline:    req.Deadline,
		Status:      models.ContestStatusActive,
		IsActive:    true,
	}
	if err := s.contestRepo.Create(c.Context(), contest); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Contest created successfully",
		"contest": contest,
	})
}

// GetAllContests handles GET /api/contests
func (s *Server) GetAllContests(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	contests, total, err := s.contestRepo.List(c.Context(), repository.ContestFilter{
		Status: c.Query("status"),
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
		"contests":    contests,
		"total":       total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	})
}

// GetContest handles GET /api/contests/:id
func (s *Server) GetContest(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}

	contest, err := s.contestRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if contest == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"contest": contest,
	})
}

// UpdateContest handles PUT /api/contests/:id
func (s *Server) UpdateContest(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}

	contest, err := s.contestRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if contest == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}

	var req updateContestRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != "" {
		contest.Title = req.Title
	}
	if req.Description != "" {
		contest.Description = req.Description
	}
	if req.Deadline != nil {
		contest.Deadline = *req.Deadline
	}
	if req.Status != "" {
		if req.Status != models.ContestStatusUpcoming &&
			req.Status != models.ContestStatusActive &&
			req.Status != models.ContestStatusCompleted {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid status"))
		}
		contest.Status = req.Status
	}

	if err := s.contestRepo.Update(c.Context(), contest); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contest updated successfully",
		"contest": contest,
	})
}

// DeleteContest handles DELETE /api/contests/:id
func (s *Server) DeleteContest(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}

	contest, err := s.contestRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if contest == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}

	if err := s.contestRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contest deleted successfully",
	})
}

// SubmitEntry handles POST /api/contests/:id/entries. One entry per
// (contest, participant); submissions close at the deadline.
func (s *Server) SubmitEntry(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}

	contest, err := s.contestRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if contest == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}
	if time.Now().After(contest.Deadline) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Contest deadline has passed"))
	}

	existing, err := s.contestRepo.GetEntryByParticipant(c.Context(), id, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError("You have already submitted an entry"))
	}

	var req submitEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.SubmissionLink == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and submission link are required"))
	}

	entry := &models.ContestEntry{
		ContestID:      id,
		ParticipantID:  user.ID,
		Title:          req.Title,
		Description:    req.Description,
		SubmissionLink: req.SubmissionLink,
		PreviewImage:   req.PreviewImage,
		IsActive:       true,
	}
	if err := s.contestRepo.CreateEntry(c.Context(), entry); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Entry submitted successfully",
		"entry":   entry,
	})
}

// GetContestEntries handles GET /api/contests/:id/entries
func (s *Server) GetContestEntries(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contest"))
	}

	entries, err := s.contestRepo.ListEntries(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"total":   len(entries),
		"entries": entries,
	})
}

// VoteEntry handles POST /api/contests/:id/entries/:entryId/vote, toggling
// the caller's vote.
func (s *Server) VoteEntry(c *fiber.Ctx) error {
	user := currentUser(c)
	entryID, ok := paramID(c, "entryId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Entry"))
	}

	entry, err := s.contestRepo.GetEntryByID(c.Context(), entryID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if entry == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Entry"))
	}

	voted, votes, err := s.contestRepo.ToggleVote(c.Context(), entryID, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	message := "Vote removed"
	if voted {
		message = "Vote added"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"votes":   votes,
	})
}

// DeleteEntry handles DELETE /api/contests/:id/entries/:entryId
func (s *Server) DeleteEntry(c *fiber.Ctx) error {
	user := currentUser(c)
	entryID, ok := paramID(c, "entryId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Entry"))
	}

	entry, err := s.contestRepo.GetEntryByID(c.Context(), entryID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if entry == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Entry"))
	}
	if !canModify(user, entry.ParticipantID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized"))
	}

	if err := s.contestRepo.DeleteEntry(c.Context(), entry); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Entry deleted successfully",
	})
}
