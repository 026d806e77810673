package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creatorpulse/analytics-api/internal/service"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

type MatchingHandler struct {
	ms service.MatchingService
	ls service.LinkingService
}

func NewMatchingHandler(ms service.MatchingService, ls service.LinkingService) *MatchingHandler {
	return &MatchingHandler{ms: ms, ls: ls}
}

func (h *MatchingHandler) FindMatches(c *fiber.Ctx) error {
	var req transfer.MatchQuery
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	matches, err := h.ms.FindMatches(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(matches)
}

func (h *MatchingHandler) BatchCandidates(c *fiber.Ctx) error {
	batchID := c.Params("id")

	candidates, err := h.ms.CandidatesForBatch(c.Context(), batchID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list match candidates",
		})
	}

	return c.Status(fiber.StatusOK).JSON(candidates)
}

func (h *MatchingHandler) LinkToPrevious(c *fiber.Ctx) error {
	var req transfer.LinkToPrevious
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.ls.LinkToPrevious(c.Context(), req.NewPostID, req.PreviousPostID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
