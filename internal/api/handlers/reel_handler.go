package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creatorpulse/analytics-api/internal/service"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

type ReelHandler struct {
	ls service.LinkingService
}

func NewReelHandler(ls service.LinkingService) *ReelHandler {
	return &ReelHandler{ls: ls}
}

func (h *ReelHandler) LinkReel(c *fiber.Ctx) error {
	var req transfer.ReelLinkRequest
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

	if err := h.ls.LinkReelToVideo(c.Context(), req.ReelPostID, req.ParentVideoPostID, req.InheritMetadata); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ReelHandler) UnlinkReel(c *fiber.Ctx) error {
	var req transfer.ReelUnlinkRequest
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

	if err := h.ls.UnlinkReel(c.Context(), req.ReelPostID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ReelHandler) CheckChildren(c *fiber.Ctx) error {
	videoPostID := c.Params("id")

	check, err := h.ls.CheckChildren(c.Context(), videoPostID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to check linked reels",
		})
	}

	return c.Status(fiber.StatusOK).JSON(check)
}
