package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creatorpulse/analytics-api/internal/repository"
	"github.com/creatorpulse/analytics-api/internal/service"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

type PostHandler struct {
	ps service.PostService
	ls service.LinkingService
}

func NewPostHandler(ps service.PostService, ls service.LinkingService) *PostHandler {
	return &PostHandler{ps: ps, ls: ls}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	filter := repository.PostFilter{
		Status:   c.Query("status"),
		ArtistID: int64(c.QueryInt("artist_id", 0)),
		PostType: c.Query("post_type"),
		Limit:    c.QueryInt("limit", 100),
		Offset:   c.QueryInt("offset", 0),
	}

	posts, err := h.ps.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID := c.Params("id")

	detail, err := h.ps.Get(c.Context(), postID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

func (h *PostHandler) AssignArtist(c *fiber.Ctx) error {
	postID := c.Params("id")

	var req transfer.ArtistAssignment
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if err := h.ps.AssignArtist(c.Context(), postID, req.ArtistID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) UpdateStatus(c *fiber.Ctx) error {
	postID := c.Params("id")

	var req transfer.StatusUpdate
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

	warning, err := h.ls.SetStatus(c.Context(), postID, req.Status, req.Reason)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp := fiber.Map{}
	if warning != "" {
		resp["warning"] = warning
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) BulkRemove(c *fiber.Ctx) error {
	var req transfer.BulkRemove
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

	if err := h.ls.BulkRemove(c.Context(), req.PostIDs, req.Reason); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
