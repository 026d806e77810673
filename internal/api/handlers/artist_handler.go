package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/creatorpulse/analytics-api/internal/service"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

type ArtistHandler struct {
	s service.ArtistService
}

func NewArtistHandler(service service.ArtistService) *ArtistHandler {
	return &ArtistHandler{s: service}
}

func artistID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func (h *ArtistHandler) CreateArtist(c *fiber.Ctx) error {
	var req transfer.ArtistCreation
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

	id, err := h.s.Create(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": id})
}

func (h *ArtistHandler) ListArtists(c *fiber.Ctx) error {
	artists, err := h.s.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list artists",
		})
	}

	return c.Status(fiber.StatusOK).JSON(artists)
}

func (h *ArtistHandler) GetArtist(c *fiber.Ctx) error {
	id, err := artistID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid artist id",
		})
	}

	artist, err := h.s.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(artist)
}

func (h *ArtistHandler) UpdateArtist(c *fiber.Ctx) error {
	id, err := artistID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid artist id",
		})
	}

	var req transfer.ArtistUpdate
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

	if err := h.s.Update(c.Context(), id, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ArtistHandler) DeleteArtist(c *fiber.Ctx) error {
	id, err := artistID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid artist id",
		})
	}

	archived, err := h.s.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp := fiber.Map{"deleted": !archived}
	if archived {
		resp["warning"] = "artist has assigned posts and was archived instead of deleted"
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ArtistHandler) ArtistEarnings(c *fiber.Ctx) error {
	id, err := artistID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid artist id",
		})
	}

	earnings, err := h.s.Earnings(c.Context(), id, c.Query("from"), c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(earnings)
}
