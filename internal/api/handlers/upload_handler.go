package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/creatorpulse/analytics-api/internal/queue"
	"github.com/creatorpulse/analytics-api/internal/service"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

type UploadHandler struct {
	is          service.IngestService
	ds          service.DuplicateService
	AsynqClient *asynq.Client
}

func NewUploadHandler(is service.IngestService, ds service.DuplicateService, asynqClient *asynq.Client) *UploadHandler {
	return &UploadHandler{is: is, ds: ds, AsynqClient: asynqClient}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	snapshotDate := c.FormValue("snapshot_date")
	if snapshotDate == "" {
		snapshotDate = c.FormValue("snapshotDate")
	}
	if snapshotDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "snapshot_date is required",
		})
	}

	result, err := h.is.Ingest(c.Context(), snapshotDate, fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if len(result.Summary.NewPosts) > 0 {
		err = queue.EnqueueMatchScan(h.AsynqClient, queue.MatchScanPayload{BatchID: result.BatchID})
		if err != nil {
			slog.Info("could not schedule match scan: " + err.Error())
		}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *UploadHandler) CheckDuplicate(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	snapshotDate := c.FormValue("snapshot_date")
	if snapshotDate == "" {
		snapshotDate = c.FormValue("snapshotDate")
	}

	result, err := h.ds.Check(c.Context(), snapshotDate, fh)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *UploadHandler) UpdateSnapshotDate(c *fiber.Ctx) error {
	var req transfer.SnapshotDateUpdate
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

	if err := h.ds.MoveSnapshotDate(c.Context(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UploadHandler) ListUploads(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	batches, err := h.is.ListBatches(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list uploads",
		})
	}

	return c.Status(fiber.StatusOK).JSON(batches)
}
