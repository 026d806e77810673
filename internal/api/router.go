package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creatorpulse/analytics-api/internal/api/handlers"
)

// Handlers groups the handler set mounted under /api.
type Handlers struct {
	Upload   *handlers.UploadHandler
	Matching *handlers.MatchingHandler
	Reels    *handlers.ReelHandler
	Posts    *handlers.PostHandler
	Artists  *handlers.ArtistHandler
	ApiKeys  *handlers.ApiKeyHandler
}

// Register mounts the public health route and the authenticated API
// surface.
func Register(app *fiber.App, auth fiber.Handler, h Handlers) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Use(auth)

	api.Post("/upload", h.Upload.Upload)
	api.Get("/uploads", h.Upload.ListUploads)
	api.Post("/upload-check/check-duplicate", h.Upload.CheckDuplicate)
	api.Post("/upload-check/update-snapshot-date", h.Upload.UpdateSnapshotDate)

	api.Post("/content-matching/find-matches", h.Matching.FindMatches)
	api.Get("/content-matching/batch/:id", h.Matching.BatchCandidates)
	api.Post("/content-matching/link-to-previous", h.Matching.LinkToPrevious)

	api.Post("/video-reels/link-reel", h.Reels.LinkReel)
	api.Post("/video-reels/unlink-reel", h.Reels.UnlinkReel)
	api.Get("/video-reels/video/:id/check-children", h.Reels.CheckChildren)

	api.Get("/posts", h.Posts.ListPosts)
	api.Post("/posts/bulk-remove", h.Posts.BulkRemove)
	api.Get("/posts/:id", h.Posts.GetPost)
	api.Post("/posts/:id/artist", h.Posts.AssignArtist)
	api.Patch("/posts/:id/status", h.Posts.UpdateStatus)

	api.Post("/artists", h.Artists.CreateArtist)
	api.Get("/artists", h.Artists.ListArtists)
	api.Get("/artists/:id", h.Artists.GetArtist)
	api.Put("/artists/:id", h.Artists.UpdateArtist)
	api.Delete("/artists/:id", h.Artists.DeleteArtist)
	api.Get("/artists/:id/earnings", h.Artists.ArtistEarnings)

	api.Post("/api_key/new", h.ApiKeys.CreateApiKey)
	api.Get("/api_key/list", h.ApiKeys.ListKeys)
	api.Post("/api_key/remove", h.ApiKeys.RemoveAPIKey)
}
