package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/creatorpulse/analytics-api/internal/api/handlers"
)

func registerTestApp() *fiber.App {
	app := fiber.New()
	auth := func(c *fiber.Ctx) error { return c.Next() }
	Register(app, auth, Handlers{
		Upload:   handlers.NewUploadHandler(nil, nil, nil),
		Matching: handlers.NewMatchingHandler(nil, nil),
		Reels:    handlers.NewReelHandler(nil),
		Posts:    handlers.NewPostHandler(nil, nil),
		Artists:  handlers.NewArtistHandler(nil),
		ApiKeys:  handlers.NewApiKeyHandler(nil),
	})
	return app
}

func TestRegisterRoutes(t *testing.T) {
	app := registerTestApp()

	want := []struct {
		method string
		path   string
	}{
		{fiber.MethodGet, "/api/health"},
		{fiber.MethodPost, "/api/upload"},
		{fiber.MethodGet, "/api/uploads"},
		{fiber.MethodPost, "/api/upload-check/check-duplicate"},
		{fiber.MethodPost, "/api/upload-check/update-snapshot-date"},
		{fiber.MethodPost, "/api/content-matching/find-matches"},
		{fiber.MethodGet, "/api/content-matching/batch/:id"},
		{fiber.MethodPost, "/api/content-matching/link-to-previous"},
		{fiber.MethodPost, "/api/video-reels/link-reel"},
		{fiber.MethodPost, "/api/video-reels/unlink-reel"},
		{fiber.MethodGet, "/api/video-reels/video/:id/check-children"},
		{fiber.MethodGet, "/api/posts"},
		{fiber.MethodPost, "/api/posts/bulk-remove"},
		{fiber.MethodGet, "/api/posts/:id"},
		{fiber.MethodPost, "/api/posts/:id/artist"},
		{fiber.MethodPatch, "/api/posts/:id/status"},
		{fiber.MethodPost, "/api/artists"},
		{fiber.MethodGet, "/api/artists"},
		{fiber.MethodGet, "/api/artists/:id"},
		{fiber.MethodPut, "/api/artists/:id"},
		{fiber.MethodDelete, "/api/artists/:id"},
		{fiber.MethodGet, "/api/artists/:id/earnings"},
		{fiber.MethodPost, "/api/api_key/new"},
		{fiber.MethodGet, "/api/api_key/list"},
		{fiber.MethodPost, "/api/api_key/remove"},
	}

	registered := make(map[string]bool)
	for _, r := range app.GetRoutes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, w := range want {
		if !registered[w.method+" "+w.path] {
			t.Errorf("route %s %s not registered", w.method, w.path)
		}
	}
}

func TestHealthRoute(t *testing.T) {
	app := registerTestApp()

	req := httptest.NewRequest(fiber.MethodGet, "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("health status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
}
