package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"

	config "github.com/creatorpulse/analytics-api/configs"
	"github.com/creatorpulse/analytics-api/internal/api"
	"github.com/creatorpulse/analytics-api/internal/api/handlers"
	"github.com/creatorpulse/analytics-api/internal/api/middleware"
	job "github.com/creatorpulse/analytics-api/internal/jobs"
	"github.com/creatorpulse/analytics-api/internal/queue"
	"github.com/creatorpulse/analytics-api/internal/repository"
	"github.com/creatorpulse/analytics-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	if err := repository.Bootstrap(context.Background(), db); err != nil {
		log.Fatalf("Failed to bootstrap schema: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRepo := repository.NewPostRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	matchRepo := repository.NewMatchCandidateRepository(db)
	earningsRepo := repository.NewEarningsRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	archiveService := service.NewArchiveService(*cfg)
	ingestService := service.NewIngestService(db, postRepo, snapshotRepo, uploadRepo, archiveService, rdb)
	duplicateService := service.NewDuplicateService(snapshotRepo, rdb, cfg.DuplicateThreshold)
	matchingService := service.NewMatchingService(postRepo, matchRepo, service.NewWeightedScorer(), cfg.MatchMinScore)
	linkingService := service.NewLinkingService(db, postRepo)
	artistService := service.NewArtistService(artistRepo, postRepo, snapshotRepo, earningsRepo)
	postService := service.NewPostService(postRepo, snapshotRepo, artistRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	api.Register(app, authMiddleware.AuthMiddleware(), api.Handlers{
		Upload:   handlers.NewUploadHandler(ingestService, duplicateService, client),
		Matching: handlers.NewMatchingHandler(matchingService, linkingService),
		Reels:    handlers.NewReelHandler(linkingService),
		Posts:    handlers.NewPostHandler(postService, linkingService),
		Artists:  handlers.NewArtistHandler(artistService),
		ApiKeys:  handlers.NewApiKeyHandler(apiKeyService),
	})

	// cron jobs
	rollupJob := job.NewEarningsRollupJob(artistRepo, snapshotRepo, earningsRepo)

	//queue
	queueW := queue.NewQueue(matchingService)

	c := cron.New()
	c.AddFunc("@daily", rollupJob.Run)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 1,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeMatchScan, queueW.HandleMatchScanTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
