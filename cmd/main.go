package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnthoniusHendriyanto/post-service/config"
	"github.com/AnthoniusHendriyanto/post-service/db"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/handler"
	repo "github.com/AnthoniusHendriyanto/post-service/internal/auth/repository/postgres"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/post-service/internal/errors"
	"github.com/AnthoniusHendriyanto/post-service/internal/logging"
	posthandler "github.com/AnthoniusHendriyanto/post-service/internal/post/handler"
	postrepo "github.com/AnthoniusHendriyanto/post-service/internal/post/repository/postgres"
	postservice "github.com/AnthoniusHendriyanto/post-service/internal/post/service"
	"github.com/AnthoniusHendriyanto/post-service/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	shutdownTimeout = 10 * time.Second

	// Room for multipart boundaries and headers around the image.
	multipartOverhead = 64 << 10
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, time.Duration(cfg.TokenExpiryDays)*24*time.Hour)
	if err != nil {
		fatal(log, "invalid token configuration", err)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		fatal(log, "database unavailable", err)
	}
	defer dbPool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, dbPool); err != nil {
			fatal(log, "migrations failed", err)
		}
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		fatal(log, "image store unavailable", err)
	}

	userRepo := repo.NewPostgresRepository(dbPool)
	userService := service.NewUserService(userRepo, tokenService, cfg, log)
	authHandler := handler.NewAuthHandler(userService, tokenService)

	postRepo := postrepo.NewPostgresRepository(dbPool)
	postService := postservice.NewPostService(postRepo, store, cfg, log)
	cache := posthandler.NewResponseCache(cfg.CacheSize, time.Duration(cfg.CacheTTLSeconds)*time.Second, log)
	postHandler := posthandler.NewPostHandler(postService, cache)

	app := newApp(log, postService.MaxUploadBytes()+multipartOverhead, authHandler, postHandler)
	if disk, ok := store.(*storage.DiskStore); ok {
		app.Static(storage.StaticPrefix, disk.Root())
	}

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown failed", slog.Any("error", err))
		}
	}()

	log.Info("listening", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend))
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal(log, "server stopped", err)
	}
	log.Info("server stopped")
}

func newApp(log *slog.Logger, bodyLimit int64, authHandler *handler.AuthHandler, postHandler *posthandler.PostHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    int(bodyLimit),
		ErrorHandler: errorHandler(log),
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logging.AccessLog(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handler.RegisterRoutes(app, authHandler)
	posthandler.RegisterRoutes(app, postHandler, authHandler.RequireAuth())

	return app
}

// errorHandler renders errors that escape handlers (unknown routes, oversized
// bodies, recovered panics) in the same {"error": ...} shape.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe) && fe.Code == fiber.StatusRequestEntityTooLarge:
			code = autherror.StatusCode(autherror.ErrFileTooLarge)
			message = autherror.Message(autherror.ErrFileTooLarge)
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		default:
			log.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
