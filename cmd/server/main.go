package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"photoshare/internal/auth"
	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/handler"
	"photoshare/internal/media"
	"photoshare/internal/queue"
	"photoshare/internal/repository"
	"photoshare/internal/router"
	"photoshare/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables cache and rate limiting
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	photos := repository.NewPhotoRepo(db)
	tags := repository.NewTagRepo(db)
	comments := repository.NewCommentRepo(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	mediaClient := media.NewClient(media.Config{
		CloudName:       cfg.MediaCloudName,
		APIKey:          cfg.MediaAPIKey,
		APISecret:       cfg.MediaAPISecret,
		TransformFolder: cfg.MediaTransformFolder,
	})
	publisher := service.NewPublisher(mediaClient, photos)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Users:    handler.NewUserHandler(cfg, users),
		Photos:   handler.NewPhotoHandler(photos, tags, mediaClient, publisher),
		Tags:     handler.NewTagHandler(tags),
		Comments: handler.NewCommentHandler(comments, photos),
	}

	e := echo.New()
	router.Register(e, h, tokens, users, rdb)

	// The transform event consumer reconnects on its own; a dead broker
	// never blocks the API.
	go func() {
		if err := queue.StartTransformConsumer(); err != nil {
			log.Printf("queue: consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
