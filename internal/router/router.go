package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"photoshare/internal/auth"
	"photoshare/internal/config"
	"photoshare/internal/handler"
	"photoshare/internal/middleware"
	"photoshare/internal/repository"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Photos   *handler.PhotoHandler
	Tags     *handler.TagHandler
	Comments *handler.CommentHandler
}

// Register mounts all routes on the Echo instance.
//
// Layout:
//   - /healthz and /v1/auth/* are public.
//   - Everything else under /v1 requires a valid bearer token for an
//     active account. The rate limiter runs on the whole group; the
//     response cache only on the read-mostly list/get routes.
//   - Account moderation routes additionally require Administrator.
func Register(e *echo.Echo, h Handlers, tokens *auth.TokenService, users *repository.UserRepo, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	pub := e.Group("/v1/auth")
	pub.POST("/signup", h.Auth.Signup)
	pub.POST("/login", h.Auth.Login)

	v1 := e.Group("/v1")
	v1.Use(middleware.Authenticate(tokens, users))
	v1.Use(middleware.RequireRole(auth.RoleUser, auth.RoleModerator, auth.RoleAdministrator))
	v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1.GET("/users/me", h.Users.Me)
	v1.PUT("/users/edit", h.Users.Edit)

	v1.POST("/photos", h.Photos.Create)
	v1.GET("/photos", h.Photos.List, cached)
	v1.GET("/photos/:id", h.Photos.Get, cached)
	v1.PUT("/photos/:id", h.Photos.Update)
	v1.DELETE("/photos/:id", h.Photos.Delete)
	v1.POST("/photos/:id/transform", h.Photos.Transform)
	v1.POST("/photos/:id/qr", h.Photos.QR)

	v1.POST("/photos/:id/comments", h.Comments.Create)
	v1.GET("/photos/:id/comments", h.Comments.List, cached)
	v1.DELETE("/photos/:id/comments/:commentId", h.Comments.Delete)

	v1.POST("/tags", h.Tags.Create)
	v1.GET("/tags", h.Tags.List, cached)
	v1.GET("/tags/:id", h.Tags.Get, cached)
	v1.PUT("/tags/:id", h.Tags.Update)
	v1.DELETE("/tags/:id", h.Tags.Delete)

	admin := v1.Group("/users")
	admin.Use(middleware.RequireRole(auth.RoleAdministrator))
	admin.POST("/:id/ban", h.Auth.Ban)
	admin.DELETE("/:id/ban", h.Auth.Unban)
	admin.PATCH("/:id", h.Users.AdminPatch)
}
