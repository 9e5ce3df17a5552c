package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "nobzo-blog/internal/app"
	"nobzo-blog/internal/bootstrap"
	"nobzo-blog/internal/cache"
	"nobzo-blog/internal/pkg/jwtutil"
	"nobzo-blog/internal/repository"
	"nobzo-blog/internal/transport/http/handler"
	"nobzo-blog/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), middleware.Recovery(), cors.Default(), middleware.ErrorResponder())

	healthHandler := handler.NewHealthHandler(app)
	docsHandler := handler.NewDocsHandler()
	router.GET("/", docsHandler.Welcome)
	router.GET("/openapi.json", docsHandler.OpenAPI)
	router.GET("/reference", docsHandler.Reference)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	postRepo := repository.NewPostRepository(app.DB)
	authService := appsvc.NewAuthService(
		userRepo,
		cache.NewRevocationCache(app.Redis),
		jwtutil.NewManager(app.Config.Auth.JWTSecret),
	)
	postService := appsvc.NewPostService(postRepo, app.Events)
	authHandler := handler.NewAuthHandler(authService, app.Config.IsProduction())
	postHandler := handler.NewPostHandler(postService)

	requireAuth := middleware.RequireAuth(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := router.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", requireAuth, authHandler.Logout)

	postGroup := api.Group("/posts")
	postGroup.GET("", optionalAuth, postHandler.List)
	postGroup.POST("", requireAuth, postHandler.Create)
	postGroup.GET("/:slug", postHandler.GetBySlug)
	postGroup.PUT("/:id", requireAuth, postHandler.Update)
	postGroup.DELETE("/:id", requireAuth, postHandler.Delete)

	return router
}
