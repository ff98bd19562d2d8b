package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/goshala/goshala/config"
	"github.com/goshala/goshala/controllers"
	"github.com/goshala/goshala/middleware"
	"github.com/goshala/goshala/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with a file-based zap access log
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	forumController := controllers.NewForumController(db)
	commentController := controllers.NewCommentController(db)

	// Forum surface. Reads are public; writes go through the auth guard.
	forum := r.Group("/forum")
	forum.GET("/categories", forumController.ListCategories)
	forum.GET("/posts", forumController.ListPosts)
	forum.GET("/posts/:id", forumController.GetPost)

	forumProtected := forum.Group("")
	forumProtected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	forumProtected.POST("/posts", forumController.CreatePost)
	forumProtected.PUT("/posts/:id", forumController.UpdatePost)
	forumProtected.DELETE("/posts/:id", forumController.DeletePost)
	forumProtected.POST("/posts/:id/like", forumController.TogglePostLike)
	forumProtected.POST("/posts/:id/comments", commentController.CreateComment)
	forumProtected.PUT("/comments/:id", commentController.UpdateComment)
	forumProtected.DELETE("/comments/:id", commentController.DeleteComment)
	forumProtected.POST("/comments/:id/like", commentController.ToggleCommentLike)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	api.GET("/users/:id", authController.GetUserPublic)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/upload", forumController.UploadAttachment)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		utils.Error(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
