package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"snapnet/config"
	"snapnet/controllers"
	"snapnet/middleware"
	"snapnet/utils"
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
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		// Cookies are not sent cross-origin with a wildcard; explicit
		// origins are required in production.
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Uploaded images are served statically.
	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	RegisterAPI(api, db)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

// RegisterAPI attaches the user and post route groups to the given group.
// Split out of SetupRouter so tests can mount the API on a bare engine.
func RegisterAPI(api *gin.RouterGroup, db *gorm.DB) {
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)

	user := api.Group("/user")
	user.POST("/register", middleware.RateLimitMiddleware(), userController.Register)
	user.POST("/login", middleware.RateLimitMiddleware(), userController.Login)
	user.GET("/logout", userController.Logout)
	user.GET("/getUser", middleware.AuthRequired(), userController.GetUser)
	user.GET("/getAllUser", userController.GetAllUsers)
	user.POST("/update", middleware.AuthRequired(), userController.UpdateProfile)
	user.DELETE("/delete", middleware.AuthRequired(), userController.DeleteAccount)
	user.POST("/following/:followerId", middleware.AuthRequired(), userController.ToggleFollow)
	user.POST("/likePost/:postId", middleware.AuthRequired(), userController.LikePostRecord)

	post := api.Group("/post")
	post.Use(middleware.AuthRequired())
	post.POST("/create", postController.CreatePost)
	post.PUT("/update/:id", postController.UpdatePost)
	post.DELETE("/delete/:id", postController.DeletePost)
	post.POST("/comment/:postId", postController.CreateComment)
	post.PUT("/like/:id", postController.ToggleLike)
	post.GET("/all", postController.ListPosts)
}
