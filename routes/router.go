package routes

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/fotos/assetcache"
	"github.com/cppla/fotos/config"
	"github.com/cppla/fotos/controllers"
	"github.com/cppla/fotos/middleware"
	"github.com/cppla/fotos/notify"
	"github.com/cppla/fotos/store"
	"github.com/cppla/fotos/themes"
	"github.com/cppla/fotos/utils"
)

// Dependencies are the session owned components the HTTP layer works on.
type Dependencies struct {
	Config   config.AppConfig
	Photos   *store.Collection
	Themes   *themes.State
	Notifier notify.Notifier
	Feed     *notify.Feed
	Hub      *notify.Hub
	Assets   *assetcache.Cache
	Logger   *zap.Logger
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Access log goes to its own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, utils.RotationConfig{
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		logger.Warn("gin access log unavailable", zap.Error(err))
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	fetcher := assetcache.FileFetcher{Dir: cfg.StaticDir}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok", "photos": deps.Photos.Len()})
	})

	photoController := controllers.NewPhotoController(deps.Photos, deps.Notifier, cfg.MaxImageBytes, cfg.Location(), logger)
	statsController := controllers.NewStatsController(deps.Photos)
	transferController := controllers.NewTransferController(deps.Photos, deps.Notifier, logger)
	themeController := controllers.NewThemeController(deps.Themes, deps.Notifier, logger)
	notificationController := controllers.NewNotificationController(deps.Feed, deps.Hub)

	limited := middleware.RateLimitMiddleware(cfg.RateLimitPerMinute)

	api := r.Group("/api/v1")

	photos := api.Group("/photos")
	photos.GET("", photoController.ListPhotos)
	photos.POST("", limited, photoController.AddPhoto)
	photos.GET("/:id", photoController.GetPhoto)
	photos.DELETE("/:id", photoController.DeletePhoto)
	photos.POST("/:id/exhibition", photoController.ScheduleExhibition)
	photos.DELETE("/:id/exhibition", photoController.ReturnHome)

	api.GET("/stats", statsController.GetStats)

	api.GET("/export", transferController.ExportJSON)
	api.GET("/export/pdf", transferController.ExportPDF)
	api.POST("/import", limited, transferController.ImportJSON)

	api.GET("/themes", themeController.ListThemes)
	api.PUT("/themes/current", themeController.ApplyTheme)

	api.GET("/notifications", notificationController.ListNotifications)
	api.DELETE("/notifications/:id", notificationController.DismissNotification)
	api.GET("/ws", notificationController.Stream)

	// Everything that is not API is a UI asset: cache first, then the static dir
	var fallback []gin.HandlerFunc
	if deps.Assets != nil {
		fallback = append(fallback, deps.Assets.Middleware())
	}
	fallback = append(fallback, func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if fetcher.Exists(path) {
			fetcher.ServeHTTP(ctx.Writer, ctx.Request)
			return
		}
		// asset-like paths are real misses; anything else falls back to the SPA
		if filepath.Ext(path) != "" {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		ctx.Request.URL.Path = "/"
		fetcher.ServeHTTP(ctx.Writer, ctx.Request)
	})
	r.NoRoute(fallback...)

	return r
}
