package router

import (
	"time"

	"shiftsync/config"
	"shiftsync/internal/domain"
	"shiftsync/internal/handler"
	"shiftsync/internal/middleware"
	"shiftsync/internal/repository"
	"shiftsync/internal/service"
	"shiftsync/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewSharedProfileRepository(db)
	sampleRepo := repository.NewSampleRepository(db)
	conflictRepo := repository.NewConflictRepository(db)
	geofenceRepo := repository.NewGeofenceRepository(db)

	trackHub := ws.NewTrackHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	ingestSvc := service.NewIngestService(sampleRepo, conflictRepo, cfg.Sync.ConflictWindow, cfg.Sync.MaxBatchSize, log)
	conflictSvc := service.NewConflictService(conflictRepo, log)
	geofenceSvc := service.NewGeofenceService(geofenceRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	syncHandler := handler.NewSyncHandler(ingestSvc, conflictSvc, geofenceSvc, trackHub)
	geofenceHandler := handler.NewGeofenceHandler(geofenceRepo, geofenceSvc)
	employeeHandler := handler.NewEmployeeHandler(userRepo, profileRepo)
	meHandler := handler.NewMeHandler(userRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authMw, adminMw, authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		api.GET("/me/profile", authMw, meHandler.GetProfile)

		sync := api.Group("/sync")
		sync.Use(authMw)
		{
			sync.POST("/batch-upload", syncHandler.BatchUpload)
			sync.GET("/status/:employee_id", syncHandler.Status)
			sync.GET("/conflicts/:employee_id", syncHandler.ListConflicts)
			sync.POST("/conflicts/:id/resolve", adminMw, syncHandler.ResolveConflict)
			sync.POST("/conflicts/:id/reject", adminMw, syncHandler.RejectConflict)
		}

		geofences := api.Group("/geofences")
		geofences.Use(authMw)
		{
			geofences.POST("/check", geofenceHandler.Check)
			geofences.GET("", adminMw, geofenceHandler.List)
			geofences.POST("", adminMw, geofenceHandler.Create)
			geofences.PUT("/:id", adminMw, geofenceHandler.Update)
			geofences.DELETE("/:id", adminMw, geofenceHandler.Delete)
		}

		admin := api.Group("")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/employees", employeeHandler.List)
			admin.PATCH("/employees/:id/profile", employeeHandler.AssignProfile)
			admin.GET("/shared-profiles", employeeHandler.ListProfiles)
			admin.POST("/shared-profiles", employeeHandler.CreateProfile)
		}
	}

	r.GET("/ws/track", ws.UpgradeTrackWS(&cfg.JWT, trackHub))

	return r
}
