package router

import (
	"time"

	"rewardly/config"
	"rewardly/internal/handler"
	"rewardly/internal/middleware"
	"rewardly/internal/repository"
	"rewardly/internal/service"
	"rewardly/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Services
	referralSvc := service.NewReferralService(db, referralRepo, userRepo, accountRepo, settingRepo)
	authSvc := service.NewAuthService(cfg, userRepo, referralSvc)
	taskSvc := service.NewTaskService(db, taskRepo, accountRepo)
	redemptionSvc := service.NewRedemptionService(db, rewardRepo, accountRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	meHandler := handler.NewMeHandler(userRepo, accountRepo)
	taskHandler := handler.NewTaskHandler(taskSvc, taskRepo)
	rewardHandler := handler.NewRewardHandler(redemptionSvc, rewardRepo)
	referralHandler := handler.NewReferralHandler(referralSvc)
	adminHandler := handler.NewAdminHandler(taskSvc, taskRepo, settingRepo)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/tasks", authMw, taskHandler.List)
		api.POST("/tasks/:id/start", authMw, taskHandler.Start)
		api.POST("/assignments/:id/submit", authMw, taskHandler.Submit)
		api.POST("/assignments/:id/complete", authMw, taskHandler.Complete)

		api.GET("/rewards", authMw, rewardHandler.List)
		api.POST("/rewards/:id/redeem", authMw, rewardHandler.Redeem)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.GET("/points/transactions", meHandler.GetTransactions)
			me.GET("/assignments", taskHandler.ListMine)
			me.GET("/redemptions", rewardHandler.ListMine)
			me.GET("/referral-code", referralHandler.GetMyCode)
			me.POST("/referral-code/apply", referralHandler.ApplyCode)
			me.GET("/referrals", referralHandler.ListMine)
			me.POST("/upload/screenshot", uploadHandler.UploadScreenshot)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/submissions", adminHandler.ListSubmissions)
			admin.POST("/submissions/:id/review", adminHandler.Review)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
		}
	}

	return r
}
