package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golazo.app/penaltyduel/internal/config"
	"golazo.app/penaltyduel/internal/handler"
	"golazo.app/penaltyduel/internal/middleware"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/internal/repository"
	"golazo.app/penaltyduel/internal/service"
	"golazo.app/penaltyduel/pkg/database"
	"golazo.app/penaltyduel/pkg/storage"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx := context.Background()

	achievementRepo := repository.NewAchievementRepository(db)
	if err := achievementRepo.SeedCatalog(ctx, model.DefaultAchievements); err != nil {
		log.Fatalf("failed to seed achievement catalog: %v", err)
	}
	catalog, err := achievementRepo.ListCatalog(ctx)
	if err != nil {
		log.Fatalf("failed to load achievement catalog: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable, live notifications and rate limiting disabled: %v", err)
			redisClient = nil
		}
	}

	var searchClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		searchClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary unavailable, avatar upload disabled: %v", err)
		imageStorage = nil
	}

	txm := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	searchService := service.NewSearchService(searchClient, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, redisClient)
	achievementService := service.NewAchievementService(achievementRepo, catalog, cfg.AchievementRewardPoints)
	authService := service.NewAuthService(userRepo, matchRepo, searchService, cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	matchService := service.NewMatchService(txm, matchRepo, statsRepo, userRepo, achievementService, notificationService, redisClient, cfg.RateLimitChallenge)
	profileService := service.NewProfileService(userRepo, statsRepo, imageStorage, searchService)
	leaderboardService := service.NewLeaderboardService(statsRepo)
	adminService := service.NewAdminService(userRepo, statsRepo, searchService)

	authHandler := handler.NewAuthHandler(authService)
	matchHandler := handler.NewMatchHandler(matchService)
	profileHandler := handler.NewProfileHandler(profileService, searchService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	achievementHandler := handler.NewAchievementHandler(achievementService)
	notificationHandler := handler.NewNotificationHandler(notificationService, redisClient)
	adminHandler := handler.NewAdminHandler(adminService)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.GET("/players/:username/stats", profileHandler.GetPlayerStats)
	}

	api.Use(authMiddleware.RequireAuth())
	{
		api.POST("/matches", matchHandler.CreateMatch)
		api.GET("/matches", matchHandler.ListMatches)
		api.GET("/matches/:id", matchHandler.GetMatch)
		api.POST("/matches/:id/moves", matchHandler.SubmitMoves)
		api.DELETE("/matches/:id", matchHandler.CancelMatch)
		api.POST("/matches/:id/decline", matchHandler.DeclineMatch)
		api.POST("/matches/join/:token", matchHandler.JoinByInviteToken)

		profile := api.Group("/profile")
		{
			profile.GET("/me", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
			profile.POST("/avatar", profileHandler.UploadAvatar)
			profile.GET("/me/stats", profileHandler.GetMyStats)
		}

		api.GET("/search/players", profileHandler.SearchPlayers)

		achievements := api.Group("/achievements")
		{
			achievements.GET("", achievementHandler.ListAchievements)
			achievements.GET("/badge", achievementHandler.GetActiveBadge)
			achievements.PUT("/badge", achievementHandler.SetActiveBadge)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
			notifications.GET("/ws", notificationHandler.HandleWebSocket)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/blocked", adminHandler.SetBlocked)
			admin.POST("/users/:id/stats/reset", adminHandler.ResetStats)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserStats{},
		&model.Match{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.ActiveBadge{},
		&model.Notification{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("is_admin = ?", true).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     "admin",
		Email:        "admin@penaltyduel.local",
		PasswordHash: string(hashed),
		Language:     "en",
		IsAdmin:      true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("seeded development admin user")
	return nil
}
