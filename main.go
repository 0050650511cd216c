package main

import (
	"fmt"
	"log"
	"os"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// MONGO_URI and REDIS_URL are deliberately optional: without them the
	// server comes up in local-only mode.
	envVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"REDIS_URL",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
		"SUGGESTIONS_API_KEY",
		"PORT",
	}

	log.Println("Environment variables:")
	for _, envVar := range envVars {
		if os.Getenv(envVar) == "" {
			log.Printf("%s: not set", envVar)
		} else {
			log.Printf("%s: set", envVar)
		}
	}

	if os.Getenv("JWT_SECRET_KEY") == "" && os.Getenv("GO_ENV") != "test" {
		log.Fatal("Required environment variable JWT_SECRET_KEY is not set")
	}

	utils.InitValidator()
	utils.InitJWT()

	dbCfg := config.LoadDatabaseConfig()
	utils.InitMongoClient(dbCfg.URI, dbCfg.MaxPoolSize, dbCfg.MinPoolSize, dbCfg.MaxConnIdleTime, dbCfg.RetryWrites)

	if utils.MongoClient != nil {
		if err := repository.SetupIndexes(utils.MongoClient.Database(dbCfg.DatabaseName)); err != nil {
			log.Printf("Index setup failed: %v", err)
		}
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	// Repositories are nil in local-only mode; every dependent path degrades
	// instead of crashing.
	var (
		userRepo    *repository.UserRepo
		habitsRepo  *repository.HabitsRepo
		sessionRepo *repository.SessionRepo
	)
	if utils.MongoClient != nil {
		userRepo = repository.GetUserRepo(utils.MongoClient)
		habitsRepo = repository.GetHabitsRepo(utils.MongoClient)
		sessionRepo = repository.GetSessionRepo(utils.MongoClient)
	}

	// Redis backs both the realtime change feed and the token blacklist.
	redisCfg := config.LoadRedisConfig()
	var feed services.Feed
	if utils.ValidStoreConfig(redisCfg.URL) {
		changeFeed, err := services.NewChangeFeed(redisCfg.URL)
		if err != nil {
			log.Printf("Change feed unavailable: %v", err)
		} else {
			feed = changeFeed
		}

		blacklist, err := services.NewTokenBlacklist(redisCfg.URL)
		if err != nil {
			log.Printf("Token blacklist unavailable: %v", err)
		} else {
			services.TokenBlacklist = blacklist
		}
	} else {
		log.Println("REDIS_URL is not set; realtime updates and token revocation disabled")
	}

	var remote services.RemoteHabits
	if habitsRepo != nil {
		remote = habitsRepo
	}
	stores := services.NewStoreManager(remote, feed, utils.SystemClock{})

	userService := &usecase.UserService{Repo: userRepo}
	habitsService := &usecase.HabitsService{Stores: stores}

	suggestionCfg := config.LoadSuggestionConfig()
	growth := services.NewGrowthService(suggestionCfg.APIKey)
	growth.Model = suggestionCfg.Model

	statsHandler := handler.NewStatsHandler(userRepo, sessionRepo, habitsService)

	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))
	router.Use(middleware.SessionMiddleware(sessionRepo))

	router.GET("/health", func(c *gin.Context) {
		handler.HealthHandler(c, stores)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				if userRepo == nil {
					utils.ServiceUnavailable(c, "Running in local-only mode; accounts are disabled")
					return
				}
				handler.RegistrationHandler(c, userService)
			})
			auth.POST("/login", func(c *gin.Context) {
				if userRepo == nil {
					utils.ServiceUnavailable(c, "Running in local-only mode; accounts are disabled")
					return
				}
				handler.LoginHandler(c, userService, sessionRepo)
			})
			auth.POST("/refresh", handler.RefreshTokenHandler)
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, userService)
			})
			user.POST("/change-password", func(c *gin.Context) {
				handler.ChangePasswordHandler(c, userRepo)
			})
			user.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, sessionRepo, stores)
			})
			user.GET("/stats", statsHandler.GetUserStats)
			user.DELETE("/delete", func(c *gin.Context) {
				handler.DeleteUserHandler(c, userRepo, habitsRepo, sessionRepo, stores)
			})
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessions(c, sessionRepo)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllSessions(c, sessionRepo, stores)
			})
		}

		habits := protected.Group("/habits")
		{
			habits.GET("", func(c *gin.Context) {
				handler.GetHabitsHandler(c, habitsService)
			})
			habits.POST("", func(c *gin.Context) {
				handler.CreateHabitHandler(c, habitsService)
			})
			habits.GET("/streak", func(c *gin.Context) {
				handler.GetMasterStreakHandler(c, habitsService)
			})
			habits.GET("/:id", func(c *gin.Context) {
				handler.GetHabitDetailHandler(c, habitsService)
			})
			habits.POST("/:id/close", func(c *gin.Context) {
				handler.CloseHabitDetailHandler(c, habitsService)
			})
			habits.PUT("/:id", func(c *gin.Context) {
				handler.UpdateHabitHandler(c, habitsService)
			})
			habits.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteHabitHandler(c, habitsService)
			})
			habits.POST("/:id/toggle", func(c *gin.Context) {
				handler.ToggleHabitHandler(c, habitsService)
			})
			habits.GET("/:id/streak", func(c *gin.Context) {
				handler.GetHabitStreakHandler(c, habitsService)
			})
			habits.GET("/:id/week", func(c *gin.Context) {
				handler.GetHabitWeekHandler(c, habitsService)
			})
		}

		analytics := protected.Group("/analytics")
		{
			analytics.GET("/month", func(c *gin.Context) {
				handler.GetMonthlyAnalyticsHandler(c, habitsService)
			})
			analytics.GET("/calendar", middleware.CacheControlMiddleware("3600"), func(c *gin.Context) {
				handler.GetCalendarGridHandler(c, habitsService)
			})
		}

		protected.POST("/suggestions", func(c *gin.Context) {
			handler.GetGrowthPlanHandler(c, habitsService, growth)
		})

		protected.GET("/admin/profiles", func(c *gin.Context) {
			if userRepo == nil {
				utils.ServiceUnavailable(c, "Running in local-only mode; accounts are disabled")
				return
			}
			handler.GetAllProfilesHandler(c, userRepo)
		})
	}

	return router
}

func main() {
	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
