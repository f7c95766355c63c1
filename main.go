package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ze-club-system/config"
	"ze-club-system/handlers"
	"ze-club-system/middleware"
	"ze-club-system/models"
	"ze-club-system/services"
	"ze-club-system/utils"
	"ze-club-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // media uploads
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// Only Gateway requests allowed, no exceptions
	app.Use(middleware.GatewayAuthMiddleware(cfg.Server.GatewayToken))

	allowedOriginsList := strings.Split(cfg.Server.AllowedOrigins, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-User-Name",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get database handle:", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := models.Migrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitR2(); err != nil {
		log.Printf("R2 not configured, uploads fall back to local disk: %v", err)
		if err := os.MkdirAll("uploads", os.ModePerm); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	userService := services.NewUserService(db)
	submissionService := services.NewSubmissionService(db)
	leaderboardService := services.NewLeaderboardService(db, rdb)
	ledgerService := services.NewLedgerService(db, leaderboardService)
	redemptionService := services.NewRedemptionService(db, leaderboardService)
	missionService := services.NewMissionService(db)
	rewardService := services.NewRewardService(db)
	eventService := services.NewEventService(db)
	contentService := services.NewContentService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workers.SyncLeaderboard(ctx, leaderboardService, 30*time.Second)

	sched, err := services.StartScheduler(eventService, missionService)
	if err != nil {
		log.Fatal("failed to start scheduler:", err)
	}

	handlers.SetupPublicRoutes(app, eventService, contentService, leaderboardService)
	handlers.SetupClubRoutes(app, userService, submissionService, redemptionService)
	handlers.SetupAdminRoutes(app, handlers.AdminDeps{
		Users:       userService,
		Missions:    missionService,
		Submissions: submissionService,
		Ledger:      ledgerService,
		Rewards:     rewardService,
		Redemptions: redemptionService,
		Events:      eventService,
		Content:     contentService,
	})

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server running on http://localhost:%d", cfg.Server.Port)
	log.Println("Leaderboard sync running (every 30s)")
	log.Println("GatewayAuthMiddleware enforced globally, all requests must come from Gateway")
	log.Printf("CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
}
