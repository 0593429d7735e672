package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prajwalts/interviewdost/internal/config"
	"github.com/prajwalts/interviewdost/internal/domain/fiber/handler"
	"github.com/prajwalts/interviewdost/internal/middleware"
	"github.com/prajwalts/interviewdost/internal/model"
	"github.com/prajwalts/interviewdost/internal/repository"
	"github.com/prajwalts/interviewdost/internal/service"
	"github.com/prajwalts/interviewdost/internal/usecase"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	tavus := service.NewTavusService()
	gemini := service.NewGeminiService(ctx)

	profileUc := usecase.NewProfileUsecase(userRepo, skillRepo, gemini)
	userUc := usecase.NewUserUsecase(userRepo, skillRepo)
	interviewUc := usecase.NewInterviewUsecase(interviewRepo, userRepo, profileUc, tavus, gemini)

	handler.NewInterviewHandler(interviewUc).RegisterRoutes(app)
	handler.NewUserHandler(userUc, profileUc).RegisterRoutes(app)
	handler.NewProfileHandler(profileUc).RegisterRoutes(app)
	handler.NewAuthHandler(userUc).RegisterRoutes(app)

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	// pgvector must exist before the users table migrates its embedding column.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("could not enable pgvector extension: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.UserSkill{},
		&model.Interview{},
		&model.Question{},
		&model.Answer{},
		&model.Feedback{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}

	// Skill names are unique ignoring case; AutoMigrate's column index is
	// case-sensitive, so the guard lives in a functional index.
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_skills_skill_name_ci ON skills (LOWER(skill_name))").Error; err != nil {
		log.Fatalf("could not create skill name index: %v", err)
	}
	return db
}
