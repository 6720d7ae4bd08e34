package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/database"
	"github.com/iliyamo/fitness-tracker/internal/handler"
	"github.com/iliyamo/fitness-tracker/internal/middleware"
	"github.com/iliyamo/fitness-tracker/internal/queue"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/router"
)

func main() {
	_ = godotenv.Load() // best effort; real deployments set env directly

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it rate limiting is disabled and OAuth
	// state falls back to process-local storage.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	workouts := repository.NewWorkoutRepo(db)
	states := repository.NewOAuthStateRepo(rdb)

	authHandler := handler.NewAuthHandler(cfg, users)
	githubHandler := handler.NewGitHubHandler(cfg, users, states)
	userHandler := handler.NewUserHandler(users)
	workoutHandler := handler.NewWorkoutHandler(workouts, users)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, githubHandler, cfg.JWTSecret)
	router.RegisterUsers(e, userHandler, cfg.JWTSecret)
	router.RegisterWorkouts(e, workoutHandler, cfg.JWTSecret)

	// Background consumer keeps its own connection and reconnect loop.
	go func() {
		if err := queue.StartWorkoutConsumer(); err != nil {
			log.Printf("workout consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
