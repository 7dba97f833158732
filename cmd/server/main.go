package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/adamyamd/Missionary-Trainer-ENG/config"
	"github.com/adamyamd/Missionary-Trainer-ENG/controllers"
	"github.com/adamyamd/Missionary-Trainer-ENG/routes"
	"github.com/adamyamd/Missionary-Trainer-ENG/services"
	"github.com/adamyamd/Missionary-Trainer-ENG/sheets"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Local runs keep secrets in .env; hosted runs set them directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := services.InitTrainerService(cfg); err != nil {
		log.Fatalf("Failed to initialize trainer service: %v", err)
	}

	// The sheet is best effort: without a credential the app still runs,
	// rounds are just not persisted.
	var sink controllers.RowAppender
	if realSink, err := sheets.NewSink(context.Background(), cfg); err != nil {
		log.Printf("Sheet persistence disabled: %v", err)
	} else {
		sink = realSink
	}

	sessionService := services.GetSessionService(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	sessionController := &controllers.SessionController{Sessions: sessionService}
	roundController := &controllers.RoundController{
		Sessions:  sessionService,
		Evaluator: &services.TrainerService{},
		Sink:      sink,
	}

	router := setupRouter(sessionController, roundController)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(sessionController *controllers.SessionController, roundController *controllers.RoundController) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupTrainerRoutes(router, sessionController, roundController)

	return router
}
