package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"gatescore-service/internal/cache"
	"gatescore-service/internal/db"
	"gatescore-service/internal/event"
	"gatescore-service/internal/fetcher"
	"gatescore-service/internal/handlers"
	"gatescore-service/internal/normalize"
	"gatescore-service/internal/rank"
	"gatescore-service/internal/repository"
	"gatescore-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)
	database := db.Client.Database("gatescore_service")

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, domain events will not be published")
	}

	// Slots
	slotRepo := repository.NewSlotRepository(database)
	slotService := service.NewSlotService(slotRepo)
	slotHandler := handlers.NewSlotHandler(slotService)

	// Answer keys
	keyRepo := repository.NewAnswerKeyRepository(database)
	keyService := service.NewAnswerKeyService(keyRepo, slotRepo)
	keyHandler := handlers.NewAnswerKeyHandler(keyService)

	// Candidate scores and cohort statistics
	scoreRepo := repository.NewScoreRepository(database)
	var stats normalize.CohortStats = scoreRepo
	var invalidator service.StatsInvalidator
	if redisURI := os.Getenv("REDIS_URI"); redisURI != "" {
		opt, err := redis.ParseURL(redisURI)
		if err != nil {
			log.Fatalf("Invalid REDIS_URI: %v", err)
		}
		statsCache := cache.NewStatsCache(redis.NewClient(opt), scoreRepo)
		stats = statsCache
		invalidator = statsCache
	} else {
		log.Println("Redis not configured, cohort aggregates are read directly")
	}

	// Rank reference data
	table := rank.DefaultTable
	if path := os.Getenv("RANK_TABLE_PATH"); path != "" {
		var err error
		table, err = rank.LoadTable(path)
		if err != nil {
			log.Fatalf("Failed to load rank table: %v", err)
		}
	}

	departments := normalize.DefaultDepartments
	if env := os.Getenv("NORMALIZED_DEPARTMENTS"); env != "" {
		departments = strings.Split(env, ",")
	}

	predictService := &service.PredictService{
		Slots:    slotRepo,
		Keys:     keyRepo,
		Cohort:   scoreRepo,
		Stats:    stats,
		Cache:    invalidator,
		Adapter:  fetcher.NewSheetClient(),
		Norm:     normalize.NewEngine(departments),
		Table:    table,
		Resolver: rank.NewResolver(scoreRepo),
	}
	if publisher != nil {
		predictService.Events = publisher
		keyService.Events = publisher
	}
	predictHandler := handlers.NewPredictHandler(predictService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes
	publicGate := r.Group("/public/gate")
	{
		publicGate.GET("/slot", slotHandler.ListSlots)
		publicGate.GET("/answerkey", keyHandler.GetKey)
	}

	// Protected routes - gateway forwards the authenticated user id
	protectedGate := r.Group("/protected/gate")
	protectedGate.Use(func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	})
	{
		protectedGate.POST("/slot", slotHandler.CreateSlot)
		protectedGate.PUT("/slot/:id", slotHandler.UpdateSlot)
		protectedGate.POST("/answerkey", keyHandler.UploadKey)
		protectedGate.POST("/predict", predictHandler.Predict)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8086"
	}
	r.Run(":" + port)
}
