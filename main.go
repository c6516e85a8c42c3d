package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"quiz-engine/internal/cache"
	"quiz-engine/internal/catalog"
	"quiz-engine/internal/config"
	"quiz-engine/internal/db"
	"quiz-engine/internal/engine"
	"quiz-engine/internal/event"
	"quiz-engine/internal/handlers"
	"quiz-engine/internal/repository"
	"quiz-engine/internal/service"
	"quiz-engine/internal/store"
	"quiz-engine/pkg/discovery"
)

func main() {
	cfg := config.Load()
	if cfg.Mongo.URI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(cfg.Mongo.URI)

	// RabbitMQ event publisher; nil publisher is a silent no-op.
	var publisher *event.EventPublisher
	if cfg.Rabbit.URI != "" && cfg.Rabbit.Exchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.Rabbit.URI, cfg.Rabbit.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, attempt events will not be published")
	}

	// Redis quiz cache, optional.
	var quizCache *cache.QuizCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		quizCache = cache.NewQuizCache(client, cfg.Redis.QuizTTL)
	} else {
		log.Println("Redis not configured, quiz cache disabled")
	}

	// Language/topic catalog: static configuration, loaded once.
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		loaded, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		cat = loaded
	}

	documents := store.NewMongoStore(db.Client.Database(cfg.Mongo.Database))

	quizRepo := repository.NewQuizRepository(documents)
	attemptRepo := repository.NewAttemptRepository(documents)
	statusRepo := repository.NewStatusRepository(documents)

	quizService := service.NewQuizService(quizRepo, quizCache, cat)
	attemptService := service.NewAttemptService(quizService, attemptRepo, statusRepo, publisher, engine.RealClock())
	resultService := service.NewResultService(attemptRepo, quizService)

	quizHandler := handlers.NewQuizHandler(quizService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	resultHandler := handlers.NewResultHandler(resultService)
	catalogHandler := handlers.NewCatalogHandler(cat)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-User-ID", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	publicQuiz := r.Group("/public/quiz")
	{
		publicQuiz.GET("/", quizHandler.ListQuizzes)
		publicQuiz.GET("/:id", quizHandler.GetQuiz)
	}

	publicUser := r.Group("/public/user")
	{
		publicUser.GET("/:id/results", resultHandler.GetAttemptsByUser)
	}

	publicCatalog := r.Group("/public/catalog")
	{
		publicCatalog.GET("/", catalogHandler.ListLanguages)
		publicCatalog.GET("/:language", catalogHandler.ListTopics)
	}

	// Protected routes trust the X-User-ID header set by the upstream auth
	// gateway; this service never authenticates on its own.
	protectedQuiz := r.Group("/protected/quiz")
	protectedQuiz.Use(requireUser())
	{
		protectedQuiz.POST("/", quizHandler.CreateQuiz)
		protectedQuiz.PUT("/:id", quizHandler.UpdateQuiz)
		protectedQuiz.DELETE("/:id", quizHandler.DeleteQuiz)
	}

	protectedAttempt := r.Group("/protected/attempt")
	protectedAttempt.Use(requireUser())
	{
		protectedAttempt.POST("/", attemptHandler.StartAttempt)
		protectedAttempt.GET("/:id", attemptHandler.Progress)
		protectedAttempt.PUT("/:id/answer", attemptHandler.SelectAnswer)
		protectedAttempt.POST("/:id/submit", attemptHandler.Submit)
		protectedAttempt.POST("/:id/retry", attemptHandler.RetryPersist)
		protectedAttempt.GET("/:id/result", resultHandler.GetReview)
	}

	protectedStatus := r.Group("/protected/status")
	protectedStatus.Use(requireUser())
	{
		protectedStatus.GET("/:quizId", attemptHandler.AggregateStatus)
	}

	if cfg.Consul.Address != "" {
		registry, err := discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Fatalf("Failed to create Consul registry: %v", err)
		}
		if err := registry.Register(); err != nil {
			log.Fatalf("Failed to register with Consul: %v", err)
		}
		defer registry.Deregister()
	}

	r.Run(":" + cfg.Server.Port)
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
