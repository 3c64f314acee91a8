package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"lexchat/internal/config"
	"lexchat/internal/db"
	apihttp "lexchat/internal/http"
	"lexchat/internal/llm"
	"lexchat/internal/repository"
	"lexchat/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	lawyerRepo := repository.NewPgLawyerRepository(pool)

	provider := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, logger)

	locker := service.NewMemorySessionLocker()
	rateWindow := time.Duration(cfg.ChatRateWindow) * time.Second
	var limiter service.ChatRateLimiter = service.NewMemoryChatRateLimiter(rateWindow, cfg.ChatRateMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory lock and limiter", zap.Error(err))
		} else {
			locker = service.NewRedisSessionLocker(redisClient, 2*time.Minute)
			limiter = service.NewRedisChatRateLimiter(redisClient, rateWindow, cfg.ChatRateMax)
		}
		cancel()
	}

	historySvc := service.NewBasicHistoryService(messageRepo, cfg.HistoryWindow)
	chatSvc := service.NewChatService(
		logger,
		sessionRepo,
		messageRepo,
		historySvc,
		provider,
		locker,
		service.NewChatCapability(cfg.LLMModel),
	)
	advisorySvc := service.NewAdvisoryService(
		logger,
		provider,
		service.NewSummaryCapability(cfg.LLMSummaryModel),
		service.NewSchemeCapability(cfg.LLMModel),
	)

	jwtSvc := service.NewJWTService(cfg.JWTSecret, 15*time.Minute)

	chatHandler := apihttp.NewChatHandler(logger, chatSvc, limiter)
	sessionHandler := apihttp.NewSessionHandler(logger, sessionRepo, messageRepo)
	lawyerHandler := apihttp.NewLawyerHandler(logger, lawyerRepo)
	advisoryHandler := apihttp.NewAdvisoryHandler(logger, advisorySvc)

	router := apihttp.NewRouter(
		logger,
		apihttp.JWTAuthMiddleware(jwtSvc),
		chatHandler,
		sessionHandler,
		lawyerHandler,
		advisoryHandler,
		pingFunc(pool),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func pingFunc(pool *pgxpool.Pool) apihttp.Pinger {
	return func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	}
}
