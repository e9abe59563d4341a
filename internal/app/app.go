package app

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"tush00nka/marketplace_chat/internal/config"
	"tush00nka/marketplace_chat/internal/handler"
	"tush00nka/marketplace_chat/internal/pkg/auth"
	"tush00nka/marketplace_chat/internal/pkg/broker"
	"tush00nka/marketplace_chat/internal/pkg/telemetry"
	"tush00nka/marketplace_chat/internal/repository"
	"tush00nka/marketplace_chat/internal/service"
	"tush00nka/marketplace_chat/internal/ws"
)

const shutdownTimeout = 10 * time.Second

// Run wires the service from cfg and serves until SIGINT or SIGTERM.
// Redis, Kafka, S3 and tracing are optional and enabled by their settings.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auth.SetKey(cfg.JWTKey)

	shutdownTracing, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.OTELServiceName)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	db, err := repository.NewDB(cfg.DSN())
	if err != nil {
		return err
	}

	if cfg.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	var files service.FileStore
	if cfg.S3BucketName != "" {
		s3Service, err := service.NewS3Service(ctx, cfg)
		if err != nil {
			return err
		}
		if err := s3Service.HealthCheck(ctx); err != nil {
			log.Printf("s3: %v", err)
		}
		files = s3Service
	}

	var notifier service.Notifier = service.NopNotifier{}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		writer := broker.NewWriter(brokers, cfg.KafkaTopic)
		defer writer.Close()
		notifier = service.NewBrokerNotifier(writer)
		log.Printf("kafka: publishing notifications to %q", cfg.KafkaTopic)
	}

	hub := ws.NewHub()
	defer hub.Shutdown()

	var (
		presence service.Presence = hub
		hooks    ws.SessionHooks
		limiter  repository.RateLimiter
	)
	if rdb != nil {
		presenceService := service.NewPresenceService(repository.NewPresenceRepository(rdb))
		presence = presenceService
		hooks = presenceService
		limiter = repository.NewRateLimiter(rdb, cfg.WSRateLimit, cfg.WSRateWindow)
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	chatRepo := repository.NewChatRepository(db)

	userService := service.NewUserService(userRepo)
	chatService := service.NewChatService(chatRepo, productRepo, files)
	messageService := service.NewMessageService(service.MessageServiceDeps{
		Chats:     chatService,
		Messages:  repository.NewMessageRepository(db),
		Reactions: repository.NewReactionRepository(db),
		Products:  productRepo,
		Files:     files,
		Presence:  presence,
		Notifier:  notifier,
	})
	serializer := service.NewSerializer(files)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		hub.Collector(),
	)

	server := NewServer(ServerDeps{
		Users:       userService,
		UserHandler: handler.NewUserHandler(userService, serializer),
		ChatHandler: handler.NewChatHandler(chatService, messageService, files, serializer, hub),
		WSHandler: ws.NewHandler(ws.HandlerDeps{
			Hub:        hub,
			Upgrader:   ws.NewUpgrader(cfg.Origins(), cfg.IsDevelopment()),
			Auth:       ws.NewAuthenticator(userService),
			Chats:      chatService,
			Messages:   messageService,
			Serializer: serializer,
			Limiter:    limiter,
			Hooks:      hooks,
		}),
		Gatherer: registry,
		Origins:  cfg.Origins(),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run(cfg.ServerPort) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
