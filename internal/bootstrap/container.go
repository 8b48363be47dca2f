package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"miniapp-gateway/internal/backend"
	"miniapp-gateway/internal/config"
	"miniapp-gateway/internal/controller"
	"miniapp-gateway/internal/handler"
	"miniapp-gateway/internal/i18n"
	"miniapp-gateway/internal/pkg/logger"
	"miniapp-gateway/internal/referral"
	"miniapp-gateway/internal/repository/contract"
	"miniapp-gateway/internal/repository/implementation"
	"miniapp-gateway/internal/repository/memory"
	redisRepo "miniapp-gateway/internal/repository/redis"
	"miniapp-gateway/internal/service"
	"miniapp-gateway/internal/share"
	"miniapp-gateway/internal/websocket"
	"miniapp-gateway/pkg/database"
	pktNats "miniapp-gateway/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	ShareController   controller.IShareController
	TaskController    controller.ITaskController
	SocialController  controller.ISocialController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	BridgeHandler *handler.BridgeHandler
	WebSocketHub  *websocket.Hub
	Registry      *service.DeviceRegistry

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment.IsProdLike())
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var relay service.EventRelay
	natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		relay = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// Redis
	driver := strings.ToLower(cfg.Storage.Driver)
	rdb := newRedis(ctx, cfg)
	if rdb == nil && driver == "redis" {
		c.Close()
		return nil, fmt.Errorf("storage driver redis needs a reachable REDIS_URL")
	}
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	storage, err := c.newStorage(driver, cfg, rdb)
	if err != nil {
		c.Close()
		return nil, err
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.Hub.NotifyLogPath)
	wsHub := websocket.NewHub(rdb, wsLogger, cfg.Hub.CallTimeout).UseChannel(cfg.Hub.ClusterChannel)
	go wsHub.Run(ctx)

	// 4. Services
	apiClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	notifications := service.NewNotificationService(wsHub, wsLogger)
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Events.Topic,
		relay,
		notifications,
		sysLogger,
	)

	registry := service.NewDeviceRegistry(service.RuntimeDeps{
		Hub: wsHub,
		Backend: func(tokens backend.TokenSource) service.BackendAPI {
			return apiClient.WithTokenSource(tokens)
		},
		Storage:       storage,
		Notifications: notifications,
		Publisher:     publisherService,
		Referral: referral.Builder{
			Origin:      cfg.App.PublicOrigin,
			TelegramBot: cfg.Platform.TelegramBot,
		},
		ShareOptions: share.Options{
			Button: cfg.Platform.ShareButton,
			Image:  cfg.Platform.ShareImage,
		},
		CheckDelay:    cfg.Platform.CheckDelay,
		DefaultLocale: i18n.Match(cfg.App.DefaultLocale),
		Logger:        sysLogger,
	}, cfg.Platform.DeviceIdleTTL)

	// 5. Controllers
	c.SessionController = controller.NewSessionController(service.NewSessionService(registry))
	c.ShareController = controller.NewShareController(service.NewShareService(registry))
	c.TaskController = controller.NewTaskController(service.NewTaskService(registry))
	c.SocialController = controller.NewSocialController(service.NewSocialService(registry))
	c.BridgeHandler = handler.NewBridgeHandler(wsHub, wsLogger)
	c.WebSocketHub = wsHub
	c.Registry = registry
	c.ConsumerService = consumerService

	sysLogger.Info("Container", "Gateway wired", map[string]interface{}{
		"storage": driver,
		"nats":    relay != nil,
		"cluster": rdb != nil,
	})
	return c, nil
}

// Close releases the connections opened by NewContainer, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

// newRedis returns nil when Redis cannot be reached; the hub then runs
// without cluster fan-out.
func newRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	opt, err := redis.ParseURL(cfg.Storage.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.Storage.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func (c *Container) newStorage(driver string, cfg *config.Config, rdb *redis.Client) (contract.DeviceStorageRepository, error) {
	switch driver {
	case "", "memory":
		return memory.NewDeviceStorageRepository(cfg.Storage.TTL), nil
	case "redis":
		return redisRepo.NewDeviceStorageRepository(rdb, cfg.Storage.TTL), nil
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Storage.DatabaseDSN, cfg.App.Environment.IsNonProd())
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, func() { _ = sqlDB.Close() })
		}
		return implementation.NewDeviceStorageRepository(db), nil
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
}
