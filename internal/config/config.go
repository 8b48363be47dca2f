package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Platform PlatformConfig
	Storage  StorageConfig
	Events   EventsConfig
	Hub      HubConfig
}

type AppConfig struct {
	Port               string
	Environment        AppEnv
	LogFilePath        string
	CorsAllowedOrigins string
	// PublicOrigin is used for referral links when the launch context carries
	// no usable origin of its own.
	PublicOrigin  string
	DefaultLocale string
	JWTSecret     string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PlatformConfig struct {
	TelegramBot   string
	ShareButton   string
	ShareImage    string
	CheckDelay    time.Duration
	DeviceIdleTTL time.Duration
}

type StorageConfig struct {
	Driver      string // "memory", "redis" or "postgres"
	RedisURL    string
	DatabaseDSN string
	TTL         time.Duration
}

type EventsConfig struct {
	NatsURL string
	Topic   string
}

type HubConfig struct {
	CallTimeout    time.Duration
	ClusterChannel string
	NotifyLogPath  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        ResolveAppEnv(os.Getenv("APP_ENV")),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/gateway.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			PublicOrigin:       getEnv("PUBLIC_ORIGIN", "http://localhost:5173"),
			DefaultLocale:      getEnv("DEFAULT_LOCALE", "ru"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_API_URL", "http://api:5000/"),
			Timeout: getEnvAsDuration("BACKEND_API_TIMEOUT", 10*time.Second),
		},
		Platform: PlatformConfig{
			TelegramBot:   getEnv("TELEGRAM_BOT_USERNAME", ""),
			ShareButton:   getEnv("TELEGRAM_SHARE_BUTTON", "Open"),
			ShareImage:    getEnv("TELEGRAM_SHARE_IMAGE", ""),
			CheckDelay:    getEnvAsDuration("TASK_CHECK_DELAY", 4*time.Second),
			DeviceIdleTTL: getEnvAsDuration("DEVICE_IDLE_TTL", 30*time.Minute),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "memory"),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
			DatabaseDSN: getEnv("DB_CONNECTION_STRING", ""),
			TTL:         getEnvAsDuration("STORAGE_TTL", 0),
		},
		Events: EventsConfig{
			NatsURL: getEnv("NATS_URL", "nats://localhost:4222"),
			Topic:   getEnv("EVENTS_TOPIC", "GATEWAY_EVENTS"),
		},
		Hub: HubConfig{
			CallTimeout:    getEnvAsDuration("BRIDGE_CALL_TIMEOUT", 15*time.Second),
			ClusterChannel: getEnv("HUB_CLUSTER_CHANNEL", "gateway_device_events"),
			NotifyLogPath:  getEnv("HUB_LOG_FILE_PATH", "logs/hub.log"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of
// milliseconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if ms := getEnvAsInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
