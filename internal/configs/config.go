package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type RESTconfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	// Запросов в минуту с одного IP
	RecommendRateLimit int
	AuthRateLimit      int
}

type StorageConfig struct {
	Driver string
}

type DBconfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	QueryTTL time.Duration
}

type RabbitMQConfig struct {
	Enabled    bool
	URL        string
	Exchange   string
	RoutingKey string
}

type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

type StdoutLogConfig struct {
	Level    string
	UseColor bool
	JSON     bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
	Tag     string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Rest         RESTconfig
	Storage      StorageConfig
	Database     DBconfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	JWT          JWTConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// loadEnvFile подгружает .env в окружение процесса. Отсутствие файла не ошибка,
// уже заданные переменные окружения не перезаписываются.
func loadEnvFile(envPath []string) error {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: .env file not found (path: %v), using process environment.\n", envPath)
	}
	return nil
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения.
// Переменные окружения имеют приоритет над .env.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	if err := loadEnvFile(envPath); err != nil {
		return nil, err
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "marketplace-service")

	cfg.Rest.Port = getEnvAsString("PORT", "8080")
	cfg.Rest.ReadTimeout = getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.Rest.WriteTimeout = getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second)
	cfg.Rest.ShutdownTimeout = getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"})
	cfg.Rest.RecommendRateLimit = getEnvAsInt("RECOMMEND_RATE_LIMIT", 30)
	cfg.Rest.AuthRateLimit = getEnvAsInt("AUTH_RATE_LIMIT", 20)

	if err := loadStorage(cfg); err != nil {
		return nil, err
	}
	loadRedis(cfg)

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			log.Println("WARNING: RABBITMQ_ENABLED is true, but RABBITMQ_URL is not set. Disabling event publishing.")
			cfg.RabbitMQ.Enabled = false
		}
		cfg.RabbitMQ.Exchange = getEnvAsString("RABBITMQ_EXCHANGE", "marketplace.events")
		cfg.RabbitMQ.RoutingKey = getEnvAsString("RABBITMQ_RECOMMENDATION_ROUTING_KEY", "recommendation.created")
	}

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWT.Issuer = getEnvAsString("JWT_ISSUER", cfg.AppName)
	cfg.JWT.AccessTokenTTL = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 7*24*time.Hour)

	loadLogging(cfg)

	return cfg, nil
}

// LoadCLIConfig - конфигурация для утилит командной строки: только хранилище, кэш и логирование.
func LoadCLIConfig(envPath ...string) (*AppConfig, error) {
	if err := loadEnvFile(envPath); err != nil {
		return nil, err
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "marketplace-cli")
	if err := loadStorage(cfg); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver != StorageDriverPostgres {
		return nil, fmt.Errorf("command line tools require the %q storage driver", StorageDriverPostgres)
	}
	loadRedis(cfg)
	loadLogging(cfg)
	return cfg, nil
}

func loadStorage(cfg *AppConfig) error {
	cfg.Storage.Driver = strings.ToLower(getEnvAsString("STORAGE_DRIVER", StorageDriverPostgres))
	switch cfg.Storage.Driver {
	case StorageDriverPostgres:
		cfg.Database.URL = os.Getenv("DATABASE_URL")
		if cfg.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for the postgres storage driver")
		}
		cfg.Database.MaxConns = int32(getEnvAsInt("DATABASE_MAX_CONNS", 0))
		cfg.Database.MinConns = int32(getEnvAsInt("DATABASE_MIN_CONNS", 0))
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (expected %q or %q)", cfg.Storage.Driver, StorageDriverPostgres, StorageDriverMemory)
	}
	return nil
}

func loadRedis(cfg *AppConfig) {
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	if cfg.Redis.Enabled {
		cfg.Redis.Addr = getEnvAsString("REDIS_ADDR", "localhost:6379")
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
		cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)
		cfg.Redis.QueryTTL = getEnvAsDuration("REDIS_QUERY_TTL", time.Minute)
	}
}

func loadLogging(cfg *AppConfig) {
	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
		cfg.FluentBit.Tag = getEnvAsString("FLUENTBIT_TAG", cfg.AppName)
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.UseColor = getEnvAsBool("STDOUT_LOG_COLOR", true)
	cfg.StdoutLogger.JSON = getEnvAsBool("STDOUT_LOG_JSON", false)
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration понимает формат time.ParseDuration ("30s", "15m", "168h").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil || d <= 0 {
		log.Printf("Warning: Environment variable %s (value: %s) is not a positive duration. Using default value: %s\n", key, valStr, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList читает список через запятую.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
