package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	NotifyBackendRedis = "redis"
	NotifyBackendLog   = "log"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string

	// Ledger
	LockTimeout        time.Duration `mapstructure:"LOCK_TIMEOUT"`
	MaxCheckAllocation int           `mapstructure:"MAX_CHECK_ALLOCATION"`

	// HTTP
	RateLimit          string   `mapstructure:"RATE_LIMIT"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MigrationsPath     string   `mapstructure:"MIGRATIONS_PATH"`

	// Notifications
	NotifyBackend     string `mapstructure:"NOTIFY_BACKEND"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	NotifyQueuePrefix string `mapstructure:"NOTIFY_QUEUE_PREFIX"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "trust-ledger")
	v.SetDefault("LOCK_TIMEOUT", "5s")
	v.SetDefault("MAX_CHECK_ALLOCATION", 500)
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("NOTIFY_BACKEND", NotifyBackendLog)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NOTIFY_QUEUE_PREFIX", "trust:notifications")

	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = v.GetString("JWT_ISSUER")

	lockTimeoutStr := v.GetString("LOCK_TIMEOUT")
	lockTimeout, err := time.ParseDuration(lockTimeoutStr)
	if err != nil || lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for LOCK_TIMEOUT ('%s'). Defaulting to %s.\n", lockTimeoutStr, lockTimeout)
	}
	cfg.LockTimeout = lockTimeout

	cfg.MaxCheckAllocation = v.GetInt("MAX_CHECK_ALLOCATION")
	if cfg.MaxCheckAllocation <= 0 {
		cfg.MaxCheckAllocation = 500
		log.Printf("Warning: Invalid value for MAX_CHECK_ALLOCATION. Defaulting to %d.\n", cfg.MaxCheckAllocation)
	}

	cfg.RateLimit = v.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")

	cfg.NotifyBackend = strings.ToLower(v.GetString("NOTIFY_BACKEND"))
	if cfg.NotifyBackend != NotifyBackendRedis && cfg.NotifyBackend != NotifyBackendLog {
		log.Printf("Warning: Unknown NOTIFY_BACKEND ('%s'). Defaulting to %s.\n", cfg.NotifyBackend, NotifyBackendLog)
		cfg.NotifyBackend = NotifyBackendLog
	}
	cfg.RedisAddr = v.GetString("REDIS_ADDR")
	cfg.RedisPassword = v.GetString("REDIS_PASSWORD")
	cfg.RedisDB = v.GetInt("REDIS_DB")
	cfg.NotifyQueuePrefix = v.GetString("NOTIFY_QUEUE_PREFIX")

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")

	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
