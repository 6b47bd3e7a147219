package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	KV          KVConfig
	Identity    IdentityConfig
	JWT         JWTConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Monitor     MonitorConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	BasePath     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// KVConfig selects and configures the key-value backend.
type KVConfig struct {
	Driver        string // bolt, redis or memory
	BoltPath      string
	BoltBucket    string
	RedisURL      string
	RedisPassword string
	RedisDB       int
}

// IdentityConfig points at the external identity provider. The service key
// is privileged and must only ever come from process configuration.
type IdentityConfig struct {
	URL        string
	AnonKey    string
	ServiceKey string
}

type JWTConfig struct {
	Secret string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MonitorConfig struct {
	Interval time.Duration
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskmaster"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			BasePath:     getString("BASE_PATH", "/api/v1"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		KV: KVConfig{
			Driver:        getString("KV_DRIVER", "bolt"),
			BoltPath:      getString("BOLTDB_PATH", "./data/todos.db"),
			BoltBucket:    getString("BOLTDB_BUCKET", "todos"),
			RedisURL:      getString("REDIS_URL", "redis://localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getInt("REDIS_DB", 0),
		},
		Identity: IdentityConfig{
			URL:        os.Getenv("IDENTITY_URL"),
			AnonKey:    os.Getenv("IDENTITY_ANON_KEY"),
			ServiceKey: os.Getenv("IDENTITY_SERVICE_KEY"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Monitor: MonitorConfig{
			Interval: getDuration("MONITOR_INTERVAL_SECONDS", 10*time.Second),
		},
	}

	return cfg, cfg.Validate()
}

// Validate fails fast on missing required credentials. Configuration errors
// are fatal at process start, never discovered mid-request.
func (c *Config) Validate() error {
	var missing []string
	if c.Identity.URL == "" {
		missing = append(missing, "IDENTITY_URL")
	}
	if c.Identity.AnonKey == "" {
		missing = append(missing, "IDENTITY_ANON_KEY")
	}
	if c.Identity.ServiceKey == "" {
		missing = append(missing, "IDENTITY_SERVICE_KEY")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.KV.Driver {
	case "bolt", "redis", "memory":
	default:
		return fmt.Errorf("unknown KV_DRIVER %q", c.KV.Driver)
	}
	return nil
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
