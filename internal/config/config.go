package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"

	SessionDriverDB    = "db"
	SessionDriverRedis = "redis"
)

type Config struct {
	ServiceName string
	ServerPort  int
	Env         string
	LogLevel    string

	DBDriver    string
	DatabaseURL string
	MongoURL    string
	MongoDB     string

	SessionDriver string
	SessionSecret []byte
	SessionTTL    time.Duration
	RedisAddr     string

	ContentDir     string
	AssetURLPrefix string

	KafkaBrokers []string
	CSRFEnabled  bool
}

// Load reads an optional .env file and then the process environment.
func Load(envFile string) Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Notice: %s not loaded: %v. Using system environment variables", envFile, err)
		}
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "backoffice"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		Env:         EnvDefault("APP_ENV", "production"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(EnvDefault("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MongoURL:    EnvDefault("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     EnvDefault("MONGO_DB", "web"),

		SessionDriver: strings.ToLower(EnvDefault("SESSION_DRIVER", SessionDriverDB)),
		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    EnvDurationDefault("SESSION_TTL", 24*time.Hour),
		RedisAddr:     EnvDefault("REDIS_ADDR", "localhost:6379"),

		ContentDir:     EnvDefault("CONTENT_DIR", "public/images"),
		AssetURLPrefix: EnvDefault("ASSET_URL_PREFIX", "/images/"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		CSRFEnabled:  EnvBoolDefault("CSRF_ENABLED", true),
	}
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
