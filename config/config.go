package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the explicit, validated environment for the process. It is built
// once in main and injected; nothing reads os.Getenv past this point.
type Config struct {
	AppEnv      string
	Port        string
	AppURL      string
	CORSOrigins []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret  string
	JWTRefreshSecret string

	MPAccessToken   string
	MPWebhookSecret string
	MPBaseURL       string
	MPTimeout       time.Duration

	RedisAddr         string
	RateLimitCapacity int
	RateLimitWindow   time.Duration

	S3Bucket string
}

// Load reads the .env file at path (if present) and builds a Config from the
// environment. All mandatory keys missing are reported in one error.
func Load(path string) (*Config, error) {
	// A missing .env is fine in containers where the environment is injected.
	_ = godotenv.Load(path)

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "3333"),
		AppURL:            os.Getenv("APP_URL"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:4200")),
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		JWTAccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:  os.Getenv("JWT_REFRESH_SECRET"),
		MPAccessToken:     os.Getenv("MP_ACCESS_TOKEN"),
		MPWebhookSecret:   os.Getenv("MP_WEBHOOK_SECRET"),
		MPBaseURL:         getEnv("MP_BASE_URL", "https://api.mercadopago.com"),
		MPTimeout:         getDuration("MP_TIMEOUT", 10*time.Second),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RateLimitCapacity: getInt("RATE_LIMIT_CAPACITY", 100),
		RateLimitWindow:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		S3Bucket:          os.Getenv("S3_BUCKET"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"DB_HOST":            c.DBHost,
		"DB_USER":            c.DBUser,
		"DB_NAME":            c.DBName,
		"JWT_ACCESS_SECRET":  c.JWTAccessSecret,
		"JWT_REFRESH_SECRET": c.JWTRefreshSecret,
		"APP_URL":            c.AppURL,
		"MP_ACCESS_TOKEN":    c.MPAccessToken,
		"MP_WEBHOOK_SECRET":  c.MPWebhookSecret,
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DSN builds the MySQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
