package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"routine_tracker/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	DevMode     bool
	Location    *time.Location

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL   time.Duration
	CookieSecure bool

	// Rate limits
	APIRateLimit    int
	APIRateWindow   time.Duration
	AuthRateLimit   int
	AuthRateWindow  time.Duration
	WriteRateLimit  int
	WriteRateWindow time.Duration

	Log logger.Config
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	devMode := os.Getenv("DEV_MODE") == "true"

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && !devMode {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	loc := time.UTC
	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			logger.Fatal("invalid APP_TIMEZONE", "timezone", tz, "error", err)
		}
		loc = l
	}

	logCfg := logger.DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		logCfg.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		logCfg.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		logCfg.Output = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		logCfg.FilePath = v
	}

	return &Config{
		AppPort:         port,
		DatabaseURL:     dbURL,
		JWTSecret:       jwtSecret,
		DevMode:         devMode,
		Location:        loc,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         intEnv("REDIS_DB", 0),
		SessionTTL:      time.Duration(intEnv("SESSION_TTL_HOURS", 24)) * time.Hour,
		CookieSecure:    os.Getenv("COOKIE_SECURE") == "true",
		APIRateLimit:    intEnv("API_RATE_LIMIT", 120),
		APIRateWindow:   secondsEnv("API_RATE_WINDOW_SECONDS", 60),
		AuthRateLimit:   intEnv("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:  secondsEnv("AUTH_RATE_WINDOW_SECONDS", 60),
		WriteRateLimit:  intEnv("WRITE_RATE_LIMIT", 60),
		WriteRateWindow: secondsEnv("WRITE_RATE_WINDOW_SECONDS", 60),
		Log:             logCfg,
	}
}

// intEnv returns a non-negative integer from env, or def when unset or invalid.
func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func secondsEnv(key string, def int) time.Duration {
	return time.Duration(intEnv(key, def)) * time.Second
}
