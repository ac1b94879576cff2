package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port    string
		Env     string
		Timeout time.Duration
		BaseURL string
	}

	// Database configuration
	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
		MaxConns int
		Timeout  time.Duration
	}

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
		TrustedProxies []string
		MaxUploadSize  int64
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Model service endpoint (external sentiment scorer)
	Model struct {
		ServiceURL string
		Timeout    time.Duration
	}

	// Analysis tuning knobs
	Analysis struct {
		SampleCap           int
		MaxTextLen          int
		RollingWindow       int
		CurvePoints         int
		WeeklyThreshold     int
		HighlightCount      int
		ClusterWindow       int
		ClusterMinNegatives int
		NegativeThreshold   float64
		StarterGap          time.Duration
		TopEmojis           int
		TopWords            int
		MinWordLen          int
		ShiftTopN           int
		ShiftMinDelta       float64
	}

	// Cache settings (in-process score memoization)
	Cache struct {
		Enabled     bool
		TTL         time.Duration
		MaxSize     int
		PurgeWindow time.Duration
	}

	// Redis settings (report cache)
	Redis struct {
		URL       string
		ReportTTL time.Duration
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables
// Uses singleton pattern to ensure only one instance exists
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()

		instance = &Config{}

		// Server config
		instance.Server.Port = getEnvString("PORT", "8081")
		instance.Server.Env = getEnvString("APP_ENV", "development")
		instance.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)
		instance.Server.BaseURL = getEnvString("BASE_URL", "http://localhost:"+instance.Server.Port)

		// Database config
		instance.Database.Host = getEnvString("DB_HOST", "localhost")
		instance.Database.Port = getEnvString("DB_PORT", "5432")
		instance.Database.User = getEnvString("DB_USER", "postgres")
		instance.Database.Password = getEnvString("DB_PASSWORD", "postgres")
		instance.Database.Name = getEnvString("DB_NAME", "chatmood")
		instance.Database.SSLMode = getEnvString("DB_SSL_MODE", "disable")
		instance.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 20)
		instance.Database.Timeout = getEnvDuration("DB_TIMEOUT", 5*time.Second)

		// Security config
		instance.Security.RateLimit = float64(getEnvInt("RATE_LIMIT", 5))
		instance.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
		instance.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})
		instance.Security.TrustedProxies = getEnvStringSlice("TRUSTED_PROXIES", []string{"127.0.0.1"})
		instance.Security.MaxUploadSize = getEnvInt64("MAX_UPLOAD_SIZE", 25<<20) // 25MB

		// Logging config
		instance.Logging.Level = getEnvString("LOG_LEVEL", "info")
		instance.Logging.Format = getEnvString("LOG_FORMAT", "json")

		// Model service
		instance.Model.ServiceURL = getEnvString("MODEL_SERVICE_URL", "http://localhost:8090")
		instance.Model.Timeout = getEnvDuration("MODEL_TIMEOUT", 30*time.Second)

		// Analysis tuning
		instance.Analysis.SampleCap = getEnvInt("ANALYSIS_SAMPLE_CAP", 500)
		instance.Analysis.MaxTextLen = getEnvInt("ANALYSIS_MAX_TEXT_LEN", 512)
		instance.Analysis.RollingWindow = getEnvInt("ANALYSIS_ROLLING_WINDOW", 20)
		instance.Analysis.CurvePoints = getEnvInt("ANALYSIS_CURVE_POINTS", 300)
		instance.Analysis.WeeklyThreshold = getEnvInt("ANALYSIS_WEEKLY_THRESHOLD", 60)
		instance.Analysis.HighlightCount = getEnvInt("ANALYSIS_HIGHLIGHT_COUNT", 5)
		instance.Analysis.ClusterWindow = getEnvInt("ANALYSIS_CLUSTER_WINDOW", 5)
		instance.Analysis.ClusterMinNegatives = getEnvInt("ANALYSIS_CLUSTER_MIN_NEGATIVES", 3)
		instance.Analysis.NegativeThreshold = getEnvFloat("ANALYSIS_NEGATIVE_THRESHOLD", 0.3)
		instance.Analysis.StarterGap = getEnvDuration("ANALYSIS_STARTER_GAP", 4*time.Hour)
		instance.Analysis.TopEmojis = getEnvInt("ANALYSIS_TOP_EMOJIS", 15)
		instance.Analysis.TopWords = getEnvInt("ANALYSIS_TOP_WORDS", 50)
		instance.Analysis.MinWordLen = getEnvInt("ANALYSIS_MIN_WORD_LEN", 4)
		instance.Analysis.ShiftTopN = getEnvInt("ANALYSIS_SHIFT_TOP_N", 3)
		instance.Analysis.ShiftMinDelta = getEnvFloat("ANALYSIS_SHIFT_MIN_DELTA", 0.1)

		// Cache settings
		instance.Cache.Enabled = getEnvBool("CACHE_ENABLED", true)
		instance.Cache.TTL = getEnvDuration("CACHE_TTL", 5*time.Minute)
		instance.Cache.MaxSize = getEnvInt("CACHE_MAX_SIZE", 1000)
		instance.Cache.PurgeWindow = getEnvDuration("CACHE_PURGE_WINDOW", 10*time.Minute)

		// Redis settings
		instance.Redis.URL = getEnvString("REDIS_URL", "localhost:6379")
		instance.Redis.ReportTTL = getEnvDuration("REDIS_REPORT_TTL", 24*time.Hour)
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
