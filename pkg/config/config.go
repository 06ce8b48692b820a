package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// ⭐ SSOT: every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Local report cache (badger)
	DataDir string

	// External sources
	VCI     VCIConfig
	HSX     HSXConfig
	CafeF   CafeFConfig
	F319    F319Config
	FinBERT FinBERTConfig

	// Pipeline
	Pipeline PipelineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// VCIConfig holds the financial-data source configuration.
type VCIConfig struct {
	BaseURL string
	// Requests per second allowed against the unthrottled endpoints.
	RatePerSec float64
}

// HSXConfig holds the exchange news API configuration.
type HSXConfig struct {
	BaseURL      string
	LookbackDays int
	MaxPages     int
}

// CafeFConfig holds the CafeF related-news source configuration.
type CafeFConfig struct {
	BaseURL string
}

// F319Config holds the retail forum source configuration.
type F319Config struct {
	BaseURL  string
	MaxPages int
}

// FinBERTConfig holds the sentiment classifier endpoint configuration.
type FinBERTConfig struct {
	URL     string
	Timeout time.Duration
}

// PipelineConfig holds batch scoring parameters.
type PipelineConfig struct {
	Workers      int // bounded worker pool size, deliberately small
	Candidates   int // universe candidates passed to fundamental scoring
	TargetCount  int // target list size for sentiment/technical stages
	MinFScore    int // quality floor for the target list
	MaxSectorPE  float64
	MinSectorROE float64
	// Schedule is the cron expression (with seconds) for the daily run.
	Schedule string
}

// Load reads configuration from environment variables.
// ⭐ SSOT: this is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		DataDir: getEnv("DATA_DIR", "data"),

		VCI: VCIConfig{
			BaseURL:    getEnv("VCI_BASE_URL", "https://api.vietcap.com.vn"),
			RatePerSec: getEnvAsFloat("VCI_RATE_PER_SEC", 4),
		},

		HSX: HSXConfig{
			BaseURL:      getEnv("HSX_BASE_URL", "https://api.hsx.vn"),
			LookbackDays: getEnvAsInt("HSX_LOOKBACK_DAYS", 90),
			MaxPages:     getEnvAsInt("HSX_MAX_PAGES", 100),
		},

		CafeF: CafeFConfig{
			BaseURL: getEnv("CAFEF_BASE_URL", "https://cafef.vn"),
		},

		F319: F319Config{
			BaseURL:  getEnv("F319_BASE_URL", "https://f319.com"),
			MaxPages: getEnvAsInt("F319_MAX_PAGES", 150),
		},

		FinBERT: FinBERTConfig{
			URL:     getEnv("FINBERT_URL", "http://localhost:8501"),
			Timeout: getEnvAsDuration("FINBERT_TIMEOUT", "20s"),
		},

		Pipeline: PipelineConfig{
			Workers:      getEnvAsInt("PIPELINE_WORKERS", 4),
			Candidates:   getEnvAsInt("PIPELINE_CANDIDATES", 100),
			TargetCount:  getEnvAsInt("PIPELINE_TARGETS", 50),
			MinFScore:    getEnvAsInt("PIPELINE_MIN_FSCORE", 5),
			MaxSectorPE:  getEnvAsFloat("PIPELINE_MAX_SECTOR_PE", 25),
			MinSectorROE: getEnvAsFloat("PIPELINE_MIN_SECTOR_ROE", 5),
			// Weekdays after the HOSE close.
			Schedule: getEnv("PIPELINE_SCHEDULE", "0 30 15 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}

	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("PIPELINE_WORKERS must be >= 1")
	}
	// The external sources are not throttled server-side; a large pool
	// gets the whole batch rate limited.
	if c.Pipeline.Workers > 8 {
		return fmt.Errorf("PIPELINE_WORKERS must be <= 8")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
