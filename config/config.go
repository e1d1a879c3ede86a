package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Database configuration
	DatabaseURL string

	// Wallet configuration
	StartingBalance int64
	PlatformFeeRate float64

	// Admin authorization boundary: bearer tokens with elevated privilege
	AdminTokens []string

	// Review sweep for matches stuck in COMPLETED
	ReviewWindow        time.Duration
	ReviewSweepInterval time.Duration

	// Screenshot object storage (S3-compatible)
	StorageEndpoint   string
	StorageRegion     string
	StorageBucket     string
	StorageAccessKey  string
	StorageSecretKey  string
	StoragePublicBase string

	// Optional Discord announcer
	DiscordToken     string
	DiscordChannelID string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// .env is optional; real environments set vars directly
	_ = godotenv.Load()

	config := &Config{
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Wallet defaults
		StartingBalance: 500,
		PlatformFeeRate: 0.10,

		// Review sweep defaults
		ReviewWindow:        24 * time.Hour,
		ReviewSweepInterval: 10 * time.Minute,

		StorageEndpoint:   os.Getenv("STORAGE_ENDPOINT"),
		StorageRegion:     os.Getenv("STORAGE_REGION"),
		StorageBucket:     os.Getenv("STORAGE_BUCKET"),
		StorageAccessKey:  os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey:  os.Getenv("STORAGE_SECRET_KEY"),
		StoragePublicBase: os.Getenv("STORAGE_PUBLIC_BASE_URL"),

		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}
	if rate := os.Getenv("PLATFORM_FEE_RATE"); rate != "" {
		parsed, err := strconv.ParseFloat(rate, 64)
		if err != nil || parsed < 0 || parsed >= 1 {
			return nil, fmt.Errorf("PLATFORM_FEE_RATE must be a number in [0, 1)")
		}
		config.PlatformFeeRate = parsed
	}
	if window := os.Getenv("REVIEW_WINDOW"); window != "" {
		if parsed, err := time.ParseDuration(window); err == nil {
			config.ReviewWindow = parsed
		}
	}
	if interval := os.Getenv("REVIEW_SWEEP_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.ReviewSweepInterval = parsed
		}
	}

	// Parse admin tokens
	if tokens := os.Getenv("ADMIN_TOKENS"); tokens != "" {
		for _, token := range strings.Split(tokens, ",") {
			token = strings.TrimSpace(token)
			if token != "" {
				config.AdminTokens = append(config.AdminTokens, token)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if len(config.AdminTokens) == 0 {
			return nil, fmt.Errorf("ADMIN_TOKENS is required")
		}
	}

	return config, nil
}

// IsAdminToken checks a presented token against the configured admin set
func (c *Config) IsAdminToken(token string) bool {
	for _, t := range c.AdminTokens {
		if t == token {
			return true
		}
	}
	return false
}
