package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Line     LineConfig
	Slack    SlackConfig
	Settings SettingsConfig
	Geofence GeofenceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	CompanyName    string
	AllowedOrigins []string
}

// LineConfig holds the LINE Messaging API channel and LIFF app settings.
// Without ChannelID, LIFF id tokens are not verified.
type LineConfig struct {
	ChannelID          string
	ChannelSecret      string
	ChannelAccessToken string
	LiffID             string
}

// SlackConfig enables HR channel notifications when BotToken is set
type SlackConfig struct {
	BotToken  string
	HRChannel string
}

// SettingsConfig controls where runtime business settings come from.
// An empty FilePath reads them from the database.
type SettingsConfig struct {
	FilePath string
	CacheTTL time.Duration
}

type GeofenceConfig struct {
	Enforce bool
}

func Load() (*Config, error) {
	// .env is optional, real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "line_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: maxConns,
		MinConns: minConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("TZ_NAME", "Asia/Bangkok"),
		CompanyName:    getEnv("COMPANY_NAME", "Company"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	config.Line = LineConfig{
		ChannelID:          getEnv("LINE_CHANNEL_ID", ""),
		ChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		ChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LiffID:             getEnv("LIFF_ID", ""),
	}

	config.Slack = SlackConfig{
		BotToken:  getEnv("SLACK_BOT_TOKEN", ""),
		HRChannel: getEnv("SLACK_HR_CHANNEL", ""),
	}

	ttl, err := time.ParseDuration(getEnv("SETTINGS_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETTINGS_CACHE_TTL: %w", err)
	}
	config.Settings = SettingsConfig{
		FilePath: getEnv("SETTINGS_FILE", ""),
		CacheTTL: ttl,
	}

	enforce, err := strconv.ParseBool(getEnv("GEOFENCE_ENFORCE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_ENFORCE: %w", err)
	}
	config.Geofence = GeofenceConfig{Enforce: enforce}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS, and DB_MAX_CONNS at least 1")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid TZ_NAME %q: %w", c.App.Timezone, err)
	}
	if c.Slack.BotToken != "" && c.Slack.HRChannel == "" {
		return fmt.Errorf("SLACK_HR_CHANNEL is required when SLACK_BOT_TOKEN is set")
	}
	if c.Settings.CacheTTL <= 0 {
		return fmt.Errorf("SETTINGS_CACHE_TTL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// PoolConfig sizes the database pool.
func (c *Config) PoolConfig() database.PoolConfig {
	return database.PoolConfig{
		MaxConns:        int32(c.Database.MaxConns),
		MinConns:        int32(c.Database.MinConns),
		ApplicationName: "line-attendance-" + c.App.Env,
	}
}

// Location is the business timezone; Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL onto slog, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
