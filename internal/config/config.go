package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Geocoding    GeocodingConfig
	Mail         MailConfig
	Onboarding   OnboardingConfig
	Crush        CrushConfig
	Logging      LoggingConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host            string
	Port            int
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret string
	SessionTTL   time.Duration
}

// StorageConfig selects where profile photos go. Type is "local" or "gcs".
type StorageConfig struct {
	Type          string
	Path          string
	Bucket        string
	PublicBaseURL string
}

type GeocodingConfig struct {
	BaseURL   string
	UserAgent string
}

type MailConfig struct {
	SendGridAPIKey string
	SendGridURL    string
	FromAddress    string
	FromName       string
	AppBaseURL     string
}

type OnboardingConfig struct {
	SignedOutPath string
	DonePath      string
	MagicLinkTTL  time.Duration
}

type CrushConfig struct {
	DailyLimit int
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	return LoadFrom(viper.New(), ".env")
}

// LoadFrom reads path (if it exists) and the environment through v.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			Env:             v.GetString("ENV"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins:  v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			SessionTTL:   time.Duration(v.GetInt("JWT_SESSION_TTL_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			Type:          v.GetString("STORAGE_TYPE"),
			Path:          v.GetString("STORAGE_PATH"),
			Bucket:        v.GetString("STORAGE_BUCKET"),
			PublicBaseURL: v.GetString("STORAGE_PUBLIC_BASE_URL"),
		},
		Geocoding: GeocodingConfig{
			BaseURL:   v.GetString("GEOCODING_BASE_URL"),
			UserAgent: v.GetString("GEOCODING_USER_AGENT"),
		},
		Mail: MailConfig{
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			SendGridURL:    v.GetString("SENDGRID_URL"),
			FromAddress:    v.GetString("MAIL_FROM_ADDRESS"),
			FromName:       v.GetString("MAIL_FROM_NAME"),
			AppBaseURL:     v.GetString("APP_BASE_URL"),
		},
		Onboarding: OnboardingConfig{
			SignedOutPath: v.GetString("ONBOARDING_SIGNED_OUT_PATH"),
			DonePath:      v.GetString("ONBOARDING_DONE_PATH"),
			MagicLinkTTL:  time.Duration(v.GetInt("MAGIC_LINK_TTL_MIN")) * time.Minute,
		},
		Crush: CrushConfig{
			DailyLimit: v.GetInt("CRUSH_DAILY_LIMIT"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	// The session-events stream is long-lived; 0 disables the write deadline.
	v.SetDefault("SERVER_WRITE_TIMEOUT", "0s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("JWT_SESSION_TTL_HOURS", 24*30)
	v.SetDefault("STORAGE_TYPE", "local")
	v.SetDefault("STORAGE_PATH", "./uploads")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads")
	v.SetDefault("GEOCODING_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODING_USER_AGENT", "FabDive/1.0")
	v.SetDefault("SENDGRID_URL", "https://api.sendgrid.com/v3/mail/send")
	v.SetDefault("MAIL_FROM_ADDRESS", "hello@fabdive.app")
	v.SetDefault("MAIL_FROM_NAME", "FabDive")
	v.SetDefault("APP_BASE_URL", "http://localhost:5173")
	v.SetDefault("ONBOARDING_SIGNED_OUT_PATH", "/home")
	v.SetDefault("ONBOARDING_DONE_PATH", "/matches")
	v.SetDefault("MAGIC_LINK_TTL_MIN", 15)
	v.SetDefault("CRUSH_DAILY_LIMIT", 5)
	v.SetDefault("LOG_LEVEL", "info")
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	switch c.Storage.Type {
	case "local":
	case "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for gcs storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Crush.DailyLimit <= 0 {
		return fmt.Errorf("crush daily limit must be positive")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
