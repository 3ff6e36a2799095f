package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ReferenceDateLayout is the layout of REFERENCE_DATE.
const ReferenceDateLayout = "2006-01-02"

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	MaxUploadBytes    int64  `mapstructure:"MAX_UPLOAD_BYTES"`

	// Comma-separated CIDRs or addresses whose X-Forwarded-For / X-Real-IP headers are believed.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Entity extraction.
	GeminiAPIKey       string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel        string        `mapstructure:"GEMINI_MODEL"`
	Extractor          string        `mapstructure:"EXTRACTOR"`
	ExtractionFallback bool          `mapstructure:"EXTRACTION_FALLBACK"`
	ExtractionCacheTTL time.Duration `mapstructure:"EXTRACTION_CACHE_TTL"`

	// Text sources.
	OCRProvider              string  `mapstructure:"OCR_PROVIDER"`
	OCRMinConfidence         float64 `mapstructure:"OCR_MIN_CONFIDENCE"`
	GoogleServiceAccountFile string  `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Normalization.
	Timezone      string            `mapstructure:"APP_TIMEZONE"`
	ReferenceDate string            `mapstructure:"REFERENCE_DATE"`
	Departments   map[string]string `mapstructure:"DEPARTMENTS"`

	CloudinaryURL    string `mapstructure:"CLOUDINARY_URL"`
	ClarificationLog bool   `mapstructure:"CLARIFICATION_LOG"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := AppConfig.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("MAX_UPLOAD_BYTES", 5*1024*1024)
	v.SetDefault("TRUSTED_PROXIES", []string{})
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "appointments")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash-latest")
	v.SetDefault("EXTRACTOR", "gemini")
	v.SetDefault("EXTRACTION_FALLBACK", true)
	v.SetDefault("EXTRACTION_CACHE_TTL", 24*time.Hour)
	v.SetDefault("OCR_PROVIDER", "vision")
	v.SetDefault("OCR_MIN_CONFIDENCE", 0.5)
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	v.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("REFERENCE_DATE", "2025-09-29")
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("CLARIFICATION_LOG", true)
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.ReferenceDate != "" {
		if _, err := time.Parse(ReferenceDateLayout, c.ReferenceDate); err != nil {
			return fmt.Errorf("REFERENCE_DATE %q: %w", c.ReferenceDate, err)
		}
	}
	if c.OCRMinConfidence < 0 || c.OCRMinConfidence > 1 {
		return fmt.Errorf("OCR_MIN_CONFIDENCE must be within [0,1], got %v", c.OCRMinConfidence)
	}
	switch strings.ToLower(c.Extractor) {
	case "gemini", "rules":
	default:
		return fmt.Errorf("EXTRACTOR must be gemini or rules, got %q", c.Extractor)
	}
	switch strings.ToLower(c.OCRProvider) {
	case "vision", "gemini":
	default:
		return fmt.Errorf("OCR_PROVIDER must be vision or gemini, got %q", c.OCRProvider)
	}
	return nil
}

// Location returns the configured appointment timezone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReferenceTime returns the fixed reference instant (midnight of REFERENCE_DATE in the
// configured zone). ok is false when REFERENCE_DATE is empty and the live clock should be used.
func (c Config) ReferenceTime() (t time.Time, ok bool) {
	if c.ReferenceDate == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ReferenceDateLayout, c.ReferenceDate, c.Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
