package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	MaxUploadBytes    int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`

	// Gemini extraction. An empty key switches the gateway to sample mode.
	GeminiAPIKey      string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel       string        `mapstructure:"GEMINI_MODEL"`
	ExtractionTimeout time.Duration `mapstructure:"EXTRACTION_TIMEOUT"`

	// Calendar sync.
	TimeZone              string        `mapstructure:"TIME_ZONE"`
	CalendarID            string        `mapstructure:"CALENDAR_ID"`
	CalendarEndpoint      string        `mapstructure:"CALENDAR_ENDPOINT"`
	CalendarInsertTimeout time.Duration `mapstructure:"CALENDAR_INSERT_TIMEOUT"`
	SyncConcurrency       int           `mapstructure:"SYNC_CONCURRENCY"`
	SyncMaxCourses        int           `mapstructure:"SYNC_MAX_COURSES"`

	// Redis configuration. An empty address disables the extraction cache.
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB       int           `mapstructure:"REDIS_CACHE_DB"`
	ExtractionCacheTTL time.Duration `mapstructure:"EXTRACTION_CACHE_TTL"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("EXTRACTION_TIMEOUT", "60s")
	v.SetDefault("TIME_ZONE", "America/New_York")
	v.SetDefault("CALENDAR_ID", "primary")
	v.SetDefault("CALENDAR_ENDPOINT", "")
	v.SetDefault("CALENDAR_INSERT_TIMEOUT", "15s")
	v.SetDefault("SYNC_CONCURRENCY", 4)
	v.SetDefault("SYNC_MAX_COURSES", 50)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("EXTRACTION_CACHE_TTL", "24h")
}

// Load reads configuration from config.yaml (current or ./config directory)
// merged with environment variables, and returns it without touching AppConfig.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
