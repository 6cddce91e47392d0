package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	JWTSecret          string
	JWTRefreshSecret   string
	InsightsCacheTTL   time.Duration
	InsightsRecentMax  int
	DimensionThreshold int
	GradingRateLimit   int
	AIProvider         string
	OpenAIAPIKey       string
	AnthropicAPIKey    string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ADVISIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Advisio API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("insights.cache_ttl", "5m")
	v.SetDefault("insights.recent_max", 5)
	v.SetDefault("insights.dimension_threshold", 12)
	v.SetDefault("grading.rate_limit", 10)
	v.SetDefault("ai.provider", "openai")

	ttlString := v.GetString("insights.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid insights cache ttl: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		JWTRefreshSecret:   v.GetString("jwt.refresh_secret"),
		InsightsCacheTTL:   ttl,
		InsightsRecentMax:  v.GetInt("insights.recent_max"),
		DimensionThreshold: v.GetInt("insights.dimension_threshold"),
		GradingRateLimit:   v.GetInt("grading.rate_limit"),
		AIProvider:         strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:       v.GetString("openai_api_key"),
		AnthropicAPIKey:    v.GetString("anthropic_api_key"),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	if cfg.InsightsRecentMax <= 0 {
		cfg.InsightsRecentMax = 5
	}

	if cfg.DimensionThreshold <= 0 {
		cfg.DimensionThreshold = 12
	}

	if cfg.GradingRateLimit <= 0 {
		cfg.GradingRateLimit = 10
	}

	return cfg, nil
}
