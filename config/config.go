package config

import (
	"time"

	"main/utils"
)

type DatabaseConfig struct {
	URI             string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	DatabaseName    string
	RetryWrites     bool
}

func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:             utils.GetEnvAsString("MONGO_URI", ""),
		MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime: time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
		DatabaseName:    utils.GetEnvAsString("MONGO_DB", "bloom"),
		RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
	}
}

// RedisConfig covers both the realtime change feed and the token blacklist.
// An empty URL disables both features.
type RedisConfig struct {
	URL string
}

func LoadRedisConfig() RedisConfig {
	return RedisConfig{
		URL: utils.GetEnvAsString("REDIS_URL", ""),
	}
}

// SuggestionConfig configures the generative growth-plan service. An empty
// API key disables it.
type SuggestionConfig struct {
	APIKey string
	Model  string
}

func LoadSuggestionConfig() SuggestionConfig {
	return SuggestionConfig{
		APIKey: utils.GetEnvAsString("SUGGESTIONS_API_KEY", ""),
		Model:  utils.GetEnvAsString("SUGGESTIONS_MODEL", "gemini-3-flash-preview"),
	}
}
