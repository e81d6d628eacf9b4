package app

import (
	"time"

	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/utils"
)

type Config struct {
	JWTSecretKey       string
	SuggestionCacheTTL time.Duration
	SuggestionsCount   int
	JobQueueSize       int
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	cacheTTLSeconds := utils.GetEnvAsInt("SUGGESTION_CACHE_TTL", 3600, log)
	suggestionsCount := utils.GetEnvAsInt("SUGGESTIONS_COUNT", 10, log)
	jobQueueSize := utils.GetEnvAsInt("JOB_QUEUE_SIZE", 256, log)
	return Config{
		JWTSecretKey:       jwtSecretKey,
		SuggestionCacheTTL: time.Duration(cacheTTLSeconds) * time.Second,
		SuggestionsCount:   suggestionsCount,
		JobQueueSize:       jobQueueSize,
	}
}
