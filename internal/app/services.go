package app

import (
	"fmt"

	"github.com/taghive/taghive-backend/internal/clients/redis"
	"github.com/taghive/taghive-backend/internal/jobs"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/services"
)

type Services struct {
	OpenAI     services.OpenAIClient
	Suggestion services.SuggestionService
	Tag        services.TagService
	Content    services.ContentService
	Cache      redis.Cache
	JobWorker  *jobs.Worker
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	openAIClient, err := services.NewOpenAIClient(log)
	if err != nil {
		return Services{}, fmt.Errorf("init openai client: %w", err)
	}

	cache, err := redis.NewCache(log)
	if err != nil {
		return Services{}, fmt.Errorf("init redis cache: %w", err)
	}

	worker := jobs.NewWorker(log, cfg.JobQueueSize)

	suggestionService := services.NewSuggestionService(
		log,
		openAIClient,
		reposet.Tag,
		reposet.Concept,
		cache,
		cfg.SuggestionCacheTTL,
		cfg.SuggestionsCount,
	)
	tagService := services.NewTagService(log, reposet.Tag, suggestionService, worker)
	contentService := services.NewContentService(
		log,
		reposet.Content,
		reposet.Tag,
		reposet.ContentTag,
		suggestionService,
		worker,
	)

	return Services{
		OpenAI:     openAIClient,
		Suggestion: suggestionService,
		Tag:        tagService,
		Content:    contentService,
		Cache:      cache,
		JobWorker:  worker,
	}, nil
}
