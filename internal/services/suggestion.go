package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/clients/redis"
	"github.com/taghive/taghive-backend/internal/keywords"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/normalization"
	"github.com/taghive/taghive-backend/internal/repos"
	"github.com/taghive/taghive-backend/internal/similarity"
	"github.com/taghive/taghive-backend/internal/types"
)

type SuggestionService interface {
	// CreateSuggestionsForContent computes tag suggestions for the given text.
	// contentID is nil for ad-hoc text; when set, the result is cached under
	// (ownerID, contentID).
	CreateSuggestionsForContent(ctx context.Context, ownerID uuid.UUID, contentID *uuid.UUID, text string) (*types.SuggestionResult, error)
	// ExtractKeywords ranks candidate phrases of text by embedding similarity
	// to the full text.
	ExtractKeywords(ctx context.Context, text string) ([]types.KeywordSuggestion, error)
	// LearnSemantics embeds the given semantic strings and upserts their
	// concepts. Input is normalized and deduplicated; returns the concept ids
	// in first-seen order.
	LearnSemantics(ctx context.Context, semantics []string) ([]uuid.UUID, error)
	// EnsureConceptExists reserves an unlearned concept row for the semantic.
	EnsureConceptExists(ctx context.Context, tx *gorm.DB, semantic string) (uuid.UUID, error)
	CachedSuggestions(ctx context.Context, ownerID, contentID uuid.UUID) (*types.SuggestionResult, bool)
	InvalidateForContent(ctx context.Context, ownerID, contentID uuid.UUID)
}

type suggestionService struct {
	log         *logger.Logger
	ai          OpenAIClient
	tagRepo     repos.TagRepo
	conceptRepo repos.ConceptRepo
	cache       redis.Cache

	cacheTTL    time.Duration
	maxExisting int
}

func NewSuggestionService(
	baseLog *logger.Logger,
	ai OpenAIClient,
	tagRepo repos.TagRepo,
	conceptRepo repos.ConceptRepo,
	cache redis.Cache,
	cacheTTL time.Duration,
	maxExisting int,
) SuggestionService {
	return &suggestionService{
		log:         baseLog.With("service", "SuggestionService"),
		ai:          ai,
		tagRepo:     tagRepo,
		conceptRepo: conceptRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		maxExisting: maxExisting,
	}
}

func suggestionCacheKey(ownerID, contentID uuid.UUID) string {
	return fmt.Sprintf("suggestions:%s:%s", ownerID, contentID)
}

func (s *suggestionService) CreateSuggestionsForContent(ctx context.Context, ownerID uuid.UUID, contentID *uuid.UUID, text string) (*types.SuggestionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Invalidf("text must not be empty")
	}

	var (
		contentVec []float32
		potential  []types.KeywordSuggestion
	)

	// The content embedding is load-bearing; keyword extraction is not.
	// Its failure degrades the result to existing-tags-only.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vecs, err := s.ai.Embed(gctx, []string{text})
		if err != nil {
			return fmt.Errorf("%w: embed content: %v", apperrors.ErrUpstreamUnavailable, err)
		}
		contentVec = vecs[0]
		return nil
	})
	g.Go(func() error {
		kws, err := s.ExtractKeywords(gctx, text)
		if err != nil {
			s.log.Warn("keyword extraction degraded", "owner_id", ownerID, "error", err)
			potential = []types.KeywordSuggestion{}
			return nil
		}
		potential = kws
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked, err := s.tagRepo.NearestByVector(ctx, nil, ownerID, contentVec, s.maxExisting)
	if err != nil {
		return nil, fmt.Errorf("rank existing tags: %w", err)
	}
	existing := make([]types.TagSuggestion, 0, len(ranked))
	taken := make(map[string]bool, len(ranked))
	for _, row := range ranked {
		existing = append(existing, types.TagSuggestion{
			TagID: row.TagID,
			Name:  row.Name,
			Score: row.Distance,
		})
		taken[normalization.Semantic(row.Name)] = true
	}

	// A keyword that already surfaced as an existing tag adds nothing.
	filtered := make([]types.KeywordSuggestion, 0, len(potential))
	for _, kw := range potential {
		if taken[normalization.Semantic(kw.Keyword)] {
			continue
		}
		filtered = append(filtered, kw)
	}

	result := &types.SuggestionResult{Existing: existing, Potential: filtered}

	if contentID != nil && ctx.Err() == nil {
		key := suggestionCacheKey(ownerID, *contentID)
		if err := s.cache.SetJSON(ctx, key, result, s.cacheTTL); err != nil {
			s.log.Warn("suggestion cache write failed", "key", key, "error", err)
		}
	}
	return result, nil
}

func (s *suggestionService) ExtractKeywords(ctx context.Context, text string) ([]types.KeywordSuggestion, error) {
	candidates := keywords.Candidates(text, keywords.MaxCandidates)
	if len(candidates) == 0 {
		return []types.KeywordSuggestion{}, nil
	}

	inputs := make([]string, 0, len(candidates)+1)
	inputs = append(inputs, text)
	for _, cand := range candidates {
		inputs = append(inputs, cand.Phrase)
	}
	vecs, err := s.ai.Embed(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: embed keywords: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	textVec := vecs[0]
	scored := make([]types.KeywordSuggestion, 0, len(candidates))
	for i, cand := range candidates {
		scored = append(scored, types.KeywordSuggestion{
			Keyword: cand.Phrase,
			Score:   similarity.Cosine(textVec, vecs[i+1]),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	limit := keywords.Limit(text)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (s *suggestionService) LearnSemantics(ctx context.Context, semantics []string) ([]uuid.UUID, error) {
	seen := make(map[string]bool, len(semantics))
	deduped := make([]string, 0, len(semantics))
	for _, raw := range semantics {
		sem := normalization.Semantic(raw)
		if sem == "" || seen[sem] {
			continue
		}
		seen[sem] = true
		deduped = append(deduped, sem)
	}
	if len(deduped) == 0 {
		return []uuid.UUID{}, nil
	}

	vecs, err := s.ai.Embed(ctx, deduped)
	if err != nil {
		return nil, fmt.Errorf("%w: embed semantics: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	now := time.Now().UTC()
	rows := make([]*types.Concept, 0, len(deduped))
	ids := make([]uuid.UUID, 0, len(deduped))
	for i, sem := range deduped {
		id := types.ConceptID(sem)
		rows = append(rows, &types.Concept{
			ID:        id,
			Semantic:  sem,
			Embedding: types.Vector(vecs[i]),
			UpdatedAt: now,
		})
		ids = append(ids, id)
	}
	if err := s.conceptRepo.UpsertEmbeddings(ctx, nil, rows); err != nil {
		return nil, fmt.Errorf("upsert concepts: %w", err)
	}
	return ids, nil
}

func (s *suggestionService) EnsureConceptExists(ctx context.Context, tx *gorm.DB, semantic string) (uuid.UUID, error) {
	sem := normalization.Semantic(semantic)
	if sem == "" {
		return uuid.Nil, apperrors.Invalidf("semantic must not be empty")
	}
	id := types.ConceptID(sem)
	err := s.conceptRepo.EnsureExists(ctx, tx, &types.Concept{
		ID:        id,
		Semantic:  sem,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("ensure concept: %w", err)
	}
	return id, nil
}

func (s *suggestionService) CachedSuggestions(ctx context.Context, ownerID, contentID uuid.UUID) (*types.SuggestionResult, bool) {
	key := suggestionCacheKey(ownerID, contentID)
	var result types.SuggestionResult
	found, err := s.cache.GetJSON(ctx, key, &result)
	if err != nil {
		s.log.Warn("suggestion cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &result, true
}

func (s *suggestionService) InvalidateForContent(ctx context.Context, ownerID, contentID uuid.UUID) {
	key := suggestionCacheKey(ownerID, contentID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("suggestion cache invalidation failed", "key", key, "error", err)
	}
}
