package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/jobs"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/normalization"
	"github.com/taghive/taghive-backend/internal/pagination"
	"github.com/taghive/taghive-backend/internal/repos"
	"github.com/taghive/taghive-backend/internal/types"
)

type TagService interface {
	// CreateTag creates the tag, or resurrects it if the owner had
	// soft-deleted a tag of the same normalized name.
	CreateTag(ctx context.Context, ownerID uuid.UUID, name string) (*types.Tag, error)
	GetTag(ctx context.Context, ownerID, id uuid.UUID) (*types.Tag, error)
	// RenameTag renames under the same owner. The name determines the id, so
	// a rename creates the tag under its new id and soft-deletes the old row.
	RenameTag(ctx context.Context, ownerID, id uuid.UUID, newName string) (*types.Tag, error)
	DeleteTag(ctx context.Context, ownerID, id uuid.UUID) error
	ListTags(ctx context.Context, ownerID uuid.UUID, req pagination.Request) (*pagination.Page[*types.Tag], error)
	// LearnPendingTags backfills embeddings for the owner's tags whose
	// concepts are still unlearned. Returns how many semantics were learned.
	LearnPendingTags(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type tagService struct {
	log         *logger.Logger
	tagRepo     repos.TagRepo
	suggestions SuggestionService
	worker      *jobs.Worker
}

func NewTagService(
	baseLog *logger.Logger,
	tagRepo repos.TagRepo,
	suggestions SuggestionService,
	worker *jobs.Worker,
) TagService {
	return &tagService{
		log:         baseLog.With("service", "TagService"),
		tagRepo:     tagRepo,
		suggestions: suggestions,
		worker:      worker,
	}
}

func (s *tagService) CreateTag(ctx context.Context, ownerID uuid.UUID, name string) (*types.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Invalidf("tag name must not be empty")
	}
	semantic := normalization.Semantic(name)

	if _, err := s.suggestions.EnsureConceptExists(ctx, nil, semantic); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tag, err := s.tagRepo.Upsert(ctx, nil, &types.Tag{
		ID:        types.TagID(ownerID, name),
		OwnerID:   ownerID,
		Name:      name,
		Semantic:  semantic,
		ConceptID: types.ConceptID(semantic),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert tag: %w", err)
	}

	s.submitLearn(semantic)
	return tag, nil
}

// submitLearn queues embedding of the semantic; tag writes never wait on
// the embedding provider.
func (s *tagService) submitLearn(semantic string) {
	err := s.worker.Submit(jobs.Task{
		Name: "learn-tag-semantic",
		Run: func(ctx context.Context) error {
			_, err := s.suggestions.LearnSemantics(ctx, []string{semantic})
			return err
		},
	})
	if err != nil {
		s.log.Warn("could not queue semantic learn", "semantic", semantic, "error", err)
	}
}

func (s *tagService) GetTag(ctx context.Context, ownerID, id uuid.UUID) (*types.Tag, error) {
	return s.tagRepo.GetByID(ctx, nil, ownerID, id)
}

func (s *tagService) RenameTag(ctx context.Context, ownerID, id uuid.UUID, newName string) (*types.Tag, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperrors.Invalidf("tag name must not be empty")
	}

	current, err := s.tagRepo.GetByID(ctx, nil, ownerID, id)
	if err != nil {
		return nil, err
	}
	if types.TagID(ownerID, newName) == current.ID {
		// Same normalized name: only the display casing can change.
		current.Name = newName
		current.UpdatedAt = time.Now().UTC()
		return s.tagRepo.Upsert(ctx, nil, current)
	}

	renamed, err := s.CreateTag(ctx, ownerID, newName)
	if err != nil {
		return nil, err
	}
	if err := s.tagRepo.SoftDelete(ctx, nil, ownerID, current.ID); err != nil {
		return nil, fmt.Errorf("retire old tag: %w", err)
	}
	return renamed, nil
}

func (s *tagService) DeleteTag(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.tagRepo.SoftDelete(ctx, nil, ownerID, id)
}

func (s *tagService) ListTags(ctx context.Context, ownerID uuid.UUID, req pagination.Request) (*pagination.Page[*types.Tag], error) {
	return pagination.Paginate[*types.Tag](ctx, s.tagRepo.PageSource(ownerID), req)
}

func (s *tagService) LearnPendingTags(ctx context.Context, ownerID uuid.UUID) (int, error) {
	pending, err := s.tagRepo.SemanticsPendingLearn(ctx, nil, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list pending semantics: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	ids, err := s.suggestions.LearnSemantics(ctx, pending)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
