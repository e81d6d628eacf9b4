package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/jobs"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/pagination"
	"github.com/taghive/taghive-backend/internal/repos"
	"github.com/taghive/taghive-backend/internal/types"
)

// ContentUpdate carries the mutable content fields; nil means unchanged.
type ContentUpdate struct {
	Title    *string
	Body     *string
	Metadata datatypes.JSON
}

type ContentService interface {
	CreateContent(ctx context.Context, ownerID uuid.UUID, title, body string, contentType types.ContentType, metadata datatypes.JSON) (*types.Content, error)
	GetContent(ctx context.Context, ownerID, id uuid.UUID) (*types.Content, error)
	UpdateContent(ctx context.Context, ownerID, id uuid.UUID, update ContentUpdate) (*types.Content, error)
	DeleteContent(ctx context.Context, ownerID, id uuid.UUID) error
	ListContents(ctx context.Context, ownerID uuid.UUID, req pagination.Request) (*pagination.Page[*types.Content], error)

	AttachTag(ctx context.Context, ownerID, contentID, tagID uuid.UUID) (*types.ContentTag, error)
	DetachTag(ctx context.Context, ownerID, contentID, tagID uuid.UUID) error
	ListContentTags(ctx context.Context, ownerID, contentID uuid.UUID, req pagination.Request) (*pagination.Page[*types.ContentTag], error)
}

type contentService struct {
	log            *logger.Logger
	contentRepo    repos.ContentRepo
	tagRepo        repos.TagRepo
	contentTagRepo repos.ContentTagRepo
	suggestions    SuggestionService
	worker         *jobs.Worker
}

func NewContentService(
	baseLog *logger.Logger,
	contentRepo repos.ContentRepo,
	tagRepo repos.TagRepo,
	contentTagRepo repos.ContentTagRepo,
	suggestions SuggestionService,
	worker *jobs.Worker,
) ContentService {
	return &contentService{
		log:            baseLog.With("service", "ContentService"),
		contentRepo:    contentRepo,
		tagRepo:        tagRepo,
		contentTagRepo: contentTagRepo,
		suggestions:    suggestions,
		worker:         worker,
	}
}

func (s *contentService) CreateContent(ctx context.Context, ownerID uuid.UUID, title, body string, contentType types.ContentType, metadata datatypes.JSON) (*types.Content, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.Invalidf("content title must not be empty")
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.Invalidf("content body must not be empty")
	}
	if !contentType.Valid() {
		return nil, apperrors.Invalidf("unknown content type %q", contentType)
	}

	now := time.Now().UTC()
	content, err := s.contentRepo.Create(ctx, nil, &types.Content{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Body:        body,
		ContentType: contentType,
		Metadata:    metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	s.submitSuggestionRefresh(ownerID, content.ID, content.Body)
	return content, nil
}

// submitSuggestionRefresh queues suggestion computation so the write path
// never waits on the embedding provider.
func (s *contentService) submitSuggestionRefresh(ownerID, contentID uuid.UUID, body string) {
	err := s.worker.Submit(jobs.Task{
		Name: "refresh-content-suggestions",
		Run: func(ctx context.Context) error {
			_, err := s.suggestions.CreateSuggestionsForContent(ctx, ownerID, &contentID, body)
			return err
		},
	})
	if err != nil {
		s.log.Warn("could not queue suggestion refresh", "content_id", contentID, "error", err)
	}
}

func (s *contentService) GetContent(ctx context.Context, ownerID, id uuid.UUID) (*types.Content, error) {
	return s.contentRepo.GetByID(ctx, nil, ownerID, id)
}

func (s *contentService) UpdateContent(ctx context.Context, ownerID, id uuid.UUID, update ContentUpdate) (*types.Content, error) {
	updates := map[string]interface{}{}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.Invalidf("content title must not be empty")
		}
		updates["title"] = title
	}
	bodyChanged := false
	if update.Body != nil {
		if strings.TrimSpace(*update.Body) == "" {
			return nil, apperrors.Invalidf("content body must not be empty")
		}
		updates["body"] = *update.Body
		bodyChanged = true
	}
	if update.Metadata != nil {
		updates["metadata"] = update.Metadata
	}
	if len(updates) == 0 {
		return nil, apperrors.Invalidf("no fields to update")
	}
	updates["updated_at"] = time.Now().UTC()

	if err := s.contentRepo.UpdateFields(ctx, nil, ownerID, id, updates); err != nil {
		return nil, err
	}
	content, err := s.contentRepo.GetByID(ctx, nil, ownerID, id)
	if err != nil {
		return nil, err
	}

	if bodyChanged {
		// A stale suggestion set is worse than none.
		s.suggestions.InvalidateForContent(ctx, ownerID, id)
		s.submitSuggestionRefresh(ownerID, id, content.Body)
	}
	return content, nil
}

func (s *contentService) DeleteContent(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.contentRepo.SoftDelete(ctx, nil, ownerID, id); err != nil {
		return err
	}
	s.suggestions.InvalidateForContent(ctx, ownerID, id)
	return nil
}

func (s *contentService) ListContents(ctx context.Context, ownerID uuid.UUID, req pagination.Request) (*pagination.Page[*types.Content], error) {
	return pagination.Paginate[*types.Content](ctx, s.contentRepo.PageSource(ownerID), req)
}

func (s *contentService) AttachTag(ctx context.Context, ownerID, contentID, tagID uuid.UUID) (*types.ContentTag, error) {
	// Both sides must exist and belong to the caller; the lookups are
	// owner-scoped, so foreign rows surface as not-found.
	if _, err := s.contentRepo.GetByID(ctx, nil, ownerID, contentID); err != nil {
		return nil, err
	}
	if _, err := s.tagRepo.GetByID(ctx, nil, ownerID, tagID); err != nil {
		return nil, err
	}
	return s.contentTagRepo.Attach(ctx, nil, &types.ContentTag{
		ID:        types.ContentTagID(contentID, tagID),
		ContentID: contentID,
		TagID:     tagID,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *contentService) DetachTag(ctx context.Context, ownerID, contentID, tagID uuid.UUID) error {
	return s.contentTagRepo.Detach(ctx, nil, ownerID, contentID, tagID)
}

func (s *contentService) ListContentTags(ctx context.Context, ownerID, contentID uuid.UUID, req pagination.Request) (*pagination.Page[*types.ContentTag], error) {
	return pagination.Paginate[*types.ContentTag](ctx, s.contentTagRepo.PageSource(ownerID, contentID), req)
}
