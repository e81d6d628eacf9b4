package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/jobs"
	"github.com/taghive/taghive-backend/internal/types"
)

func newTagFixture(t *testing.T, embedder *fakeEmbedder) (TagService, *fakeTagRepo, *fakeConceptRepo, context.CancelFunc) {
	t.Helper()
	log := newTestLogger(t)
	tagRepo := &fakeTagRepo{tagVecs: map[uuid.UUID][]float32{}}
	conceptRepo := newFakeConceptRepo()
	suggestions := NewSuggestionService(log, embedder, tagRepo, conceptRepo, newFakeCache(), time.Minute, 10)

	worker := jobs.NewWorker(log, 16)
	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	svc := NewTagService(log, tagRepo, suggestions, worker)
	return svc, tagRepo, conceptRepo, cancel
}

func waitForConcept(t *testing.T, repo *fakeConceptRepo, id uuid.UUID) *types.Concept {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if row, ok := repo.get(id); ok && len(row.Embedding) > 0 {
			return row
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("concept %s never learned", id)
	return nil
}

func TestCreateTagDerivesDeterministicID(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{"travel": {1, 0}}}
	svc, _, conceptRepo, cancel := newTagFixture(t, embedder)
	defer cancel()
	owner := uuid.New()

	tag, err := svc.CreateTag(context.Background(), owner, "  Travel ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tag.ID != types.TagID(owner, "travel") {
		t.Fatal("tag id must be deterministic over the normalized name")
	}
	if tag.Semantic != "travel" {
		t.Fatalf("semantic = %q, want normalized %q", tag.Semantic, "travel")
	}
	if tag.ConceptID != types.ConceptID("travel") {
		t.Fatal("concept id must be deterministic over the semantic")
	}

	// The concept row is reserved synchronously and learned in the background.
	if _, ok := conceptRepo.get(tag.ConceptID); !ok {
		t.Fatal("concept row must exist immediately after create")
	}
	waitForConcept(t, conceptRepo, tag.ConceptID)
}

func TestCreateTagEmptyNameRejected(t *testing.T) {
	svc, _, _, cancel := newTagFixture(t, &fakeEmbedder{})
	defer cancel()

	if _, err := svc.CreateTag(context.Background(), uuid.New(), "   "); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestRenameTagMovesToNewDeterministicID(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"projects": {1, 0},
		"archive":  {0, 1},
	}}
	svc, tagRepo, _, cancel := newTagFixture(t, embedder)
	defer cancel()
	owner := uuid.New()

	old, err := svc.CreateTag(context.Background(), owner, "projects")
	if err != nil {
		t.Fatal(err)
	}
	renamed, err := svc.RenameTag(context.Background(), owner, old.ID, "archive")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.ID == old.ID {
		t.Fatal("a new normalized name must produce a new id")
	}
	if renamed.ID != types.TagID(owner, "archive") {
		t.Fatal("renamed tag id must be deterministic over the new name")
	}
	if len(tagRepo.deleted) != 1 || tagRepo.deleted[0] != old.ID {
		t.Fatalf("old tag must be retired, deleted = %v", tagRepo.deleted)
	}
}

func TestRenameTagCasingOnlyKeepsID(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{"projects": {1, 0}}}
	svc, _, _, cancel := newTagFixture(t, embedder)
	defer cancel()
	owner := uuid.New()

	old, err := svc.CreateTag(context.Background(), owner, "projects")
	if err != nil {
		t.Fatal(err)
	}
	renamed, err := svc.RenameTag(context.Background(), owner, old.ID, "Projects")
	if err != nil {
		t.Fatal(err)
	}
	if renamed.ID != old.ID {
		t.Fatal("casing-only rename must keep the id")
	}
	if renamed.Name != "Projects" {
		t.Fatalf("display name = %q, want %q", renamed.Name, "Projects")
	}
}

func TestLearnPendingTags(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0},
		"beta":  {0, 1},
	}}
	svc, tagRepo, conceptRepo, cancel := newTagFixture(t, embedder)
	defer cancel()
	owner := uuid.New()

	seedTag(tagRepo, owner, "alpha", nil)
	seedTag(tagRepo, owner, "beta", nil)
	learnedTag := seedTag(tagRepo, owner, "gamma", []float32{1, 1})
	tagRepo.tagVecs[learnedTag.ID] = []float32{1, 1}

	learned, err := svc.LearnPendingTags(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	if learned != 2 {
		t.Fatalf("learned = %d, want 2", learned)
	}
	if _, ok := conceptRepo.get(types.ConceptID("alpha")); !ok {
		t.Fatal("alpha concept not learned")
	}
	if _, ok := conceptRepo.get(types.ConceptID("beta")); !ok {
		t.Fatal("beta concept not learned")
	}
}

func TestLearnPendingTagsNothingToDo(t *testing.T) {
	embedder := &fakeEmbedder{}
	svc, tagRepo, _, cancel := newTagFixture(t, embedder)
	defer cancel()
	owner := uuid.New()

	tag := seedTag(tagRepo, owner, "done", []float32{1, 0})
	tagRepo.tagVecs[tag.ID] = []float32{1, 0}

	learned, err := svc.LearnPendingTags(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	if learned != 0 {
		t.Fatalf("learned = %d, want 0", learned)
	}
}
