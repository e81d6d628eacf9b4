package repos

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/pagination"
	"github.com/taghive/taghive-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Tag{}, &types.Content{}, &types.ContentTag{}, &types.Concept{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func mkTag(owner uuid.UUID, name string, createdAt time.Time) *types.Tag {
	return &types.Tag{
		ID:        types.TagID(owner, name),
		OwnerID:   owner,
		Name:      name,
		Semantic:  name,
		ConceptID: types.ConceptID(name),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTagUpsertResurrects(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepo(db, newTestLogger(t))
	ctx := context.Background()
	owner := uuid.New()

	now := time.Now().UTC()
	first, err := repo.Upsert(ctx, nil, mkTag(owner, "travel", now))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.SoftDelete(ctx, nil, owner, first.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, nil, owner, first.ID); err == nil {
		t.Fatal("soft-deleted tag must not be readable")
	}

	second, err := repo.Upsert(ctx, nil, mkTag(owner, "Travel", now.Add(time.Minute)))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-created tag must keep its id: %s vs %s", second.ID, first.ID)
	}

	got, err := repo.GetByID(ctx, nil, owner, first.ID)
	if err != nil {
		t.Fatalf("resurrected tag must be readable: %v", err)
	}
	if got.Name != "Travel" {
		t.Fatalf("resurrected tag name = %q, want refreshed %q", got.Name, "Travel")
	}

	var total int64
	if err := db.Unscoped().Model(&types.Tag{}).Where("owner_id = ?", owner).Count(&total).Error; err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("expected exactly one physical row, got %d", total)
	}
}

func TestTagGetByIDScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepo(db, newTestLogger(t))
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	tag, err := repo.Upsert(ctx, nil, mkTag(owner, "work", time.Now().UTC()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, nil, stranger, tag.ID); err == nil {
		t.Fatal("cross-owner read must fail at the query filter")
	}
}

func TestTagPageSourceWalk(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepo(db, newTestLogger(t)).(*tagRepo)
	ctx := context.Background()
	owner := uuid.New()

	const n = TagSegmentSize + 150
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]*types.Tag, 0, n)
	for i := 0; i < n; i++ {
		name := "tag-" + uuid.NewString()
		rows = append(rows, mkTag(owner, name, base.Add(time.Duration(i)*time.Second)))
	}
	if err := db.CreateInBatches(&rows, 500).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	src := repo.PageSource(owner)

	first, err := pagination.Paginate[*types.Tag](ctx, src, pagination.Request{Limit: TagSegmentSize, Offset: 0})
	if err != nil {
		t.Fatalf("first segment: %v", err)
	}
	if first.Metadata.ChunkTotalItems != TagSegmentSize {
		t.Fatalf("first segment size = %d, want %d", first.Metadata.ChunkTotalItems, TagSegmentSize)
	}
	if first.Metadata.NextChunkID == nil {
		t.Fatal("expected a next segment")
	}
	for i := 1; i < len(first.Data); i++ {
		if first.Data[i].CreatedAt.After(first.Data[i-1].CreatedAt) {
			t.Fatal("segment not in descending created_at order")
		}
	}

	// A small page is a prefix slice of the full segment.
	page, err := pagination.Paginate[*types.Tag](ctx, src, pagination.Request{Limit: 10, Offset: 5})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page.Data) != 10 {
		t.Fatalf("page size = %d, want 10", len(page.Data))
	}
	for i, row := range page.Data {
		if row.ID != first.Data[5+i].ID {
			t.Fatalf("page row %d does not match segment slice", i)
		}
	}

	second, err := pagination.Paginate[*types.Tag](ctx, src, pagination.Request{ChunkID: first.Metadata.NextChunkID, Limit: TagSegmentSize, Offset: 0})
	if err != nil {
		t.Fatalf("second segment: %v", err)
	}
	if second.Metadata.ChunkTotalItems != 150 {
		t.Fatalf("second segment size = %d, want 150", second.Metadata.ChunkTotalItems)
	}
	if second.Metadata.NextChunkID != nil {
		t.Fatal("no third segment expected")
	}
	if second.Metadata.PrevChunkID == nil {
		t.Fatal("second segment must report a previous boundary")
	}
	oldestFirst := first.Data[len(first.Data)-1]
	for _, row := range second.Data {
		if row.CreatedAt.After(oldestFirst.CreatedAt) {
			t.Fatal("second segment contains rows newer than the first segment")
		}
		if row.ID == oldestFirst.ID {
			t.Fatal("segments overlap")
		}
	}

	// Anchoring on a deleted row behaves like an unanchored request.
	victim := first.Data[0]
	if err := repo.SoftDelete(ctx, nil, owner, victim.ID); err != nil {
		t.Fatal(err)
	}
	ghostAnchored, err := pagination.Paginate[*types.Tag](ctx, src, pagination.Request{ChunkID: &victim.ID, Limit: 5, Offset: 0})
	if err != nil {
		t.Fatalf("deleted anchor must not error: %v", err)
	}
	unanchored, err := pagination.Paginate[*types.Tag](ctx, src, pagination.Request{Limit: 5, Offset: 0})
	if err != nil {
		t.Fatal(err)
	}
	for i := range unanchored.Data {
		if ghostAnchored.Data[i].ID != unanchored.Data[i].ID {
			t.Fatal("deleted anchor did not fall back to top-of-list")
		}
	}
}

func TestConceptEnsureExistsNeverOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewConceptRepo(db, newTestLogger(t))
	ctx := context.Background()

	learned := &types.Concept{
		ID:        types.ConceptID("travel and vacations"),
		Semantic:  "travel and vacations",
		Embedding: types.Vector{0.1, 0.2},
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.UpsertEmbeddings(ctx, nil, []*types.Concept{learned}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.EnsureExists(ctx, nil, &types.Concept{
		ID:        learned.ID,
		Semantic:  learned.Semantic,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, nil, []uuid.UUID{learned.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one concept row, got %d", len(rows))
	}
	if len(rows[0].Embedding) != 2 {
		t.Fatalf("ensure must not clear a learned embedding, got %v", rows[0].Embedding)
	}
}

func TestConceptUpsertLearnsPlaceholder(t *testing.T) {
	db := newTestDB(t)
	repo := NewConceptRepo(db, newTestLogger(t))
	ctx := context.Background()

	placeholder := &types.Concept{
		ID:        types.ConceptID("work"),
		Semantic:  "work",
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.EnsureExists(ctx, nil, placeholder); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpsertEmbeddings(ctx, nil, []*types.Concept{{
		ID:        placeholder.ID,
		Semantic:  "work",
		Embedding: types.Vector{1, 0},
		UpdatedAt: time.Now().UTC(),
	}}); err != nil {
		t.Fatal(err)
	}

	rows, err := repo.GetByIDs(ctx, nil, []uuid.UUID{placeholder.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || len(rows[0].Embedding) != 2 {
		t.Fatalf("placeholder concept must be learnable, got %+v", rows)
	}
}

func TestSemanticsPendingLearn(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	tagRepo := NewTagRepo(db, log)
	conceptRepo := NewConceptRepo(db, log)
	ctx := context.Background()
	owner := uuid.New()

	now := time.Now().UTC()
	if _, err := tagRepo.Upsert(ctx, nil, mkTag(owner, "learned", now)); err != nil {
		t.Fatal(err)
	}
	if _, err := tagRepo.Upsert(ctx, nil, mkTag(owner, "pending", now)); err != nil {
		t.Fatal(err)
	}
	if _, err := tagRepo.Upsert(ctx, nil, mkTag(owner, "reserved", now)); err != nil {
		t.Fatal(err)
	}
	if err := conceptRepo.UpsertEmbeddings(ctx, nil, []*types.Concept{{
		ID:        types.ConceptID("learned"),
		Semantic:  "learned",
		Embedding: types.Vector{1},
		UpdatedAt: now,
	}}); err != nil {
		t.Fatal(err)
	}
	if err := conceptRepo.EnsureExists(ctx, nil, &types.Concept{
		ID:        types.ConceptID("reserved"),
		Semantic:  "reserved",
		UpdatedAt: now,
	}); err != nil {
		t.Fatal(err)
	}

	pending, err := tagRepo.SemanticsPendingLearn(ctx, nil, owner)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, s := range pending {
		got[s] = true
	}
	if len(got) != 2 || !got["pending"] || !got["reserved"] {
		t.Fatalf("pending semantics = %v, want [pending reserved]", pending)
	}
}

func TestContentTagAttachIdempotentAndDetach(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentTagRepo(db, newTestLogger(t))
	ctx := context.Background()
	owner, contentID, tagID := uuid.New(), uuid.New(), uuid.New()

	row := &types.ContentTag{
		ID:        types.ContentTagID(contentID, tagID),
		ContentID: contentID,
		TagID:     tagID,
		OwnerID:   owner,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := repo.Attach(ctx, nil, row); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := repo.Attach(ctx, nil, row); err != nil {
		t.Fatalf("duplicate attach must be a no-op: %v", err)
	}

	var count int64
	if err := db.Model(&types.ContentTag{}).Where("content_id = ?", contentID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected one join row, got %d", count)
	}

	if err := repo.Detach(ctx, nil, owner, contentID, tagID); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if err := repo.Detach(ctx, nil, owner, contentID, tagID); err == nil {
		t.Fatal("detaching a missing join row must report not found")
	}
}

func TestContentUpdateAndSoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepo(db, newTestLogger(t))
	ctx := context.Background()
	owner := uuid.New()

	content := &types.Content{
		ID:          uuid.New(),
		OwnerID:     owner,
		Title:       "Trip notes",
		Body:        "Trip to Tokyo next spring",
		ContentType: types.ContentTypePlainText,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if _, err := repo.Create(ctx, nil, content); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateFields(ctx, nil, owner, content.ID, map[string]interface{}{
		"body":       "Trip to Osaka next spring",
		"updated_at": time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByID(ctx, nil, owner, content.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Body != "Trip to Osaka next spring" {
		t.Fatalf("body not updated: %q", got.Body)
	}

	if err := repo.SoftDelete(ctx, nil, owner, content.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, nil, owner, content.ID); err == nil {
		t.Fatal("soft-deleted content must not be readable")
	}
	var total int64
	if err := db.Unscoped().Model(&types.Content{}).Where("id = ?", content.ID).Count(&total).Error; err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatal("soft delete must never hard-remove the row")
	}
}
