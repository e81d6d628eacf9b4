package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/pagination"
	"github.com/taghive/taghive-backend/internal/types"
)

// TagSegmentSize bounds the id scan of one tag-listing segment.
const TagSegmentSize = 2000

// TagDistance is one row of the pushed-down nearest-neighbor ranking.
type TagDistance struct {
	TagID    uuid.UUID `gorm:"column:tag_id"`
	Name     string    `gorm:"column:name"`
	Distance float64   `gorm:"column:distance"`
}

type TagRepo interface {
	// Upsert inserts the tag or, on id conflict, refreshes its fields and
	// clears the soft-delete marker (create-or-resurrect).
	Upsert(ctx context.Context, tx *gorm.DB, tag *types.Tag) (*types.Tag, error)
	GetByID(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (*types.Tag, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) error
	// PageSource adapts this owner's live tags to the pagination engine.
	PageSource(ownerID uuid.UUID) pagination.Source[*types.Tag]
	// NearestByVector ranks the owner's live tags by cosine distance between
	// their learned concept embeddings and the given vector, ascending.
	NearestByVector(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, embedding types.Vector, limit int) ([]TagDistance, error)
	// SemanticsPendingLearn lists semantics of the owner's live tags whose
	// concepts have no embedding yet.
	SemanticsPendingLearn(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]string, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) Upsert(ctx context.Context, tx *gorm.DB, tag *types.Tag) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	// Unscoped so the conflict target also matches soft-deleted rows.
	if err := transaction.WithContext(ctx).Unscoped().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":       tag.Name,
			"semantic":   tag.Semantic,
			"concept_id": tag.ConceptID,
			"updated_at": tag.UpdatedAt,
			"deleted_at": nil,
		}),
	}).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *tagRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var tag types.Tag
	err := transaction.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundf("tag %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepo) SoftDelete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&types.Tag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("tag %s", id)
	}
	return nil
}

func (r *tagRepo) PageSource(ownerID uuid.UUID) pagination.Source[*types.Tag] {
	return &tagPageSource{repo: r, ownerID: ownerID}
}

func (r *tagRepo) NearestByVector(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, embedding types.Vector, limit int) ([]TagDistance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		return []TagDistance{}, nil
	}
	var out []TagDistance
	err := transaction.WithContext(ctx).Raw(`
		SELECT t.id AS tag_id, t.name AS name, c.embedding <=> ?::vector AS distance
		FROM "tag" t
		JOIN "concept" c ON c.id = t.concept_id
		WHERE t.owner_id = ? AND t.deleted_at IS NULL AND c.embedding IS NOT NULL
		ORDER BY distance ASC
		LIMIT ?`, embedding, ownerID, limit).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) SemanticsPendingLearn(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var semantics []string
	err := transaction.WithContext(ctx).Raw(`
		SELECT DISTINCT t.semantic
		FROM "tag" t
		LEFT JOIN "concept" c ON c.id = t.concept_id
		WHERE t.owner_id = ? AND t.deleted_at IS NULL
		  AND (c.id IS NULL OR c.embedding IS NULL)`, ownerID).Scan(&semantics).Error
	if err != nil {
		return nil, err
	}
	return semantics, nil
}

type tagPageSource struct {
	repo    *tagRepo
	ownerID uuid.UUID
}

func (s *tagPageSource) SegmentSize() int { return TagSegmentSize }

func (s *tagPageSource) ResolveAnchor(ctx context.Context, id uuid.UUID) (*pagination.Entry, error) {
	var entry pagination.Entry
	err := s.repo.db.WithContext(ctx).Model(&types.Tag{}).
		Select("id", "created_at").
		Where("owner_id = ? AND id = ?", s.ownerID, id).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *tagPageSource) ScanEntries(ctx context.Context, anchor *pagination.Entry, dir pagination.Direction, limit int) ([]pagination.Entry, error) {
	q := s.repo.db.WithContext(ctx).Model(&types.Tag{}).
		Select("id", "created_at").
		Where("owner_id = ?", s.ownerID)
	q = applyScanWindow(q, anchor, dir)
	var entries []pagination.Entry
	if err := q.Limit(limit).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *tagPageSource) FetchByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Tag, error) {
	if len(ids) == 0 {
		return []*types.Tag{}, nil
	}
	var rows []*types.Tag
	if err := s.repo.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", s.ownerID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *tagPageSource) IDOf(item *types.Tag) uuid.UUID { return item.ID }

// applyScanWindow applies the anchored filter and the sort order shared by
// all page sources. NEXT descends and includes the anchor tuple; PREVIOUS
// ascends and excludes it.
func applyScanWindow(q *gorm.DB, anchor *pagination.Entry, dir pagination.Direction) *gorm.DB {
	if dir == pagination.DirectionPrevious {
		if anchor != nil {
			q = q.Where("(created_at, id) > (?, ?)", anchor.CreatedAt, anchor.ID)
		}
		return q.Order("created_at ASC, id ASC")
	}
	if anchor != nil {
		q = q.Where("(created_at, id) <= (?, ?)", anchor.CreatedAt, anchor.ID)
	}
	return q.Order("created_at DESC, id DESC")
}
