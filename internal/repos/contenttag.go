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

// ContentTagSegmentSize bounds the id scan of one content-tag listing
// segment. Much smaller than the entity listings: a single content item
// rarely carries many tags.
const ContentTagSegmentSize = 100

type ContentTagRepo interface {
	// Attach inserts the join row; a duplicate attach is a no-op.
	Attach(ctx context.Context, tx *gorm.DB, row *types.ContentTag) (*types.ContentTag, error)
	Detach(ctx context.Context, tx *gorm.DB, ownerID, contentID, tagID uuid.UUID) error
	PageSource(ownerID, contentID uuid.UUID) pagination.Source[*types.ContentTag]
}

type contentTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentTagRepo(db *gorm.DB, baseLog *logger.Logger) ContentTagRepo {
	return &contentTagRepo{db: db, log: baseLog.With("repo", "ContentTagRepo")}
}

func (r *contentTagRepo) Attach(ctx context.Context, tx *gorm.DB, row *types.ContentTag) (*types.ContentTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *contentTagRepo) Detach(ctx context.Context, tx *gorm.DB, ownerID, contentID, tagID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("owner_id = ? AND content_id = ? AND tag_id = ?", ownerID, contentID, tagID).
		Delete(&types.ContentTag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("content %s has no tag %s", contentID, tagID)
	}
	return nil
}

func (r *contentTagRepo) PageSource(ownerID, contentID uuid.UUID) pagination.Source[*types.ContentTag] {
	return &contentTagPageSource{repo: r, ownerID: ownerID, contentID: contentID}
}

type contentTagPageSource struct {
	repo      *contentTagRepo
	ownerID   uuid.UUID
	contentID uuid.UUID
}

func (s *contentTagPageSource) SegmentSize() int { return ContentTagSegmentSize }

func (s *contentTagPageSource) ResolveAnchor(ctx context.Context, id uuid.UUID) (*pagination.Entry, error) {
	var entry pagination.Entry
	err := s.repo.db.WithContext(ctx).Model(&types.ContentTag{}).
		Select("id", "created_at").
		Where("owner_id = ? AND content_id = ? AND id = ?", s.ownerID, s.contentID, id).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *contentTagPageSource) ScanEntries(ctx context.Context, anchor *pagination.Entry, dir pagination.Direction, limit int) ([]pagination.Entry, error) {
	q := s.repo.db.WithContext(ctx).Model(&types.ContentTag{}).
		Select("id", "created_at").
		Where("owner_id = ? AND content_id = ?", s.ownerID, s.contentID)
	q = applyScanWindow(q, anchor, dir)
	var entries []pagination.Entry
	if err := q.Limit(limit).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *contentTagPageSource) FetchByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.ContentTag, error) {
	if len(ids) == 0 {
		return []*types.ContentTag{}, nil
	}
	var rows []*types.ContentTag
	if err := s.repo.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", s.ownerID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *contentTagPageSource) IDOf(item *types.ContentTag) uuid.UUID { return item.ID }
