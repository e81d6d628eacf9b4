package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/pagination"
	"github.com/taghive/taghive-backend/internal/types"
)

// ContentSegmentSize bounds the id scan of one content-listing segment.
const ContentSegmentSize = 2000

type ContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, content *types.Content) (*types.Content, error)
	GetByID(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (*types.Content, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) error
	PageSource(ownerID uuid.UUID) pagination.Source[*types.Content]
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return &contentRepo{db: db, log: baseLog.With("repo", "ContentRepo")}
}

func (r *contentRepo) Create(ctx context.Context, tx *gorm.DB, content *types.Content) (*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(content).Error; err != nil {
		return nil, err
	}
	return content, nil
}

func (r *contentRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var content types.Content
	err := transaction.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundf("content %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Model(&types.Content{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("content %s", id)
	}
	return nil
}

func (r *contentRepo) SoftDelete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&types.Content{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("content %s", id)
	}
	return nil
}

func (r *contentRepo) PageSource(ownerID uuid.UUID) pagination.Source[*types.Content] {
	return &contentPageSource{repo: r, ownerID: ownerID}
}

type contentPageSource struct {
	repo    *contentRepo
	ownerID uuid.UUID
}

func (s *contentPageSource) SegmentSize() int { return ContentSegmentSize }

func (s *contentPageSource) ResolveAnchor(ctx context.Context, id uuid.UUID) (*pagination.Entry, error) {
	var entry pagination.Entry
	err := s.repo.db.WithContext(ctx).Model(&types.Content{}).
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

func (s *contentPageSource) ScanEntries(ctx context.Context, anchor *pagination.Entry, dir pagination.Direction, limit int) ([]pagination.Entry, error) {
	q := s.repo.db.WithContext(ctx).Model(&types.Content{}).
		Select("id", "created_at").
		Where("owner_id = ?", s.ownerID)
	q = applyScanWindow(q, anchor, dir)
	var entries []pagination.Entry
	if err := q.Limit(limit).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *contentPageSource) FetchByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Content, error) {
	if len(ids) == 0 {
		return []*types.Content{}, nil
	}
	var rows []*types.Content
	if err := s.repo.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", s.ownerID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *contentPageSource) IDOf(item *types.Content) uuid.UUID { return item.ID }
