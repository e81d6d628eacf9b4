package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/types"
)

type ConceptRepo interface {
	// UpsertEmbeddings writes learned concepts: insert, or on id conflict
	// replace the embedding and timestamp. Concurrent learns of the same
	// semantic converge because the id is content-addressed.
	UpsertEmbeddings(ctx context.Context, tx *gorm.DB, rows []*types.Concept) error
	// EnsureExists reserves a concept row with a NULL embedding. An existing
	// row, learned or not, is never overwritten.
	EnsureExists(ctx context.Context, tx *gorm.DB, row *types.Concept) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Concept, error)
}

type conceptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRepo {
	return &conceptRepo{db: db, log: baseLog.With("repo", "ConceptRepo")}
}

func (r *conceptRepo) UpsertEmbeddings(ctx context.Context, tx *gorm.DB, rows []*types.Concept) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "updated_at"}),
	}).Create(&rows).Error
}

func (r *conceptRepo) EnsureExists(ctx context.Context, tx *gorm.DB, row *types.Concept) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(row).Error
}

func (r *conceptRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return []*types.Concept{}, nil
	}
	var rows []*types.Concept
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
