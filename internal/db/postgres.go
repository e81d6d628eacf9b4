package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/types"
	"github.com/taghive/taghive-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "taghive", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	for _, ext := range []string{"uuid-ossp", "vector"} {
		if err := gdb.Exec(fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS %q;`, ext)).Error; err != nil {
			serviceLog.Error("Failed to enable extension", "extension", ext, "error", err)
			return nil, fmt.Errorf("enable %s extension: %w", ext, err)
		}
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&types.Tag{},
		&types.Content{},
		&types.ContentTag{},
		&types.Concept{},
	); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// Composite ordering indexes the chunked pagination scans rely on, and
	// the cosine index the suggestion ranking query relies on.
	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_tag_owner_scan ON "tag" (owner_id, deleted_at, created_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_content_owner_scan ON "content" (owner_id, deleted_at, created_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_content_tag_scan ON "content_tag" (content_id, created_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_concept_embedding ON "concept" USING ivfflat (embedding vector_cosine_ops)`,
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			s.log.Error("Failed to create index", "statement", stmt, "error", err)
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
