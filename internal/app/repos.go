package app

import (
	"gorm.io/gorm"

	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/repos"
)

type Repos struct {
	Tag        repos.TagRepo
	Content    repos.ContentRepo
	ContentTag repos.ContentTagRepo
	Concept    repos.ConceptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Tag:        repos.NewTagRepo(db, log),
		Content:    repos.NewContentRepo(db, log),
		ContentTag: repos.NewContentTagRepo(db, log),
		Concept:    repos.NewConceptRepo(db, log),
	}
}
