package app

import (
	"github.com/gin-gonic/gin"

	"github.com/taghive/taghive-backend/internal/handlers"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/server"
)

type Handlers struct {
	Tag        *handlers.TagHandler
	Content    *handlers.ContentHandler
	Suggestion *handlers.SuggestionHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Tag:        handlers.NewTagHandler(log, serviceset.Tag),
		Content:    handlers.NewContentHandler(log, serviceset.Content),
		Suggestion: handlers.NewSuggestionHandler(log, serviceset.Content, serviceset.Suggestion),
	}
}

func wireRouter(handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:    mw.Auth,
		TagHandler:        handlerset.Tag,
		ContentHandler:    handlerset.Content,
		SuggestionHandler: handlerset.Suggestion,
	})
}
