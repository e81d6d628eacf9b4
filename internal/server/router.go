package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/taghive/taghive-backend/internal/handlers"
	"github.com/taghive/taghive-backend/internal/middleware"
	"github.com/taghive/taghive-backend/internal/utils"
)

type RouterConfig struct {
	AuthMiddleware    *middleware.AuthMiddleware
	TagHandler        *handlers.TagHandler
	ContentHandler    *handlers.ContentHandler
	SuggestionHandler *handlers.SuggestionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("taghive"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Tags
	api.POST("/tags", cfg.TagHandler.Create)
	api.GET("/tags", cfg.TagHandler.List)
	api.POST("/tags/learn", cfg.TagHandler.Learn)
	api.GET("/tags/:id", cfg.TagHandler.Get)
	api.PATCH("/tags/:id", cfg.TagHandler.Rename)
	api.DELETE("/tags/:id", cfg.TagHandler.Delete)

	// Contents
	api.POST("/contents", cfg.ContentHandler.Create)
	api.GET("/contents", cfg.ContentHandler.List)
	api.GET("/contents/:id", cfg.ContentHandler.Get)
	api.PATCH("/contents/:id", cfg.ContentHandler.Update)
	api.DELETE("/contents/:id", cfg.ContentHandler.Delete)

	// Content tags
	api.GET("/contents/:id/tags", cfg.ContentHandler.ListTags)
	api.POST("/contents/:id/tags/:tagId", cfg.ContentHandler.AttachTag)
	api.DELETE("/contents/:id/tags/:tagId", cfg.ContentHandler.DetachTag)

	// Suggestions
	api.GET("/contents/:id/suggestions", cfg.SuggestionHandler.ForContent)
	api.POST("/suggestions", cfg.SuggestionHandler.AdHoc)

	return router
}

func corsOrigins() []string {
	raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", nil)
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
