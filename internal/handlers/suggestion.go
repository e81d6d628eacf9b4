package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/services"
)

type SuggestionHandler struct {
	log               *logger.Logger
	contentService    services.ContentService
	suggestionService services.SuggestionService
}

func NewSuggestionHandler(log *logger.Logger, contentService services.ContentService, suggestionService services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{
		log:               log.With("handler", "SuggestionHandler"),
		contentService:    contentService,
		suggestionService: suggestionService,
	}
}

// ForContent serves suggestions for stored content: the cached set when
// fresh, otherwise computed on the spot and cached.
func (h *SuggestionHandler) ForContent(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	contentID, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_content_id", err)
		return
	}
	ctx := c.Request.Context()

	if cached, ok := h.suggestionService.CachedSuggestions(ctx, owner, contentID); ok {
		RespondOK(c, gin.H{"suggestions": cached, "cached": true})
		return
	}

	content, err := h.contentService.GetContent(ctx, owner, contentID)
	if err != nil {
		RespondAppError(c, "get_content_failed", err)
		return
	}
	result, err := h.suggestionService.CreateSuggestionsForContent(ctx, owner, &contentID, content.Body)
	if err != nil {
		h.log.Error("ForContent failed", "error", err, "user_id", owner, "content_id", contentID)
		RespondAppError(c, "suggestions_failed", err)
		return
	}
	RespondOK(c, gin.H{"suggestions": result, "cached": false})
}

// AdHoc computes suggestions for text that is not persisted. Nothing is
// cached.
func (h *SuggestionHandler) AdHoc(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondAppError(c, "bad_request_body", apperrors.Invalidf("request body: %v", err))
		return
	}
	result, err := h.suggestionService.CreateSuggestionsForContent(c.Request.Context(), owner, nil, body.Text)
	if err != nil {
		h.log.Error("AdHoc failed", "error", err, "user_id", owner)
		RespondAppError(c, "suggestions_failed", err)
		return
	}
	RespondOK(c, gin.H{"suggestions": result})
}
