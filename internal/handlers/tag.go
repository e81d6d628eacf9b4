package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/services"
)

type TagHandler struct {
	log        *logger.Logger
	tagService services.TagService
}

func NewTagHandler(log *logger.Logger, tagService services.TagService) *TagHandler {
	return &TagHandler{
		log:        log.With("handler", "TagHandler"),
		tagService: tagService,
	}
}

func (h *TagHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondAppError(c, "bad_request_body", apperrors.Invalidf("request body: %v", err))
		return
	}
	tag, err := h.tagService.CreateTag(c.Request.Context(), owner, body.Name)
	if err != nil {
		h.log.Error("Create failed", "error", err, "user_id", owner)
		RespondAppError(c, "create_tag_failed", err)
		return
	}
	RespondOK(c, gin.H{"tag": tag})
}

func (h *TagHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_tag_id", err)
		return
	}
	tag, err := h.tagService.GetTag(c.Request.Context(), owner, id)
	if err != nil {
		RespondAppError(c, "get_tag_failed", err)
		return
	}
	RespondOK(c, gin.H{"tag": tag})
}

func (h *TagHandler) Rename(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_tag_id", err)
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondAppError(c, "bad_request_body", apperrors.Invalidf("request body: %v", err))
		return
	}
	tag, err := h.tagService.RenameTag(c.Request.Context(), owner, id, body.Name)
	if err != nil {
		h.log.Error("Rename failed", "error", err, "user_id", owner, "tag_id", id)
		RespondAppError(c, "rename_tag_failed", err)
		return
	}
	RespondOK(c, gin.H{"tag": tag})
}

func (h *TagHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_tag_id", err)
		return
	}
	if err := h.tagService.DeleteTag(c.Request.Context(), owner, id); err != nil {
		RespondAppError(c, "delete_tag_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (h *TagHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	req, err := pageRequest(c)
	if err != nil {
		RespondAppError(c, "bad_page_request", err)
		return
	}
	page, err := h.tagService.ListTags(c.Request.Context(), owner, req)
	if err != nil {
		h.log.Error("List failed", "error", err, "user_id", owner)
		RespondAppError(c, "list_tags_failed", err)
		return
	}
	RespondOK(c, page)
}

func (h *TagHandler) Learn(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	learned, err := h.tagService.LearnPendingTags(c.Request.Context(), owner)
	if err != nil {
		h.log.Error("Learn failed", "error", err, "user_id", owner)
		RespondAppError(c, "learn_tags_failed", err)
		return
	}
	RespondOK(c, gin.H{"learned": learned})
}
