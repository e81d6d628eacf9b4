package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/logger"
	"github.com/taghive/taghive-backend/internal/services"
	"github.com/taghive/taghive-backend/internal/types"
)

type ContentHandler struct {
	log            *logger.Logger
	contentService services.ContentService
}

func NewContentHandler(log *logger.Logger, contentService services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:            log.With("handler", "ContentHandler"),
		contentService: contentService,
	}
}

func (h *ContentHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var body struct {
		Title       string         `json:"title"`
		Body        string         `json:"body"`
		ContentType string         `json:"content_type"`
		Metadata    datatypes.JSON `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondAppError(c, "bad_request_body", apperrors.Invalidf("request body: %v", err))
		return
	}
	content, err := h.contentService.CreateContent(c.Request.Context(), owner, body.Title, body.Body, types.ContentType(body.ContentType), body.Metadata)
	if err != nil {
		h.log.Error("Create failed", "error", err, "user_id", owner)
		RespondAppError(c, "create_content_failed", err)
		return
	}
	RespondOK(c, gin.H{"content": content})
}

func (h *ContentHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_content_id", err)
		return
	}
	content, err := h.contentService.GetContent(c.Request.Context(), owner, id)
	if err != nil {
		RespondAppError(c, "get_content_failed", err)
		return
	}
	RespondOK(c, gin.H{"content": content})
}

func (h *ContentHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_content_id", err)
		return
	}
	var body struct {
		Title    *string        `json:"title"`
		Body     *string        `json:"body"`
		Metadata datatypes.JSON `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondAppError(c, "bad_request_body", apperrors.Invalidf("request body: %v", err))
		return
	}
	content, err := h.contentService.UpdateContent(c.Request.Context(), owner, id, services.ContentUpdate{
		Title:    body.Title,
		Body:     body.Body,
		Metadata: body.Metadata,
	})
	if err != nil {
		h.log.Error("Update failed", "error", err, "user_id", owner, "content_id", id)
		RespondAppError(c, "update_content_failed", err)
		return
	}
	RespondOK(c, gin.H{"content": content})
}

func (h *ContentHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_content_id", err)
		return
	}
	if err := h.contentService.DeleteContent(c.Request.Context(), owner, id); err != nil {
		RespondAppError(c, "delete_content_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (h *ContentHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	req, err := pageRequest(c)
	if err != nil {
		RespondAppError(c, "bad_page_request", err)
		return
	}
	page, err := h.contentService.ListContents(c.Request.Context(), owner, req)
	if err != nil {
		h.log.Error("List failed", "error", err, "user_id", owner)
		RespondAppError(c, "list_contents_failed", err)
		return
	}
	RespondOK(c, page)
}

func (h *ContentHandler) AttachTag(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	contentID, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_content_id", err)
		return
	}
	tagID, err := pathUUID(c, "tagId")
	if err != nil {
		RespondAppError(c, "bad_tag_id", err)
		return
	}
	link, err := h.contentService.AttachTag(c.Request.Context(), owner, contentID, tagID)
	if err != nil {
		h.log.Error("AttachTag failed", "error", err, "user_id", owner, "content_id", contentID, "tag_id", tagID)
		RespondAppError(c, "attach_tag_failed", err)
		return
	}
	RespondOK(c, gin.H{"content_tag": link})
}

func (h *ContentHandler) DetachTag(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	contentID, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_content_id", err)
		return
	}
	tagID, err := pathUUID(c, "tagId")
	if err != nil {
		RespondAppError(c, "bad_tag_id", err)
		return
	}
	if err := h.contentService.DetachTag(c.Request.Context(), owner, contentID, tagID); err != nil {
		RespondAppError(c, "detach_tag_failed", err)
		return
	}
	RespondOK(c, gin.H{"detached": tagID})
}

func (h *ContentHandler) ListTags(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	contentID, err := pathUUID(c, "id")
	if err != nil {
		RespondAppError(c, "bad_content_id", err)
		return
	}
	req, err := pageRequest(c)
	if err != nil {
		RespondAppError(c, "bad_page_request", err)
		return
	}
	page, err := h.contentService.ListContentTags(c.Request.Context(), owner, contentID, req)
	if err != nil {
		h.log.Error("ListTags failed", "error", err, "user_id", owner, "content_id", contentID)
		RespondAppError(c, "list_content_tags_failed", err)
		return
	}
	RespondOK(c, page)
}
