package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taghive/taghive-backend/internal/apperrors"
	"github.com/taghive/taghive-backend/internal/pagination"
	"github.com/taghive/taghive-backend/internal/requestdata"
)

const defaultPageLimit = 50

// ownerID pulls the authenticated owner out of the request context. The
// false return means the response has already been written.
func ownerID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Invalidf("%s must be a uuid", name)
	}
	return id, nil
}

// pageRequest reads chunk_id, limit, offset and direction query params.
// Range validation belongs to the pagination engine; only parse errors are
// rejected here.
func pageRequest(c *gin.Context) (pagination.Request, error) {
	req := pagination.Request{Limit: defaultPageLimit, Direction: pagination.DirectionNext}

	if raw := c.Query("chunk_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return req, apperrors.Invalidf("chunk_id must be a uuid")
		}
		req.ChunkID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, apperrors.Invalidf("limit must be an integer")
		}
		req.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return req, apperrors.Invalidf("offset must be an integer")
		}
		req.Offset = offset
	}
	if raw := c.Query("direction"); raw != "" {
		switch strings.ToUpper(raw) {
		case string(pagination.DirectionNext):
			req.Direction = pagination.DirectionNext
		case string(pagination.DirectionPrevious):
			req.Direction = pagination.DirectionPrevious
		default:
			return req, apperrors.Invalidf("direction must be NEXT or PREVIOUS")
		}
	}
	return req, nil
}
