// Package handler provides HTTP handlers for member endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/memberquery/internal/member/model"
	"github.com/festy23/memberquery/internal/member/service"
	"github.com/festy23/memberquery/pkg/query"
)

// Handler handles HTTP requests for member endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new member handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateMember handles POST /members request.
func (h *Handler) CreateMember(c *gin.Context) {
	var req model.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.CreateMember(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "error creating member", err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetMember handles GET /members/:id request.
func (h *Handler) GetMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "id must be an integer")
		return
	}

	resp, err := h.service.GetMember(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "error getting member", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FindByUsername handles GET /members?username= request.
func (h *Handler) FindByUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		badRequest(c, "username parameter is required")
		return
	}

	members, err := h.service.FindByUsername(c.Request.Context(), username)
	if err != nil {
		h.fail(c, "error finding members", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// SearchV1 handles GET /v1/members: every matching row, unpaged.
func (h *Handler) SearchV1(c *gin.Context) {
	var cond model.MemberSearchCond
	if err := c.ShouldBindQuery(&cond); err != nil {
		badRequest(c, "invalid search parameters")
		return
	}

	rows, err := h.service.Search(c.Request.Context(), cond)
	if err != nil {
		h.fail(c, "error searching members", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": rows})
}

// SearchV2 handles GET /v2/members: one page with an eager count.
func (h *Handler) SearchV2(c *gin.Context) {
	cond, req, ok := bindPaged(c)
	if !ok {
		return
	}

	page, err := h.service.SearchPageSimple(c.Request.Context(), cond, req)
	if err != nil {
		h.fail(c, "error searching members", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// SearchV3 handles GET /v3/members: one page, counting only when needed.
func (h *Handler) SearchV3(c *gin.Context) {
	cond, req, ok := bindPaged(c)
	if !ok {
		return
	}

	page, err := h.service.SearchPageComplex(c.Request.Context(), cond, req)
	if err != nil {
		h.fail(c, "error searching members", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func bindPaged(c *gin.Context) (model.MemberSearchCond, model.PageRequest, bool) {
	var cond model.MemberSearchCond
	var req model.PageRequest
	if err := c.ShouldBindQuery(&cond); err != nil {
		badRequest(c, "invalid search parameters")
		return cond, req, false
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "invalid paging parameters")
		return cond, req, false
	}
	return cond, req, true
}

// fail maps service errors to responses; unknown errors are logged as internal.
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, model.ErrMemberNotFound):
		notFoundResponse(c, "member not found")
	case errors.Is(err, model.ErrTeamNotFound):
		notFoundResponse(c, "team not found")
	case errors.Is(err, model.ErrInvalidUsername),
		errors.Is(err, model.ErrInvalidAge),
		errors.Is(err, model.ErrInvalidSort),
		errors.Is(err, query.ErrInvalidPageable):
		badRequest(c, err.Error())
	default:
		h.logger.Errorw(msg, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
