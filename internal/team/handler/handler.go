// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	teamModel "github.com/festy23/memberquery/internal/team/model"
	"github.com/festy23/memberquery/internal/team/service"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateTeam handles POST /teams request.
func (h *Handler) CreateTeam(c *gin.Context) {
	var req teamModel.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateTeam(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, teamModel.ErrTeamExists):
			errorResponse(c, "TEAM_EXISTS", "team name already exists", http.StatusBadRequest)
		case errors.Is(err, teamModel.ErrInvalidTeamName):
			errorResponse(c, "INVALID_REQUEST", "name is required", http.StatusBadRequest)
		default:
			h.logger.Errorw("error creating team", "error", err)
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetTeam handles GET /teams/:id request.
func (h *Handler) GetTeam(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, "INVALID_REQUEST", "id must be an integer", http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetTeam(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, teamModel.ErrTeamNotFound) {
			notFoundResponse(c, "team not found")
			return
		}
		h.logger.Errorw("error getting team", "team_id", id, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListTeams handles GET /teams request.
func (h *Handler) ListTeams(c *gin.Context) {
	teams, err := h.service.ListTeams(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error listing teams", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}
