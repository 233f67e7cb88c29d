// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/memberquery/internal/team/handler"
	"github.com/festy23/memberquery/internal/team/repository"
	"github.com/festy23/memberquery/internal/team/service"
)

// RegisterRoutes registers team module routes.
func RegisterRoutes(r gin.IRouter, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	r.POST("/teams", h.CreateTeam)
	r.GET("/teams", h.ListTeams)
	r.GET("/teams/:id", h.GetTeam)
}
