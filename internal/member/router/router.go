// Package router provides member module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/memberquery/internal/member/handler"
	"github.com/festy23/memberquery/internal/member/repository"
	"github.com/festy23/memberquery/internal/member/service"
	teamRepository "github.com/festy23/memberquery/internal/team/repository"
)

// NewService wires the member service over db.
func NewService(db *gorm.DB, logger *zap.SugaredLogger) service.Service {
	return service.New(repository.New(db, logger), teamRepository.New(db, logger), db, logger)
}

// RegisterRoutes registers member module routes.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	r.POST("/members", h.CreateMember)
	r.GET("/members", h.FindByUsername)
	r.GET("/members/:id", h.GetMember)
	r.GET("/v1/members", h.SearchV1)
	r.GET("/v2/members", h.SearchV2)
	r.GET("/v3/members", h.SearchV3)
}
