// Package router provides statistics module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/konkursant/portal/internal/statistics/handler"
	"github.com/konkursant/portal/internal/statistics/repository"
	"github.com/konkursant/portal/internal/statistics/service"
)

// RegisterRoutes registers statistics module routes on a group that already
// runs the identity middleware.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	rg.GET("/statistics/reviewers", h.GetReviewersStatistics)
	rg.GET("/statistics/projects", h.GetProjectStatistics)
}
