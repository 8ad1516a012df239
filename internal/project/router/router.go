// Package router provides project module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/konkursant/portal/internal/project/handler"
	"github.com/konkursant/portal/internal/project/repository"
	"github.com/konkursant/portal/internal/project/service"
)

// RegisterRoutes registers project module routes on a group that already
// runs the identity middleware.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	projects := rg.Group("/projects")
	projects.GET("/all_access_projects", h.List)
	projects.POST("/create", h.Create)
	projects.DELETE("/delete/:project_id", h.Delete)
	projects.GET("/:project_id", h.Get)
}
