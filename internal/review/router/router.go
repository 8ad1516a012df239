// Package router provides review module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/konkursant/portal/internal/review/handler"
	"github.com/konkursant/portal/internal/review/repository"
	"github.com/konkursant/portal/internal/review/service"
)

// RegisterRoutes registers review module routes on a group that already
// runs the identity middleware.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, opts service.Options, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, db, opts, logger)
	h := handler.New(svc, logger)

	reviews := rg.Group("/reviews")
	reviews.GET("/schema", h.Schemas)
	reviews.POST("/create_review/:project_id", h.CreateReview)
	reviews.GET("/verified_projects", h.GetVerifiedReviews)
	reviews.GET("/verified_projects/summary", h.GetVerifiedSummaries)
	reviews.GET("/:project_id", h.GetProjectReviews)
	reviews.GET("/:project_id/summary", h.GetProjectSummary)
}
