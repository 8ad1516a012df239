// Package router provides user module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/konkursant/portal/internal/user/handler"
	"github.com/konkursant/portal/internal/user/repository"
	"github.com/konkursant/portal/internal/user/service"
)

// RegisterRoutes registers user module routes on a group that already
// runs the identity middleware.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	auth := rg.Group("/auth")
	auth.GET("/users/me", h.GetMe)
	auth.PATCH("/assign-role", h.AssignRole)
}
