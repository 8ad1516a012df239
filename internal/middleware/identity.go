// Package middleware holds the gin middleware shared by every portal route: request IDs,
// access logging, panic recovery and caller identity.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/user/model"
)

const (
	// UserIDHeader is set by the fronting auth gateway to the authenticated id_user.
	UserIDHeader = "X-User-ID"

	currentUserKey = "current_user"
)

// UserLookup resolves an authenticated user id to an account.
type UserLookup interface {
	GetByID(ctx context.Context, userID int64) (*model.User, error)
}

// Identity returns a middleware that loads the caller's account from X-User-ID.
// Missing or unknown ids are rejected with 401, disabled accounts with 403.
func Identity(users UserLookup, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user identity")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
				return
			}
			logger.Errorw("identity lookup failed",
				"user_id", userID,
				"request_id", GetRequestID(c),
				"error", err,
			)
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			return
		}

		if !user.IsActive {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", model.ErrUserInactive.Error())
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the account loaded by Identity.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// SetCurrentUser stores the caller's account in the context.
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(currentUserKey, user)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
