package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the machine-readable code and message of a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every review endpoint answers with on failure.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func errorResponse(c *gin.Context, code, message string, status int) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// unauthorizedResponse is written when the identity middleware did not attach a user.
func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, "UNAUTHORIZED", "missing user identity", http.StatusUnauthorized)
}

func forbiddenResponse(c *gin.Context, err error) {
	errorResponse(c, "FORBIDDEN", err.Error(), http.StatusForbidden)
}

// notFoundResponse writes a 404 envelope.
func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, "NOT_FOUND", message, http.StatusNotFound)
}

// internalErrorResponse hides the cause; handlers log it before calling.
func internalErrorResponse(c *gin.Context) {
	errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
}
