package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-services/internal/apperr"
	"todo-services/pkg/logger"
)

func success(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": gin.H{"message": message}})
}

// respondErr writes err as the failure envelope. Unexpected errors are logged
// with their cause and reported as a generic 500.
func respondErr(c *gin.Context, err error) {
	ctx := c.Request.Context()
	if isContextErr(err) && ctx.Err() != nil {
		return
	}
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logger.Error(ctx, "Request failed", "error", err)
	}
	fail(c, kind.HTTPStatus(), apperr.PublicMessage(err))
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// NotFound handles unknown routes.
func NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, "Route not found")
}

// Recovery turns a panic into the generic 500 envelope.
func Recovery(c *gin.Context, recovered any) {
	logger.Error(c.Request.Context(), "Panic recovered", "panic", recovered)
	fail(c, http.StatusInternalServerError, "Internal server error")
	c.Abort()
}
