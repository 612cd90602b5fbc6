package handler

import (
	"errors"
	"net/http"

	"scholarlyedge/internal/apperr"
	"scholarlyedge/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserContextKey is where the auth middleware stores the acting user.
const UserContextKey = "user"

func currentUser(c *gin.Context) *model.User {
	v, exists := c.Get(UserContextKey)
	if !exists {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}

// respondError maps the engine's error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case apperr.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "resource not found"})
	default:
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error"})
	}
}
