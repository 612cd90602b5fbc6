package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"scholarlyedge/internal/handler"
	"scholarlyedge/internal/model"
	"scholarlyedge/internal/repository"
	"scholarlyedge/internal/util"
	"scholarlyedge/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records per-route request durations.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// AuthMiddleware validates the bearer token and loads the acting user into
// the request context.
func AuthMiddleware(jwtSecret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid authorization header"})
			c.Abort()
			return
		}

		userID, err := util.ParseJWT(parts[1], jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not found"})
			c.Abort()
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "account is deactivated"})
			c.Abort()
			return
		}

		c.Set(handler.UserContextKey, user)
		c.Next()
	}
}

// RequireAdmin restricts a route to admin users. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *model.User {
	v, exists := c.Get(handler.UserContextKey)
	if !exists {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}
