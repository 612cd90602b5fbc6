package httpserver

import (
	"net/http"

	"scholarlyedge/internal/handler"
	"scholarlyedge/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	financialHandler *handler.FinancialHandler,
	userHandler *handler.UserHandler,
	users *repository.UserRepository,
	jwtSecret string,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Public
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Protected
	auth := api.Group("/")
	auth.Use(AuthMiddleware(jwtSecret, users))
	{
		auth.GET("/projects", projectHandler.List)
		auth.GET("/projects/:id", projectHandler.Get)
		auth.PUT("/projects/:id", projectHandler.Update)
		auth.PUT("/projects/:id/status", projectHandler.UpdateStatus)

		auth.GET("/users/:id", userHandler.Get)

		admin := auth.Group("/")
		admin.Use(RequireAdmin())
		{
			admin.POST("/projects", projectHandler.Create)
			admin.DELETE("/projects/:id", projectHandler.Delete)

			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			admin.GET("/financial", financialHandler.List)
			admin.POST("/financial", financialHandler.Create)
			admin.GET("/financial/reports/summary", financialHandler.Summary)
		}
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(":" + port)
}
