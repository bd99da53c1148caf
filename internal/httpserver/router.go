// Package httpserver assembles the gin router and its middleware chain.
package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"studyplanner/internal/handler"
)

type Handlers struct {
	Plans         *handler.PlanHandler
	Tasks         *handler.TaskHandler
	Logs          *handler.LogHandler
	Snapshots     *handler.SnapshotHandler
	Bookmarks     *handler.BookmarkHandler
	FAQs          *handler.FAQHandler
	Summaries     *handler.SummaryHandler
	Notifications *handler.NotificationsHandler
}

// NewRouter builds the full route table. Health and metrics endpoints stay
// outside the auth chain.
func NewRouter(h Handlers, db *pgxpool.Pool, jwtSecret string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(TraceMiddleware())
	router.Use(LoggingMiddleware(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(handler.AuthMiddleware(jwtSecret, logger))
	{
		api.GET("/plans", h.Plans.List)
		api.POST("/plans", h.Plans.Create)
		api.GET("/plans/:id", h.Plans.Get)
		api.PATCH("/plans/:id", h.Plans.Update)
		api.POST("/plans/:id/archive", h.Plans.Archive)
		api.DELETE("/plans/:id", h.Plans.Delete)

		api.GET("/plans/:id/tasks", h.Tasks.List)
		api.POST("/plans/:id/tasks", h.Tasks.Create)
		api.PATCH("/plans/:id/tasks/:taskId", h.Tasks.Update)
		api.DELETE("/plans/:id/tasks/:taskId", h.Tasks.Delete)

		api.GET("/logs", h.Logs.List)
		api.POST("/logs", h.Logs.Create)

		api.GET("/snapshot/today", h.Snapshots.Today)

		api.POST("/plans/:id/bookmark", h.Bookmarks.Toggle)
		api.GET("/bookmarks", h.Bookmarks.List)

		api.GET("/faqs", h.FAQs.ListPublished)

		api.GET("/summary", h.Summaries.Get)
		api.POST("/summary/push", h.Summaries.Push)

		api.GET("/notifications/unread-count", h.Notifications.UnreadCount)

		admin := api.Group("/admin")
		admin.Use(handler.AdminRequired())
		{
			admin.GET("/faqs", h.FAQs.AdminList)
			admin.POST("/faqs", h.FAQs.AdminCreate)
			admin.PUT("/faqs/:id", h.FAQs.AdminUpdate)
			admin.DELETE("/faqs/:id", h.FAQs.AdminDelete)
		}
	}

	return router
}
