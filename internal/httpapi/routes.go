package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with every admin route registered.
func NewRouter(h *Handlers, adminToken string, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1", RequireAdmin(adminToken))
	{
		orgs := v1.Group("/organizations/:orgID")
		orgs.POST("/schedule/recalculate", h.Recalculate)
	}
	return router
}
