package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/letieu/ideadb/internal/logger"
)

// NewRouter wires middleware, the catalog routes and /metrics.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(h.log))
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
	}

	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	h.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return router
}
