package controllers

import (
	"context"
	"net/http"
	"time"

	"OdontoSystem/apperrors"
	"OdontoSystem/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ServiceName = "OdontoSystem API"

// Pinger is anything whose availability /health reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// rootHandler handles requests to the root path
func rootHandler(c *gin.Context) {
	middlewares.RespondJSON(c, gin.H{"service": ServiceName, "status": "running"}, http.StatusOK)
}

func healthHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			middlewares.HttpError(c, apperrors.Wrap(apperrors.CodeUnavailable, err, "store ping failed"))
			return
		}
		middlewares.RespondJSON(c, gin.H{"status": "ok"}, http.StatusOK)
	}
}

// SetupRootRoute registers the banner, health check and metrics exposition.
func SetupRootRoute(router gin.IRouter, store Pinger, gatherer prometheus.Gatherer) {
	router.GET("/", rootHandler)
	router.GET("/health", healthHandler(store))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
