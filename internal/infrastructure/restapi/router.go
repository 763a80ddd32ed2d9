// Package restapi exposes the analyzer over HTTP.
package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter builds the Gin engine with all routes and middleware.
func SetupRouter(handler *AnalyzeHandler) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "wallet-analyzer",
			"endpoints": gin.H{
				"analyze": "POST /api/v1/analyze",
				"health":  "GET /health",
				"metrics": "GET /metrics",
			},
		})
	})
	router.GET("/health", handler.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", handler.PostAnalyze)
	}

	return router
}
