package server

import (
	"net/http"
	"time"

	"github.com/arnavshah/roster-optimizer/pkg/handlers"
	"github.com/gin-gonic/gin"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// NewRouter wires every route onto a fresh gin engine
func NewRouter(h *handlers.Handler, requestTimeout time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger(h.Logger))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Roster Optimizer API",
			"version": Version,
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Optimizer Endpoints
	api := r.Group("/api")
	api.Use(handlers.Timeout(requestTimeout), h.APIKeyMiddleware())
	{
		api.GET("/roster", h.Roster)
		api.POST("/optimize/run", h.RunOptimization)
		api.POST("/optimize/run/csv", h.RunOptimizationCSV)
		api.POST("/optimize/validate", h.ValidateRun)
		api.POST("/optimize/apply", h.ApplyProposals)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}
