package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Register mounts every route on r
func (h *Handler) Register(r *gin.Engine) {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Seat Planner API",
			"version": Version,
		})
	})
	r.GET("/healthz", h.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	r.GET("/admin", h.AdminInterface)
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

		admin.PUT("/directory", h.ReplaceDirectory)
		admin.POST("/directory/csv", h.ImportDirectoryCSV)
		admin.PUT("/seats/:id/status", h.UpdateSeatStatus)

		admin.POST("/plans/:id/activate", h.ActivatePlan)
		admin.POST("/plans/:id/deactivate", h.DeactivatePlan)
		admin.DELETE("/plans/:id", h.DeletePlan)
	}

	// Seating Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/optimize", h.Optimize)
		api.POST("/validate", h.ValidateInput)

		api.GET("/plans", h.ListPlans)
		api.GET("/plans/active", h.ActivePlan)
		api.GET("/plans/:id", h.GetPlan)
		api.GET("/plans/:id/export.csv", h.ExportCSV)
		api.GET("/plans/:id/export.xlsx", h.ExportXLSX)
		api.PUT("/plans/:id/parameters", h.UpdatePlanParameters)

		api.GET("/presets", h.ListPresets)
		api.POST("/presets", h.SavePreset)
		api.GET("/notifications", h.ListNotifications)
		api.GET("/usage", h.GetMyUsage)
	}
}
