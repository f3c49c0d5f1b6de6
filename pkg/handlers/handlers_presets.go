package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/seat-planner-go/pkg/models"
	"github.com/arnavshah/seat-planner-go/pkg/seating"
)

// ListPresets returns all saved parameter presets
func (h *Handler) ListPresets(c *gin.Context) {
	presets, err := h.Presets.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list presets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets, "defaults": h.Service.DefaultParameters()})
}

// SavePreset creates or replaces a named preset
func (h *Handler) SavePreset(c *gin.Context) {
	var preset models.Preset
	if err := c.ShouldBindJSON(&preset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := seating.ValidateParameters(preset.Parameters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Presets.Save(c.Request.Context(), preset); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save preset"})
		return
	}
	c.JSON(http.StatusOK, preset)
}

// ListNotifications returns recent plan notifications
func (h *Handler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	notes, err := h.Notifications.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}
