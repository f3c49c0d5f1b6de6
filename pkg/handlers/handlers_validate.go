package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/seat-planner-go/pkg/models"
	"github.com/arnavshah/seat-planner-go/pkg/seating"
)

// ValidateInput checks an optimization request without running it
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.OptimizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if input.Parameters != nil {
		if err := seating.ValidateParameters(*input.Parameters); err != nil {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
			return
		}
	}
	if input.Strategy != "" {
		if _, err := seating.NewSolver(input.Strategy); err != nil {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
			return
		}
	}

	if input.Snapshot == nil {
		c.JSON(http.StatusOK, gin.H{"valid": true, "stats": gin.H{"source": "directory"}})
		return
	}
	snap := input.Snapshot

	// Basic validation of data structures
	if len(snap.Employees) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one employee is required",
		})
		return
	}

	if len(snap.Seats) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one seat is required",
		})
		return
	}

	// Check for duplicate IDs
	employeeIDs := make(map[string]bool)
	for _, e := range snap.Employees {
		if employeeIDs[e.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate employee ID: " + e.ID})
			return
		}
		employeeIDs[e.ID] = true
	}

	zoneIDs := make(map[string]bool)
	for _, z := range snap.Zones {
		zoneIDs[z.ID] = true
	}

	seatIDs := make(map[string]bool)
	available := 0
	var unknownZones []string
	for _, s := range snap.Seats {
		if seatIDs[s.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate seat ID: " + s.ID})
			return
		}
		seatIDs[s.ID] = true
		if seating.IsEligible(s) {
			available++
		}
		if s.ZoneID != "" && !zoneIDs[s.ZoneID] {
			unknownZones = append(unknownZones, s.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"employee_count":          len(snap.Employees),
			"seat_count":              len(snap.Seats),
			"available_seat_count":    available,
			"zone_count":              len(snap.Zones),
			"project_count":           len(snap.Projects),
			"seats_with_unknown_zone": len(unknownZones),
		},
	})
}
