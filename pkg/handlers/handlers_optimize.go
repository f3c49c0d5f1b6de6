package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// Optimize runs the seating optimization and stores the resulting plan.
// An empty body optimizes the stored directory with the default weights.
func (h *Handler) Optimize(c *gin.Context) {
	var input models.OptimizeInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Service.Optimize(c.Request.Context(), input, caller(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "optimization failed: " + err.Error()})
		return
	}

	plan := res.Plan
	h.RecordUsage(c,
		len(plan.Assignments)+len(plan.UnassignedEmployees),
		len(plan.Assignments)+len(plan.UnassignedSeats),
	)

	c.JSON(http.StatusOK, res)
}

// caller names whoever is making the request, for the plan's created_by
func caller(c *gin.Context) string {
	if v := c.GetString("username"); v != "" {
		return v
	}
	return c.GetString("userID")
}
