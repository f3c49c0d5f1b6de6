package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/seat-planner-go/pkg/export"
	"github.com/arnavshah/seat-planner-go/pkg/models"
	"github.com/arnavshah/seat-planner-go/pkg/seating"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListPlans returns every stored plan, newest first
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.Plans.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// GetPlan returns one plan
func (h *Handler) GetPlan(c *gin.Context) {
	plan, err := h.Plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ActivePlan returns the plan currently in effect
func (h *Handler) ActivePlan(c *gin.Context) {
	plan, err := h.Plans.Active(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ActivatePlan makes a plan the single active plan
func (h *Handler) ActivatePlan(c *gin.Context) {
	plan, err := h.Service.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeactivatePlan clears a plan's active flag
func (h *Handler) DeactivatePlan(c *gin.Context) {
	if err := h.Plans.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deactivated"})
}

// DeletePlan removes a plan
func (h *Handler) DeletePlan(c *gin.Context) {
	if err := h.Plans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}

// UpdatePlanParameters records new weights on a plan
func (h *Handler) UpdatePlanParameters(c *gin.Context) {
	var params models.Parameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := seating.ValidateParameters(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.Plans.UpdateParameters(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ExportCSV downloads a plan's assignments as CSV
func (h *Handler) ExportCSV(c *gin.Context) {
	plan, snap, ok := h.planForExport(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, plan, snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render CSV"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "seating-plan-"+plan.ID+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX downloads a plan as an Excel workbook
func (h *Handler) ExportXLSX(c *gin.Context) {
	plan, snap, ok := h.planForExport(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, plan, snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render workbook"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "seating-plan-"+plan.ID+".xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) planForExport(c *gin.Context) (models.Plan, models.Snapshot, bool) {
	ctx := c.Request.Context()
	plan, err := h.Plans.Get(ctx, c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return models.Plan{}, models.Snapshot{}, false
	}
	snap, err := h.Directory.LoadSnapshot(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load directory"})
		return models.Plan{}, models.Snapshot{}, false
	}
	return plan, snap, true
}
