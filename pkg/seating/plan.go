package seating

import (
	"math"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// BuildPlan wraps accepted assignments into a seating plan. The plan is never
// active at creation; activation belongs to the plan store.
func BuildPlan(sc *Scorer, assignments []models.Assignment, name, description, createdBy string) models.Plan {
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return models.Plan{
		Name:              name,
		Description:       description,
		Parameters:        sc.Params(),
		Assignments:       assignments,
		OptimizationScore: OptimizationScore(sc, assignments),
		IsActive:          false,
		CreatedBy:         createdBy,
	}
}

// OptimizationScore returns the average per-assignment score as a 0-100
// percentage of the per-pair maximum. Assignments that no longer resolve to a
// known employee and seat are skipped. No scored assignments yields 0.
func OptimizationScore(sc *Scorer, assignments []models.Assignment) int {
	total := 0.0
	scored := 0
	for _, a := range assignments {
		e, seat, ok := sc.Lookup(a.EmployeeID, a.SeatID)
		if !ok {
			continue
		}
		total += sc.Score(e, seat)
		scored++
	}
	if scored == 0 {
		return 0
	}

	score := int(math.Round(total / float64(100*scored) * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
