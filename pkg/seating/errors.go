package seating

import (
	"errors"
	"fmt"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

var (
	// ErrInvalidParameters is returned when a weight lies outside 0-100
	ErrInvalidParameters = errors.New("invalid algorithm parameters")
	// ErrUnknownStrategy is returned for an unregistered solver name
	ErrUnknownStrategy = errors.New("unknown solver strategy")
)

// ValidateParameters rejects weights outside the 0-100 slider range
func ValidateParameters(p models.Parameters) error {
	weights := []struct {
		name  string
		value int
	}{
		{"team_proximity_weight", p.TeamProximityWeight},
		{"tech_stack_weight", p.TechStackWeight},
		{"cross_team_weight", p.CrossTeamWeight},
		{"deadline_weight", p.DeadlineWeight},
	}
	for _, w := range weights {
		if w.value < 0 || w.value > 100 {
			return fmt.Errorf("%w: %s must be between 0 and 100, got %d", ErrInvalidParameters, w.name, w.value)
		}
	}
	return nil
}
