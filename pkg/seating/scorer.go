package seating

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// maxPriority is the top of the project priority scale
const maxPriority = 5

// DefaultReason is used when no weighted factor contributed to an assignment
const DefaultReason = "assigned by optimization algorithm"

// Breakdown holds the four unweighted sub-scores of one employee-seat pair, each 0-100
type Breakdown struct {
	TeamProximity float64 `json:"team_proximity"`
	TechStack     float64 `json:"tech_stack"`
	CrossTeam     float64 `json:"cross_team"`
	Deadline      float64 `json:"deadline"`
}

// Evaluate computes the sub-scores of placing an employee at a seat in a zone.
// byID is the optimization pool; placements optionally maps employee IDs to the
// zone they currently sit in.
func Evaluate(e *Employee, zone Zone, byID map[string]*Employee, placements map[string]string) Breakdown {
	var b Breakdown

	if len(e.Teammates) > 0 {
		near := 0
		for _, id := range e.Teammates {
			if _, ok := byID[id]; !ok {
				continue
			}
			if current, known := placements[id]; known && current != zone.ID {
				continue
			}
			near++
		}
		b.TeamProximity = float64(near) / float64(len(e.Teammates)) * 100
	}

	if len(e.TechSkills) > 0 {
		b.TechStack = 50
	}

	collaborative := zone.Type == models.ZoneCollaboration || zone.Type == models.ZoneMeeting
	multiProject := len(e.ProjectIDs) > 1
	switch {
	case collaborative && multiProject:
		b.CrossTeam = 100
	case collaborative || multiProject:
		b.CrossTeam = 50
	}

	highest := 0
	for _, p := range e.ProjectPriorities {
		if p > highest {
			highest = p
		}
	}
	if highest > maxPriority {
		highest = maxPriority
	}
	b.Deadline = float64(highest) / maxPriority * 100

	return b
}

// Weighted combines the sub-scores with the given weights. A zero weight removes
// its factor entirely. When the weights add up to more than 100 the sum is scaled
// down by the same factor for every pair, keeping the result within 0-100.
func (b Breakdown) Weighted(p models.Parameters) float64 {
	score := b.TeamProximity*float64(p.TeamProximityWeight)/100 +
		b.TechStack*float64(p.TechStackWeight)/100 +
		b.CrossTeam*float64(p.CrossTeamWeight)/100 +
		b.Deadline*float64(p.DeadlineWeight)/100
	return score / weightScale(p)
}

func weightScale(p models.Parameters) float64 {
	total := p.TeamProximityWeight + p.TechStackWeight + p.CrossTeamWeight + p.DeadlineWeight
	if total <= 100 {
		return 1
	}
	return float64(total) / 100
}

// Reason describes which weighted factors drove an assignment
func (b Breakdown) Reason(p models.Parameters) string {
	type factor struct {
		name   string
		value  float64
		weight int
	}
	factors := []factor{
		{"team proximity", b.TeamProximity, p.TeamProximityWeight},
		{"tech stack", b.TechStack, p.TechStackWeight},
		{"cross-team collaboration", b.CrossTeam, p.CrossTeamWeight},
		{"deadline priority", b.Deadline, p.DeadlineWeight},
	}
	// Stable sort keeps the declaration order for equal contributions
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].value*float64(factors[i].weight) > factors[j].value*float64(factors[j].weight)
	})

	var parts []string
	for _, f := range factors {
		if f.weight == 0 || f.value == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.0f%%", f.name, f.value))
	}
	if len(parts) == 0 {
		return DefaultReason
	}
	return strings.Join(parts, ", ")
}

// Score computes the compatibility of one employee with one seat
func Score(e *Employee, zone Zone, byID map[string]*Employee, params models.Parameters) float64 {
	return Evaluate(e, zone, byID, nil).Weighted(params)
}

// Scorer scores pairs against a fixed snapshot and parameter set
type Scorer struct {
	params     models.Parameters
	employees  map[string]*Employee
	seats      map[string]*Seat
	zones      map[string]Zone
	placements map[string]string
}

// NewScorer indexes a snapshot for repeated scoring
func NewScorer(snap *Snapshot, params models.Parameters, placements map[string]string) *Scorer {
	s := &Scorer{
		params:     params,
		employees:  make(map[string]*Employee, len(snap.Employees)),
		seats:      make(map[string]*Seat, len(snap.Seats)),
		zones:      make(map[string]Zone, len(snap.Zones)),
		placements: placements,
	}
	for i := range snap.Employees {
		s.employees[snap.Employees[i].ID] = &snap.Employees[i]
	}
	for i := range snap.Seats {
		s.seats[snap.Seats[i].ID] = &snap.Seats[i]
	}
	for _, z := range snap.Zones {
		s.zones[z.ID] = z
	}
	return s
}

// Params returns the parameters the scorer was built with
func (s *Scorer) Params() models.Parameters {
	return s.params
}

// ZoneOf resolves the zone of a seat, falling back to UnknownZoneType
func (s *Scorer) ZoneOf(seat *Seat) Zone {
	if z, ok := s.zones[seat.ZoneID]; ok {
		return z
	}
	return Zone{ID: seat.ZoneID, Type: seat.ZoneType, FloorID: seat.FloorID}
}

// Breakdown returns the unweighted sub-scores of a pair
func (s *Scorer) Breakdown(e *Employee, seat *Seat) Breakdown {
	return Evaluate(e, s.ZoneOf(seat), s.employees, s.placements)
}

// Score returns the weighted score of a pair
func (s *Scorer) Score(e *Employee, seat *Seat) float64 {
	return s.Breakdown(e, seat).Weighted(s.params)
}

// Lookup resolves an assignment back to its employee and seat
func (s *Scorer) Lookup(employeeID, seatID string) (*Employee, *Seat, bool) {
	e, okEmp := s.employees[employeeID]
	seat, okSeat := s.seats[seatID]
	return e, seat, okEmp && okSeat
}
