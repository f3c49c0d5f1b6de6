package seating

import (
	"sort"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// UnknownZoneType is reported for seats whose zone cannot be resolved
const UnknownZoneType = "unknown"

// Employee is the flattened, algorithm-friendly view of a directory employee
type Employee struct {
	ID                string
	TechSkills        []string
	Department        string
	ProjectIDs        []string
	ProjectPriorities []int
	Teammates         []string
}

// Seat is an eligible seat with its zone type already resolved
type Seat struct {
	ID       string
	Label    string
	ZoneID   string
	ZoneType string
	FloorID  string
}

// Zone is the flattened view of a directory zone
type Zone struct {
	ID      string
	Name    string
	Type    string
	FloorID string
}

// Snapshot holds the normalized input of one optimization run.
// Excluded counts seats left out because they were not available.
type Snapshot struct {
	Employees []Employee
	Seats     []Seat
	Zones     []Zone
	Excluded  int
}

// Normalize flattens raw directory records. Dangling project or zone references
// degrade to empty sets and UnknownZoneType instead of failing. Repeated employee
// or seat IDs keep their first occurrence.
func Normalize(employees []models.Employee, projects []models.Project, seats []models.Seat, zones []models.Zone) Snapshot {
	snap := Snapshot{
		Employees: make([]Employee, 0, len(employees)),
		Seats:     make([]Seat, 0, len(seats)),
		Zones:     make([]Zone, 0, len(zones)),
	}

	seenEmployees := make(map[string]bool, len(employees))
	for _, emp := range employees {
		if seenEmployees[emp.ID] {
			continue
		}
		seenEmployees[emp.ID] = true
		snap.Employees = append(snap.Employees, normalizeEmployee(emp, projects))
	}

	zoneByID := make(map[string]models.Zone, len(zones))
	for _, z := range zones {
		zoneByID[z.ID] = z
		snap.Zones = append(snap.Zones, Zone{ID: z.ID, Name: z.Name, Type: z.Type, FloorID: z.FloorID})
	}

	seenSeats := make(map[string]bool, len(seats))
	for _, s := range seats {
		if seenSeats[s.ID] {
			continue
		}
		seenSeats[s.ID] = true
		if !IsEligible(s) {
			snap.Excluded++
			continue
		}
		zoneType := UnknownZoneType
		if z, ok := zoneByID[s.ZoneID]; ok {
			zoneType = z.Type
		}
		snap.Seats = append(snap.Seats, Seat{
			ID:       s.ID,
			Label:    s.Label,
			ZoneID:   s.ZoneID,
			ZoneType: zoneType,
			FloorID:  s.FloorID,
		})
	}

	return snap
}

// IsEligible reports whether a seat can take part in a run. A seat without a
// recorded status is treated as available.
func IsEligible(s models.Seat) bool {
	return s.Status == "" || s.Status == models.SeatAvailable
}

func normalizeEmployee(emp models.Employee, projects []models.Project) Employee {
	current := make(map[string]bool, len(emp.CurrentProjectIDs))
	for _, id := range emp.CurrentProjectIDs {
		current[id] = true
	}

	out := Employee{
		ID:         emp.ID,
		TechSkills: append([]string{}, emp.TechSkills...),
		Department: emp.Department,
	}

	teammates := make(map[string]bool)
	for _, p := range projects {
		member := current[p.ID]
		for _, m := range p.TeamMemberIDs {
			if m == emp.ID {
				member = true
				break
			}
		}
		if !member {
			continue
		}
		out.ProjectIDs = append(out.ProjectIDs, p.ID)
		out.ProjectPriorities = append(out.ProjectPriorities, p.Priority)
		for _, m := range p.TeamMemberIDs {
			if m != emp.ID && m != "" {
				teammates[m] = true
			}
		}
	}

	out.Teammates = make([]string, 0, len(teammates))
	for id := range teammates {
		out.Teammates = append(out.Teammates, id)
	}
	sort.Strings(out.Teammates)
	return out
}
