package models

import "time"

// Seat statuses. Only available seats take part in an optimization run.
const (
	SeatAvailable   = "available"
	SeatOccupied    = "occupied"
	SeatReserved    = "reserved"
	SeatMaintenance = "maintenance"
)

// Zone types
const (
	ZoneTeamArea      = "team_area"
	ZoneMeeting       = "meeting"
	ZoneBreakRoom     = "break_room"
	ZoneQuietArea     = "quiet_area"
	ZoneCollaboration = "collaboration"
)

// Employee is a person from the directory
type Employee struct {
	ID                string   `json:"id" binding:"required"`
	Name              string   `json:"name,omitempty"`
	TechSkills        []string `json:"tech_skills"`
	Department        string   `json:"department"`
	CurrentProjectIDs []string `json:"current_project_ids"`
}

// Project groups employees working towards the same deadline
type Project struct {
	ID            string     `json:"id" binding:"required"`
	Name          string     `json:"name,omitempty"`
	Priority      int        `json:"priority"`
	TeamMemberIDs []string   `json:"team_member_ids"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}

// Seat is a single assignable desk
type Seat struct {
	ID      string `json:"id" binding:"required"`
	Label   string `json:"label"`
	ZoneID  string `json:"zone_id"`
	FloorID string `json:"floor_id"`
	Status  string `json:"status" binding:"omitempty,oneof=available occupied reserved maintenance"`
}

// Zone is a named sub-area of a floor
type Zone struct {
	ID      string `json:"id" binding:"required"`
	Name    string `json:"name"`
	FloorID string `json:"floor_id"`
	Type    string `json:"type" binding:"omitempty,oneof=team_area meeting break_room quiet_area collaboration"`
}

// Parameters are the four independent weight sliders, each 0-100
type Parameters struct {
	TeamProximityWeight int `json:"team_proximity_weight" toml:"team_proximity_weight" binding:"min=0,max=100"`
	TechStackWeight     int `json:"tech_stack_weight" toml:"tech_stack_weight" binding:"min=0,max=100"`
	CrossTeamWeight     int `json:"cross_team_weight" toml:"cross_team_weight" binding:"min=0,max=100"`
	DeadlineWeight      int `json:"deadline_weight" toml:"deadline_weight" binding:"min=0,max=100"`
}

// DefaultParameters returns the weights the admin console starts with
func DefaultParameters() Parameters {
	return Parameters{
		TeamProximityWeight: 75,
		TechStackWeight:     60,
		CrossTeamWeight:     40,
		DeadlineWeight:      85,
	}
}

// Assignment represents an employee-seat pairing
type Assignment struct {
	EmployeeID string `json:"employee_id"`
	SeatID     string `json:"seat_id"`
	Reason     string `json:"reason"`
}

// Plan is a complete seating plan produced by one optimization run
type Plan struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Parameters          Parameters   `json:"parameters"`
	Strategy            string       `json:"strategy"`
	Assignments         []Assignment `json:"assignments"`
	UnassignedEmployees []string     `json:"unassigned_employees"`
	UnassignedSeats     []string     `json:"unassigned_seats"`
	OptimizationScore   int          `json:"optimization_score"`
	IsActive            bool         `json:"is_active"`
	CreatedBy           string       `json:"created_by"`
	CreatedAt           time.Time    `json:"created_at"`
	EffectiveFrom       *time.Time   `json:"effective_from,omitempty"`
}

// Snapshot is the full directory handed to an optimization run
type Snapshot struct {
	Employees []Employee `json:"employees" binding:"dive"`
	Projects  []Project  `json:"projects" binding:"dive"`
	Seats     []Seat     `json:"seats" binding:"dive"`
	Zones     []Zone     `json:"zones" binding:"dive"`
}

// OptimizeInput is the data structure for the optimization endpoint.
// When Snapshot is nil the stored directory is used.
type OptimizeInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Strategy    string      `json:"strategy" binding:"omitempty,oneof=greedy optimal"`
	Parameters  *Parameters `json:"parameters"`
	Snapshot    *Snapshot   `json:"snapshot"`
}

// OptimizeResponse is the data structure for the optimization result
type OptimizeResponse struct {
	Plan     Plan `json:"plan"`
	Excluded int  `json:"excluded_seats"`
	Cached   bool `json:"cached"`
}

// Notification is a message shown to admins about plan lifecycle events
type Notification struct {
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	PlanID    string    `json:"plan_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Preset is a named, saved parameter configuration
type Preset struct {
	Name       string     `json:"name" binding:"required"`
	Parameters Parameters `json:"parameters"`
}
