package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// EmployeeRecord represents the employees table. Position keeps the order the
// directory was imported in, which optimization tie-breaks depend on.
type EmployeeRecord struct {
	ID                string                      `gorm:"primaryKey;size:64"`
	Position          int                         `gorm:"index"`
	Name              string
	Department        string
	TechSkills        datatypes.JSONSlice[string]
	CurrentProjectIDs datatypes.JSONSlice[string]
	UpdatedAt         time.Time
}

// TableName implements gorm's tabler
func (EmployeeRecord) TableName() string { return "employees" }

// ProjectRecord represents the projects table
type ProjectRecord struct {
	ID            string `gorm:"primaryKey;size:64"`
	Position      int    `gorm:"index"`
	Name          string
	Priority      int
	TeamMemberIDs datatypes.JSONSlice[string]
	Deadline      *time.Time
	UpdatedAt     time.Time
}

// TableName implements gorm's tabler
func (ProjectRecord) TableName() string { return "projects" }

// ZoneRecord represents the zones table
type ZoneRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	Position  int    `gorm:"index"`
	Name      string
	FloorID   string `gorm:"index"`
	Type      string
	UpdatedAt time.Time
}

// TableName implements gorm's tabler
func (ZoneRecord) TableName() string { return "zones" }

// SeatRecord represents the seats table
type SeatRecord struct {
	ID           string `gorm:"primaryKey;size:64"`
	Position     int    `gorm:"index"`
	Label        string
	ZoneID       string `gorm:"index"`
	FloorID      string `gorm:"index"`
	Status       string `gorm:"not null;default:available"`
	LastModified time.Time
}

// TableName implements gorm's tabler
func (SeatRecord) TableName() string { return "seats" }

// DirectoryStore persists the employee, project, zone and seat directory
type DirectoryStore struct {
	db *gorm.DB
}

// NewDirectoryStore constructs a DirectoryStore with the given DB handle
func NewDirectoryStore(db *gorm.DB) *DirectoryStore {
	return &DirectoryStore{db: db}
}

// ReplaceSnapshot swaps the whole directory in one transaction
func (s *DirectoryStore) ReplaceSnapshot(ctx context.Context, snap models.Snapshot) error {
	employees := make([]EmployeeRecord, 0, len(snap.Employees))
	for i, e := range snap.Employees {
		employees = append(employees, EmployeeRecord{
			ID:                e.ID,
			Position:          i,
			Name:              e.Name,
			Department:        e.Department,
			TechSkills:        datatypes.JSONSlice[string](nonNil(e.TechSkills)),
			CurrentProjectIDs: datatypes.JSONSlice[string](nonNil(e.CurrentProjectIDs)),
		})
	}
	projects := make([]ProjectRecord, 0, len(snap.Projects))
	for i, p := range snap.Projects {
		projects = append(projects, ProjectRecord{
			ID:            p.ID,
			Position:      i,
			Name:          p.Name,
			Priority:      p.Priority,
			TeamMemberIDs: datatypes.JSONSlice[string](nonNil(p.TeamMemberIDs)),
			Deadline:      p.Deadline,
		})
	}
	zones := make([]ZoneRecord, 0, len(snap.Zones))
	for i, z := range snap.Zones {
		zones = append(zones, ZoneRecord{ID: z.ID, Position: i, Name: z.Name, FloorID: z.FloorID, Type: z.Type})
	}
	now := time.Now().UTC()
	seats := make([]SeatRecord, 0, len(snap.Seats))
	for i, st := range snap.Seats {
		status := st.Status
		if status == "" {
			status = models.SeatAvailable
		}
		seats = append(seats, SeatRecord{
			ID:           st.ID,
			Position:     i,
			Label:        st.Label,
			ZoneID:       st.ZoneID,
			FloorID:      st.FloorID,
			Status:       status,
			LastModified: now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, table := range []any{&EmployeeRecord{}, &ProjectRecord{}, &ZoneRecord{}, &SeatRecord{}} {
			if err := all.Delete(table).Error; err != nil {
				return fmt.Errorf("clear directory: %w", err)
			}
		}
		if len(employees) > 0 {
			if err := tx.CreateInBatches(employees, 200).Error; err != nil {
				return fmt.Errorf("insert employees: %w", err)
			}
		}
		if len(projects) > 0 {
			if err := tx.CreateInBatches(projects, 200).Error; err != nil {
				return fmt.Errorf("insert projects: %w", err)
			}
		}
		if len(zones) > 0 {
			if err := tx.CreateInBatches(zones, 200).Error; err != nil {
				return fmt.Errorf("insert zones: %w", err)
			}
		}
		if len(seats) > 0 {
			if err := tx.CreateInBatches(seats, 200).Error; err != nil {
				return fmt.Errorf("insert seats: %w", err)
			}
		}
		return nil
	})
}

// LoadSnapshot reads the whole directory in import order
func (s *DirectoryStore) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	db := s.db.WithContext(ctx)
	var (
		employees []EmployeeRecord
		projects  []ProjectRecord
		zones     []ZoneRecord
		seats     []SeatRecord
	)
	if err := db.Order("position").Find(&employees).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load employees: %w", err)
	}
	if err := db.Order("position").Find(&projects).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load projects: %w", err)
	}
	if err := db.Order("position").Find(&zones).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load zones: %w", err)
	}
	if err := db.Order("position").Find(&seats).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load seats: %w", err)
	}

	snap := models.Snapshot{
		Employees: make([]models.Employee, 0, len(employees)),
		Projects:  make([]models.Project, 0, len(projects)),
		Zones:     make([]models.Zone, 0, len(zones)),
		Seats:     make([]models.Seat, 0, len(seats)),
	}
	for _, e := range employees {
		snap.Employees = append(snap.Employees, models.Employee{
			ID:                e.ID,
			Name:              e.Name,
			Department:        e.Department,
			TechSkills:        []string(e.TechSkills),
			CurrentProjectIDs: []string(e.CurrentProjectIDs),
		})
	}
	for _, p := range projects {
		snap.Projects = append(snap.Projects, models.Project{
			ID:            p.ID,
			Name:          p.Name,
			Priority:      p.Priority,
			TeamMemberIDs: []string(p.TeamMemberIDs),
			Deadline:      p.Deadline,
		})
	}
	for _, z := range zones {
		snap.Zones = append(snap.Zones, models.Zone{ID: z.ID, Name: z.Name, FloorID: z.FloorID, Type: z.Type})
	}
	for _, st := range seats {
		snap.Seats = append(snap.Seats, models.Seat{
			ID:      st.ID,
			Label:   st.Label,
			ZoneID:  st.ZoneID,
			FloorID: st.FloorID,
			Status:  st.Status,
		})
	}
	return snap, nil
}

// UpdateSeatStatus changes a seat's status
func (s *DirectoryStore) UpdateSeatStatus(ctx context.Context, id, status string) error {
	res := s.db.WithContext(ctx).Model(&SeatRecord{}).Where("id = ?", id).Updates(map[string]any{
		"status":        status,
		"last_modified": time.Now().UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("update seat %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSeatNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
