package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

func TestNormalize_Teammates(t *testing.T) {
	employees := []models.Employee{
		{ID: "alice", TechSkills: []string{"go"}},
		{ID: "bob"},
		{ID: "carol", CurrentProjectIDs: []string{"p2"}},
	}
	projects := []models.Project{
		{ID: "p1", Priority: 4, TeamMemberIDs: []string{"alice", "bob", "dave"}},
		{ID: "p2", Priority: 2, TeamMemberIDs: []string{"alice", "bob"}},
	}

	snap := Normalize(employees, projects, nil, nil)
	require.Len(t, snap.Employees, 3)

	alice := snap.Employees[0]
	assert.Equal(t, []string{"p1", "p2"}, alice.ProjectIDs)
	assert.Equal(t, []int{4, 2}, alice.ProjectPriorities)
	assert.Equal(t, []string{"bob", "dave"}, alice.Teammates)

	// carol is listed on p2 only through her own project list
	carol := snap.Employees[2]
	assert.Equal(t, []string{"p2"}, carol.ProjectIDs)
	assert.Equal(t, []string{"alice", "bob"}, carol.Teammates)
}

func TestNormalize_DanglingReferences(t *testing.T) {
	employees := []models.Employee{{ID: "e1", CurrentProjectIDs: []string{"missing"}}}
	seats := []models.Seat{
		{ID: "s1", ZoneID: "z1", Status: models.SeatAvailable},
		{ID: "s2", ZoneID: "gone", Status: models.SeatAvailable},
	}
	zones := []models.Zone{{ID: "z1", Type: models.ZoneQuietArea}}

	snap := Normalize(employees, nil, seats, zones)

	assert.Empty(t, snap.Employees[0].ProjectIDs)
	assert.Empty(t, snap.Employees[0].Teammates)
	require.Len(t, snap.Seats, 2)
	assert.Equal(t, models.ZoneQuietArea, snap.Seats[0].ZoneType)
	assert.Equal(t, UnknownZoneType, snap.Seats[1].ZoneType)
}

func TestNormalize_OnlyAvailableSeats(t *testing.T) {
	seats := []models.Seat{
		{ID: "s1", Status: models.SeatAvailable},
		{ID: "s2", Status: models.SeatOccupied},
		{ID: "s3", Status: models.SeatReserved},
		{ID: "s4", Status: models.SeatMaintenance},
		{ID: "s5"},
		{ID: "s1", Status: models.SeatAvailable},
	}

	snap := Normalize(nil, nil, seats, nil)

	ids := make([]string, 0, len(snap.Seats))
	for _, s := range snap.Seats {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s1", "s5"}, ids)
	assert.Equal(t, 3, snap.Excluded)
}

func TestNormalize_DuplicateEmployees(t *testing.T) {
	employees := []models.Employee{
		{ID: "e1", Department: "eng"},
		{ID: "e1", Department: "sales"},
	}

	snap := Normalize(employees, nil, nil, nil)

	require.Len(t, snap.Employees, 1)
	assert.Equal(t, "eng", snap.Employees[0].Department)
}
