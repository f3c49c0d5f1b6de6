package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arnavshah/seat-planner-go/pkg/config"
	"github.com/arnavshah/seat-planner-go/pkg/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestOpen_MySQLRequiresURL(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestDirectoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewDirectoryStore(testDB(t))

	deadline := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	snap := models.Snapshot{
		Employees: []models.Employee{
			{ID: "e2", Name: "Bo", TechSkills: []string{"go"}, Department: "eng", CurrentProjectIDs: []string{"p1"}},
			{ID: "e1", Name: "Al", Department: "ops"},
		},
		Projects: []models.Project{{ID: "p1", Priority: 4, TeamMemberIDs: []string{"e2"}, Deadline: &deadline}},
		Seats: []models.Seat{
			{ID: "s9", ZoneID: "z1", FloorID: "f1"},
			{ID: "s1", ZoneID: "z1", FloorID: "f1", Status: models.SeatMaintenance},
		},
		Zones: []models.Zone{{ID: "z1", Name: "North", FloorID: "f1", Type: models.ZoneTeamArea}},
	}
	require.NoError(t, store.ReplaceSnapshot(ctx, snap))

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)

	require.Len(t, got.Employees, 2)
	assert.Equal(t, "e2", got.Employees[0].ID)
	assert.Equal(t, []string{"go"}, got.Employees[0].TechSkills)
	assert.Equal(t, "e1", got.Employees[1].ID)
	assert.Empty(t, got.Employees[1].TechSkills)

	require.Len(t, got.Seats, 2)
	assert.Equal(t, "s9", got.Seats[0].ID)
	assert.Equal(t, models.SeatAvailable, got.Seats[0].Status)
	assert.Equal(t, models.SeatMaintenance, got.Seats[1].Status)

	require.Len(t, got.Projects, 1)
	require.NotNil(t, got.Projects[0].Deadline)
	assert.True(t, deadline.Equal(*got.Projects[0].Deadline))
	assert.Equal(t, models.ZoneTeamArea, got.Zones[0].Type)

	// Replacing drops everything from the previous import.
	require.NoError(t, store.ReplaceSnapshot(ctx, models.Snapshot{Employees: []models.Employee{{ID: "e3"}}}))
	got, err = store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Employees, 1)
	assert.Empty(t, got.Seats)
	assert.Empty(t, got.Projects)
}

func TestDirectoryStore_UpdateSeatStatus(t *testing.T) {
	ctx := context.Background()
	store := NewDirectoryStore(testDB(t))
	require.NoError(t, store.ReplaceSnapshot(ctx, models.Snapshot{Seats: []models.Seat{{ID: "s1"}}}))

	require.NoError(t, store.UpdateSeatStatus(ctx, "s1", models.SeatReserved))
	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SeatReserved, got.Seats[0].Status)

	assert.ErrorIs(t, store.UpdateSeatStatus(ctx, "missing", models.SeatReserved), ErrSeatNotFound)
}

func TestPlanStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewPlanStore(testDB(t))

	first := &models.Plan{
		Name:                "First",
		Parameters:          models.DefaultParameters(),
		Strategy:            "greedy",
		Assignments:         []models.Assignment{{EmployeeID: "e1", SeatID: "s1", Reason: "x"}},
		UnassignedEmployees: []string{"e2"},
		OptimizationScore:   64,
		CreatedAt:           time.Now().UTC().Add(-time.Hour),
	}
	second := &models.Plan{Name: "Second", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))
	require.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)
	assert.Equal(t, models.DefaultParameters(), got.Parameters)
	assert.Equal(t, first.Assignments, got.Assignments)
	assert.Equal(t, []string{"e2"}, got.UnassignedEmployees)
	assert.Equal(t, []string{}, got.UnassignedSeats)
	assert.False(t, got.IsActive)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name)

	_, err = store.Active(ctx)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	activated, err := store.Activate(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	require.NotNil(t, activated.EffectiveFrom)

	activated, err = store.Activate(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	active, err := store.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	got, err = store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = store.Activate(ctx, "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	require.NoError(t, store.Deactivate(ctx, second.ID))
	_, err = store.Active(ctx)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	params := models.Parameters{TeamProximityWeight: 10}
	got, err = store.UpdateParameters(ctx, first.ID, params)
	require.NoError(t, err)
	assert.Equal(t, params, got.Parameters)
	assert.Equal(t, first.Assignments, got.Assignments)

	require.NoError(t, store.Delete(ctx, first.ID))
	assert.ErrorIs(t, store.Delete(ctx, first.ID), ErrPlanNotFound)
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPresetStore_Upsert(t *testing.T) {
	ctx := context.Background()
	store := NewPresetStore(testDB(t))

	require.NoError(t, store.Save(ctx, models.Preset{Name: "focus", Parameters: models.Parameters{DeadlineWeight: 100}}))
	require.NoError(t, store.Save(ctx, models.Preset{Name: "default", Parameters: models.DefaultParameters()}))
	require.NoError(t, store.Save(ctx, models.Preset{Name: "focus", Parameters: models.Parameters{DeadlineWeight: 90}}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "default", list[0].Name)

	got, err := store.Get(ctx, "focus")
	require.NoError(t, err)
	assert.Equal(t, 90, got.Parameters.DeadlineWeight)

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestNotificationStore(t *testing.T) {
	ctx := context.Background()
	store := NewNotificationStore(testDB(t))

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		n := &models.Notification{Kind: "plan.created", PlanID: "p", Message: "m", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.Create(ctx, n))
		assert.NotZero(t, n.ID)
	}

	got, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
}
