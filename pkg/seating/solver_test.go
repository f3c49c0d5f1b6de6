package seating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

func matrix(scores [][]float64, seats ...string) *Matrix {
	m := &Matrix{Scores: scores}
	for i := range scores {
		m.Employees = append(m.Employees, Employee{ID: string(rune('a' + i))})
	}
	for _, s := range seats {
		m.Seats = append(m.Seats, Seat{ID: s})
	}
	return m
}

func total(pairs []ScoredPair) float64 {
	sum := 0.0
	for _, p := range pairs {
		sum += p.Score
	}
	return sum
}

func TestGreedySolver_TakesBestPairFirst(t *testing.T) {
	m := matrix([][]float64{
		{10, 9},
		{9, 0},
	}, "s1", "s2")

	pairs, err := GreedySolver{}.Solve(context.Background(), m)
	require.NoError(t, err)

	require.Len(t, pairs, 2)
	assert.Equal(t, "a", pairs[0].EmployeeID)
	assert.Equal(t, "s1", pairs[0].SeatID)
	assert.Equal(t, "b", pairs[1].EmployeeID)
	assert.Equal(t, "s2", pairs[1].SeatID)
	assert.Equal(t, 10.0, total(pairs))
}

func TestOptimalSolver_BeatsGreedy(t *testing.T) {
	m := matrix([][]float64{
		{10, 9},
		{9, 0},
	}, "s1", "s2")

	pairs, err := OptimalSolver{}.Solve(context.Background(), m)
	require.NoError(t, err)

	require.Len(t, pairs, 2)
	assert.Equal(t, 18.0, total(pairs))
	got := map[string]string{}
	for _, p := range pairs {
		got[p.EmployeeID] = p.SeatID
	}
	assert.Equal(t, map[string]string{"a": "s2", "b": "s1"}, got)
}

func TestOptimalSolver_Rectangular(t *testing.T) {
	// More employees than seats
	tall := matrix([][]float64{
		{1, 2},
		{8, 3},
		{7, 9},
	}, "s1", "s2")
	pairs, err := OptimalSolver{}.Solve(context.Background(), tall)
	require.NoError(t, err)
	assert.Len(t, pairs, 2)
	assert.Equal(t, 17.0, total(pairs))

	// More seats than employees
	wide := matrix([][]float64{
		{1, 5, 3},
		{4, 6, 2},
	}, "s1", "s2", "s3")
	pairs, err = OptimalSolver{}.Solve(context.Background(), wide)
	require.NoError(t, err)
	assert.Len(t, pairs, 2)
	assert.Equal(t, 9.0, total(pairs))
}

func TestSolvers_Empty(t *testing.T) {
	for _, s := range []Solver{GreedySolver{}, OptimalSolver{}} {
		pairs, err := s.Solve(context.Background(), matrix(nil, "s1"))
		require.NoError(t, err)
		assert.Empty(t, pairs)
	}
}

func TestNewSolver(t *testing.T) {
	s, err := NewSolver("")
	require.NoError(t, err)
	assert.Equal(t, StrategyGreedy, s.Name())

	s, err = NewSolver(StrategyOptimal)
	require.NoError(t, err)
	assert.Equal(t, StrategyOptimal, s.Name())

	_, err = NewSolver("annealing")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestOptimizationScore(t *testing.T) {
	raw := models.Snapshot{
		Employees: []models.Employee{{ID: "e1", TechSkills: []string{"go"}}, {ID: "e2"}},
		Seats:     []models.Seat{{ID: "s1"}, {ID: "s2"}},
	}
	snap := Normalize(raw.Employees, raw.Projects, raw.Seats, raw.Zones)
	sc := NewScorer(&snap, models.Parameters{TechStackWeight: 100}, nil)

	assert.Equal(t, 0, OptimizationScore(sc, nil))

	// 50 and 0 average to 25
	score := OptimizationScore(sc, []models.Assignment{
		{EmployeeID: "e1", SeatID: "s1"},
		{EmployeeID: "e2", SeatID: "s2"},
	})
	assert.Equal(t, 25, score)

	// Unknown pairs are not scored
	score = OptimizationScore(sc, []models.Assignment{
		{EmployeeID: "e1", SeatID: "s1"},
		{EmployeeID: "ghost", SeatID: "s2"},
	})
	assert.Equal(t, 50, score)
}
