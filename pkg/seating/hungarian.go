package seating

import (
	"context"
	"math"
	"slices"
)

// OptimalSolver finds a maximum-total-score matching with the Hungarian
// (Kuhn-Munkres) method. It runs in O(n^2 m) for n = min(employees, seats).
type OptimalSolver struct{}

// Name implements Solver
func (OptimalSolver) Name() string { return StrategyOptimal }

// Solve implements Solver
func (OptimalSolver) Solve(ctx context.Context, m *Matrix) ([]ScoredPair, error) {
	rows, cols := len(m.Employees), len(m.Seats)
	if rows == 0 || cols == 0 {
		return []ScoredPair{}, nil
	}

	// The method needs rows <= cols, so seats become rows when they are scarcer
	transposed := rows > cols
	if transposed {
		rows, cols = cols, rows
	}
	cost := func(i, j int) float64 {
		if transposed {
			return -m.Scores[j][i]
		}
		return -m.Scores[i][j]
	}

	u := make([]float64, rows+1)
	v := make([]float64, cols+1)
	p := make([]int, cols+1)
	way := make([]int, cols+1)
	minv := make([]float64, cols+1)
	used := make([]bool, cols+1)

	for i := 1; i <= rows; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], math.Inf(1), 0
			for j := 1; j <= cols; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= cols; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	accepted := make([]ScoredPair, 0, rows)
	for j := 1; j <= cols; j++ {
		if p[j] == 0 {
			continue
		}
		e, s := p[j]-1, j-1
		if transposed {
			e, s = s, e
		}
		accepted = append(accepted, ScoredPair{
			EmployeeID: m.Employees[e].ID,
			SeatID:     m.Seats[s].ID,
			Score:      m.Scores[e][s],
			employee:   e,
			seat:       s,
		})
	}
	slices.SortFunc(accepted, comparePairs)
	return accepted, nil
}
