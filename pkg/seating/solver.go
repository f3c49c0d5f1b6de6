package seating

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Strategy names
const (
	StrategyGreedy  = "greedy"
	StrategyOptimal = "optimal"
)

// ScoredPair is one candidate employee-seat pairing. Pairs live only for the
// duration of a solve.
type ScoredPair struct {
	EmployeeID string
	SeatID     string
	Score      float64

	employee int
	seat     int
}

// Matrix holds the score of every employee (row) against every seat (column)
type Matrix struct {
	Employees []Employee
	Seats     []Seat
	Scores    [][]float64
}

// ScoreMatrix scores the full cross product of a snapshot. Rows are scored by up
// to workers goroutines; each row is written to its own slot so the result does
// not depend on completion order.
func ScoreMatrix(ctx context.Context, snap *Snapshot, sc *Scorer, workers int) (*Matrix, error) {
	m := &Matrix{
		Employees: snap.Employees,
		Seats:     snap.Seats,
		Scores:    make([][]float64, len(snap.Employees)),
	}
	if len(snap.Employees) == 0 || len(snap.Seats) == 0 {
		return m, ctx.Err()
	}

	scoreRow := func(i int) {
		row := make([]float64, len(m.Seats))
		for j := range m.Seats {
			row[j] = sc.Score(&m.Employees[i], &m.Seats[j])
		}
		m.Scores[i] = row
	}

	if workers <= 1 {
		for i := range m.Employees {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scoreRow(i)
		}
		return m, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range m.Employees {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scoreRow(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// Pairs flattens the matrix into scored pairs in enumeration order
func (m *Matrix) Pairs() []ScoredPair {
	pairs := make([]ScoredPair, 0, len(m.Employees)*len(m.Seats))
	for i := range m.Employees {
		for j := range m.Seats {
			pairs = append(pairs, ScoredPair{
				EmployeeID: m.Employees[i].ID,
				SeatID:     m.Seats[j].ID,
				Score:      m.Scores[i][j],
				employee:   i,
				seat:       j,
			})
		}
	}
	return pairs
}

// Solver turns a score matrix into a one-to-one matching
type Solver interface {
	Name() string
	Solve(ctx context.Context, m *Matrix) ([]ScoredPair, error)
}

// NewSolver returns the solver registered under name. An empty name selects greedy.
func NewSolver(name string) (Solver, error) {
	switch name {
	case "", StrategyGreedy:
		return GreedySolver{}, nil
	case StrategyOptimal:
		return OptimalSolver{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// GreedySolver repeatedly accepts the best remaining pair whose employee and seat
// are both still free. It is not globally optimal.
type GreedySolver struct{}

// Name implements Solver
func (GreedySolver) Name() string { return StrategyGreedy }

// Solve implements Solver
func (GreedySolver) Solve(ctx context.Context, m *Matrix) ([]ScoredPair, error) {
	target := min(len(m.Employees), len(m.Seats))
	if target == 0 {
		return []ScoredPair{}, nil
	}

	pairs := m.Pairs()
	slices.SortFunc(pairs, comparePairs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claimedEmployees := make([]bool, len(m.Employees))
	claimedSeats := make([]bool, len(m.Seats))
	accepted := make([]ScoredPair, 0, target)

	for _, p := range pairs {
		if claimedEmployees[p.employee] || claimedSeats[p.seat] {
			continue
		}
		claimedEmployees[p.employee] = true
		claimedSeats[p.seat] = true
		accepted = append(accepted, p)

		// Every employee or every seat is claimed
		if len(accepted) == target {
			break
		}
	}
	return accepted, nil
}

// comparePairs orders by score descending, then by input order of employee and seat
func comparePairs(a, b ScoredPair) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.employee, b.employee); c != 0 {
		return c
	}
	return cmp.Compare(a.seat, b.seat)
}
