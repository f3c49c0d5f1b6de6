package seating

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// Input is everything one optimization run needs. Placements optionally maps
// employee IDs to the zone they currently sit in.
type Input struct {
	Snapshot    models.Snapshot
	Parameters  models.Parameters
	Placements  map[string]string
	Name        string
	Description string
	CreatedBy   string
}

// Result is the outcome of one optimization run
type Result struct {
	Plan     models.Plan
	Excluded int
	Duration time.Duration
}

// Optimizer runs the normalize, score, solve and aggregate pipeline
type Optimizer struct {
	solver  Solver
	workers int
	logger  *zap.Logger
}

// Option configures an Optimizer
type Option func(*Optimizer)

// WithSolver replaces the default greedy solver
func WithSolver(s Solver) Option {
	return func(o *Optimizer) { o.solver = s }
}

// WithWorkers sets how many goroutines score employee rows
func WithWorkers(n int) Option {
	return func(o *Optimizer) { o.workers = n }
}

// WithLogger attaches a logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// NewOptimizer creates a new optimizer instance
func NewOptimizer(opts ...Option) *Optimizer {
	o := &Optimizer{
		solver:  GreedySolver{},
		workers: 1,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Strategy returns the name of the configured solver
func (o *Optimizer) Strategy() string {
	return o.solver.Name()
}

// Optimize assigns employees to available seats and builds an inactive plan.
// Employees and seats left over when the pools differ in size are reported on
// the plan.
func (o *Optimizer) Optimize(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	if err := ValidateParameters(in.Parameters); err != nil {
		return nil, err
	}

	snap := Normalize(in.Snapshot.Employees, in.Snapshot.Projects, in.Snapshot.Seats, in.Snapshot.Zones)
	sc := NewScorer(&snap, in.Parameters, in.Placements)

	matrix, err := ScoreMatrix(ctx, &snap, sc, o.workers)
	if err != nil {
		return nil, err
	}
	pairs, err := o.solver.Solve(ctx, matrix)
	if err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0, len(pairs))
	claimedEmployees := make(map[string]bool, len(pairs))
	claimedSeats := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		e, seat, _ := sc.Lookup(p.EmployeeID, p.SeatID)
		assignments = append(assignments, models.Assignment{
			EmployeeID: p.EmployeeID,
			SeatID:     p.SeatID,
			Reason:     sc.Breakdown(e, seat).Reason(in.Parameters),
		})
		claimedEmployees[p.EmployeeID] = true
		claimedSeats[p.SeatID] = true
	}

	plan := BuildPlan(sc, assignments, in.Name, in.Description, in.CreatedBy)
	plan.Strategy = o.solver.Name()
	plan.UnassignedEmployees = []string{}
	plan.UnassignedSeats = []string{}
	for _, e := range snap.Employees {
		if !claimedEmployees[e.ID] {
			plan.UnassignedEmployees = append(plan.UnassignedEmployees, e.ID)
		}
	}
	for _, s := range snap.Seats {
		if !claimedSeats[s.ID] {
			plan.UnassignedSeats = append(plan.UnassignedSeats, s.ID)
		}
	}

	res := &Result{Plan: plan, Excluded: snap.Excluded, Duration: time.Since(start)}
	o.logger.Debug("seating optimization finished",
		zap.String("strategy", plan.Strategy),
		zap.Int("employees", len(snap.Employees)),
		zap.Int("seats", len(snap.Seats)),
		zap.Int("assigned", len(assignments)),
		zap.Int("unassigned_employees", len(plan.UnassignedEmployees)),
		zap.Int("optimization_score", plan.OptimizationScore),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}
