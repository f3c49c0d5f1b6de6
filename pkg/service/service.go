// Package service ties the optimizer to storage, the plan cache and the
// event stream.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/seat-planner-go/pkg/cache"
	"github.com/arnavshah/seat-planner-go/pkg/database"
	"github.com/arnavshah/seat-planner-go/pkg/events"
	"github.com/arnavshah/seat-planner-go/pkg/metrics"
	"github.com/arnavshah/seat-planner-go/pkg/models"
	"github.com/arnavshah/seat-planner-go/pkg/seating"
)

// Deps are the collaborators of a PlanService. Only the stores are required.
type Deps struct {
	Directory *database.DirectoryStore
	Plans     *database.PlanStore
	Presets   *database.PresetStore
	Cache     *cache.PlanCache
	Publisher events.Publisher
	Metrics   *metrics.Recorder
	Logger    *zap.Logger

	Strategy   string
	Workers    int
	Parameters models.Parameters
}

// PlanService creates, activates and maintains seating plans
type PlanService struct {
	directory *database.DirectoryStore
	plans     *database.PlanStore
	presets   *database.PresetStore
	cache     *cache.PlanCache
	publisher events.Publisher
	metrics   *metrics.Recorder
	logger    *zap.Logger

	strategy string
	workers  int
	params   models.Parameters
	now      func() time.Time
}

// New builds a PlanService
func New(d Deps) *PlanService {
	s := &PlanService{
		directory: d.Directory,
		plans:     d.Plans,
		presets:   d.Presets,
		cache:     d.Cache,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		logger:    d.Logger,
		strategy:  d.Strategy,
		workers:   d.Workers,
		params:    d.Parameters,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if s.publisher == nil {
		s.publisher = events.Noop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.strategy == "" {
		s.strategy = seating.StrategyGreedy
	}
	if s.params == (models.Parameters{}) {
		s.params = models.DefaultParameters()
	}
	return s
}

// DefaultParameters returns the weights used when a request carries none
func (s *PlanService) DefaultParameters() models.Parameters {
	return s.params
}

// DefaultName is the plan name the admin console proposes for a given day
func DefaultName(t time.Time) string {
	return "Seating Plan - " + t.Format("Jan 2, 2006")
}

// DefaultDescription summarises the weights a plan was generated with
func DefaultDescription(p models.Parameters) string {
	return fmt.Sprintf("Generated with team proximity: %d%%, tech stack: %d%%, cross-team: %d%%, deadline: %d%%",
		p.TeamProximityWeight, p.TechStackWeight, p.CrossTeamWeight, p.DeadlineWeight)
}

// Placements maps each employee in plan to the zone of their assigned seat
func Placements(plan models.Plan, snap models.Snapshot) map[string]string {
	seatZone := make(map[string]string, len(snap.Seats))
	for _, st := range snap.Seats {
		seatZone[st.ID] = st.ZoneID
	}
	out := make(map[string]string, len(plan.Assignments))
	for _, a := range plan.Assignments {
		if z, ok := seatZone[a.SeatID]; ok {
			out[a.EmployeeID] = z
		}
	}
	return out
}

// Optimize runs one optimization and stores the resulting inactive plan. The
// stored directory is used unless the request carries its own snapshot.
func (s *PlanService) Optimize(ctx context.Context, in models.OptimizeInput, createdBy string) (models.OptimizeResponse, error) {
	strategy := in.Strategy
	if strategy == "" {
		strategy = s.strategy
	}
	solver, err := seating.NewSolver(strategy)
	if err != nil {
		return models.OptimizeResponse{}, err
	}
	params := s.params
	if in.Parameters != nil {
		params = *in.Parameters
	}
	if err := seating.ValidateParameters(params); err != nil {
		return models.OptimizeResponse{}, err
	}

	var snap models.Snapshot
	if in.Snapshot != nil {
		snap = *in.Snapshot
	} else {
		if snap, err = s.directory.LoadSnapshot(ctx); err != nil {
			return models.OptimizeResponse{}, err
		}
	}
	placements, err := s.currentPlacements(ctx, snap)
	if err != nil {
		return models.OptimizeResponse{}, err
	}

	now := s.now()
	name := in.Name
	if name == "" {
		name = DefaultName(now)
	}
	description := in.Description
	if description == "" {
		description = DefaultDescription(params)
	}

	key, keyErr := cache.Key(solver.Name(), params, placements, snap)
	if keyErr == nil && s.cache.Enabled() {
		entry, hit := s.cache.Get(ctx, key)
		s.metrics.CacheLookup(hit)
		if hit {
			plan := entry.Plan
			plan.ID = ""
			plan.Name = name
			plan.Description = description
			plan.CreatedBy = createdBy
			plan.CreatedAt = now
			plan.IsActive = false
			plan.EffectiveFrom = nil
			if err := s.store(ctx, &plan); err != nil {
				return models.OptimizeResponse{}, err
			}
			return models.OptimizeResponse{Plan: plan, Excluded: entry.Excluded, Cached: true}, nil
		}
	}

	opt := seating.NewOptimizer(
		seating.WithSolver(solver),
		seating.WithWorkers(s.workers),
		seating.WithLogger(s.logger),
	)
	res, err := opt.Optimize(ctx, seating.Input{
		Snapshot:    snap,
		Parameters:  params,
		Placements:  placements,
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
	})
	if err != nil {
		s.metrics.ObserveOptimization(solver.Name(), 0, 0, err)
		return models.OptimizeResponse{}, err
	}
	s.metrics.ObserveOptimization(solver.Name(), res.Duration, res.Plan.OptimizationScore, nil)

	plan := res.Plan
	plan.CreatedAt = now
	if keyErr == nil {
		if err := s.cache.Set(ctx, key, cache.Entry{Plan: plan, Excluded: res.Excluded}); err != nil {
			s.logger.Warn("plan cache write failed", zap.Error(err))
		}
	}
	if err := s.store(ctx, &plan); err != nil {
		return models.OptimizeResponse{}, err
	}
	return models.OptimizeResponse{Plan: plan, Excluded: res.Excluded}, nil
}

// RunPreset optimizes the stored directory with a saved preset's weights. An
// empty preset name uses the default weights.
func (s *PlanService) RunPreset(ctx context.Context, preset, createdBy string) (models.OptimizeResponse, error) {
	params := s.params
	if preset != "" {
		p, err := s.presets.Get(ctx, preset)
		if err != nil {
			return models.OptimizeResponse{}, err
		}
		params = p.Parameters
	}
	return s.Optimize(ctx, models.OptimizeInput{Parameters: &params}, createdBy)
}

// Activate makes a plan the single active plan
func (s *PlanService) Activate(ctx context.Context, id string) (models.Plan, error) {
	plan, err := s.plans.Activate(ctx, id)
	if err != nil {
		return models.Plan{}, err
	}
	s.metrics.PlanActivated()
	s.publish(ctx, events.PlanActivated, plan)
	s.logger.Info("seating plan activated", zap.String("plan_id", plan.ID), zap.String("name", plan.Name))
	return plan, nil
}

// ReplaceDirectory swaps the stored directory and drops cached results
func (s *PlanService) ReplaceDirectory(ctx context.Context, snap models.Snapshot) error {
	if err := s.directory.ReplaceSnapshot(ctx, snap); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("plan cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (s *PlanService) currentPlacements(ctx context.Context, snap models.Snapshot) (map[string]string, error) {
	active, err := s.plans.Active(ctx)
	if errors.Is(err, database.ErrPlanNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Placements(active, snap), nil
}

func (s *PlanService) store(ctx context.Context, plan *models.Plan) error {
	if err := s.plans.Create(ctx, plan); err != nil {
		return err
	}
	s.publish(ctx, events.PlanCreated, *plan)
	s.logger.Info("seating plan created",
		zap.String("plan_id", plan.ID),
		zap.String("strategy", plan.Strategy),
		zap.Int("assigned", len(plan.Assignments)),
		zap.Int("optimization_score", plan.OptimizationScore),
	)
	return nil
}

func (s *PlanService) publish(ctx context.Context, kind string, plan models.Plan) {
	err := s.publisher.Publish(ctx, events.PlanEvent{
		Type:                kind,
		PlanID:              plan.ID,
		Name:                plan.Name,
		OptimizationScore:   plan.OptimizationScore,
		Assigned:            len(plan.Assignments),
		UnassignedEmployees: len(plan.UnassignedEmployees),
		OccurredAt:          s.now(),
	})
	if err != nil {
		s.logger.Warn("plan event not published", zap.String("type", kind), zap.String("plan_id", plan.ID), zap.Error(err))
	}
}
