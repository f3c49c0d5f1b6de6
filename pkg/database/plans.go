package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// PlanRecord represents the seating_plans table
type PlanRecord struct {
	ID                  string `gorm:"primaryKey;size:36"`
	Name                string `gorm:"not null"`
	Description         string
	Parameters          datatypes.JSONType[models.Parameters]
	Strategy            string
	Assignments         datatypes.JSONSlice[models.Assignment]
	UnassignedEmployees datatypes.JSONSlice[string]
	UnassignedSeats     datatypes.JSONSlice[string]
	OptimizationScore   int
	IsActive            bool `gorm:"index;not null;default:false"`
	CreatedBy           string
	CreatedAt           time.Time `gorm:"index"`
	EffectiveFrom       *time.Time
}

// TableName implements gorm's tabler
func (PlanRecord) TableName() string { return "seating_plans" }

func planRecordFrom(p models.Plan) PlanRecord {
	assignments := p.Assignments
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return PlanRecord{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Parameters:          datatypes.NewJSONType(p.Parameters),
		Strategy:            p.Strategy,
		Assignments:         datatypes.JSONSlice[models.Assignment](assignments),
		UnassignedEmployees: datatypes.JSONSlice[string](nonNil(p.UnassignedEmployees)),
		UnassignedSeats:     datatypes.JSONSlice[string](nonNil(p.UnassignedSeats)),
		OptimizationScore:   p.OptimizationScore,
		IsActive:            p.IsActive,
		CreatedBy:           p.CreatedBy,
		CreatedAt:           p.CreatedAt,
		EffectiveFrom:       p.EffectiveFrom,
	}
}

// Plan converts the row back into the API model
func (r PlanRecord) Plan() models.Plan {
	assignments := []models.Assignment(r.Assignments)
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return models.Plan{
		ID:                  r.ID,
		Name:                r.Name,
		Description:         r.Description,
		Parameters:          r.Parameters.Data(),
		Strategy:            r.Strategy,
		Assignments:         assignments,
		UnassignedEmployees: nonNil(r.UnassignedEmployees),
		UnassignedSeats:     nonNil(r.UnassignedSeats),
		OptimizationScore:   r.OptimizationScore,
		IsActive:            r.IsActive,
		CreatedBy:           r.CreatedBy,
		CreatedAt:           r.CreatedAt,
		EffectiveFrom:       r.EffectiveFrom,
	}
}

// PlanStore persists seating plans
type PlanStore struct {
	db *gorm.DB
}

// NewPlanStore constructs a PlanStore with the given DB handle
func NewPlanStore(db *gorm.DB) *PlanStore {
	return &PlanStore{db: db}
}

// Create stores a new plan. An empty ID gets a fresh UUID.
func (s *PlanStore) Create(ctx context.Context, plan *models.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	rec := planRecordFrom(*plan)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// Get loads a plan by ID
func (s *PlanStore) Get(ctx context.Context, id string) (models.Plan, error) {
	var rec PlanRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Plan{}, ErrPlanNotFound
		}
		return models.Plan{}, fmt.Errorf("get plan %s: %w", id, err)
	}
	return rec.Plan(), nil
}

// List returns every plan, newest first
func (s *PlanStore) List(ctx context.Context) ([]models.Plan, error) {
	var recs []PlanRecord
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	plans := make([]models.Plan, 0, len(recs))
	for _, r := range recs {
		plans = append(plans, r.Plan())
	}
	return plans, nil
}

// Active returns the currently active plan
func (s *PlanStore) Active(ctx context.Context) (models.Plan, error) {
	var rec PlanRecord
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("effective_from desc").First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Plan{}, ErrPlanNotFound
		}
		return models.Plan{}, fmt.Errorf("get active plan: %w", err)
	}
	return rec.Plan(), nil
}

// Activate makes the plan the only active one and stamps its effective date
func (s *PlanStore) Activate(ctx context.Context, id string) (models.Plan, error) {
	var activated PlanRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&activated, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		if err := tx.Model(&PlanRecord{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate plans: %w", err)
		}
		now := time.Now().UTC()
		if err := tx.Model(&PlanRecord{}).Where("id = ?", id).Updates(map[string]any{
			"is_active":      true,
			"effective_from": now,
		}).Error; err != nil {
			return fmt.Errorf("activate plan: %w", err)
		}
		activated.IsActive = true
		activated.EffectiveFrom = &now
		return nil
	})
	if err != nil {
		return models.Plan{}, err
	}
	return activated.Plan(), nil
}

// Deactivate clears the active flag on a plan
func (s *PlanStore) Deactivate(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&PlanRecord{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate plan %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// UpdateParameters overwrites the parameters recorded on a plan.
// Assignments are left untouched; re-run an optimization to apply them.
func (s *PlanStore) UpdateParameters(ctx context.Context, id string, params models.Parameters) (models.Plan, error) {
	res := s.db.WithContext(ctx).Model(&PlanRecord{}).Where("id = ?", id).
		Update("parameters", datatypes.NewJSONType(params))
	if res.Error != nil {
		return models.Plan{}, fmt.Errorf("update plan %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Plan{}, ErrPlanNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a plan
func (s *PlanStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&PlanRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete plan %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
