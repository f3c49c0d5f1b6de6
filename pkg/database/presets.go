package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// PresetRecord represents the parameter_presets table
type PresetRecord struct {
	Name       string `gorm:"primaryKey;size:128"`
	Parameters datatypes.JSONType[models.Parameters]
	UpdatedAt  time.Time
}

// TableName implements gorm's tabler
func (PresetRecord) TableName() string { return "parameter_presets" }

// PresetStore persists named parameter configurations
type PresetStore struct {
	db *gorm.DB
}

// NewPresetStore constructs a PresetStore with the given DB handle
func NewPresetStore(db *gorm.DB) *PresetStore {
	return &PresetStore{db: db}
}

// Save inserts or replaces a preset by name
func (s *PresetStore) Save(ctx context.Context, p models.Preset) error {
	rec := PresetRecord{
		Name:       p.Name,
		Parameters: datatypes.NewJSONType(p.Parameters),
		UpdatedAt:  time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"parameters", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save preset %s: %w", p.Name, err)
	}
	return nil
}

// List returns all presets ordered by name
func (s *PresetStore) List(ctx context.Context) ([]models.Preset, error) {
	var recs []PresetRecord
	if err := s.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	presets := make([]models.Preset, 0, len(recs))
	for _, r := range recs {
		presets = append(presets, models.Preset{Name: r.Name, Parameters: r.Parameters.Data()})
	}
	return presets, nil
}

// Get loads a preset by name
func (s *PresetStore) Get(ctx context.Context, name string) (models.Preset, error) {
	var rec PresetRecord
	if err := s.db.WithContext(ctx).First(&rec, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Preset{}, ErrPresetNotFound
		}
		return models.Preset{}, fmt.Errorf("get preset %s: %w", name, err)
	}
	return models.Preset{Name: rec.Name, Parameters: rec.Parameters.Data()}, nil
}
