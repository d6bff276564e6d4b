package repository

import (
	"context"
	"errors"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
	"gorm.io/gorm"
)

// InspectionRepository is the remote document store, backed by
// PostgreSQL.
type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// FindAll returns every inspection, newest submission first.
func (r *InspectionRepository) FindAll(ctx context.Context) ([]entity.Inspection, error) {
	var items []entity.Inspection
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&items).Error
	return items, err
}

// FindByID loads one inspection.
func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*entity.Inspection, error) {
	var inspection entity.Inspection
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&inspection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

// Create inserts a new inspection.
func (r *InspectionRepository) Create(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Create(inspection).Error
}

// Update replaces an existing inspection wholesale; edits are
// full-record overwrites.
func (r *InspectionRepository) Update(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Save(inspection).Error
}

// Delete removes one inspection by id.
func (r *InspectionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Inspection{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
