package repository

import (
	"strings"

	"github.com/acessae/acessae-backend/internal/app/model"
	"gorm.io/gorm"
)

// LocationFilter narrows a location listing.
type LocationFilter struct {
	Search          string // case-insensitive substring over name/description/address
	Category        string // exact match
	IncludeInactive bool
}

type LocationRepository interface {
	Create(location *model.Location) error
	FindByID(id uint, includeInactive bool) (*model.Location, error)
	List(filter LocationFilter) ([]model.Location, error)
	Update(location *model.Location) error
	SoftDelete(id uint) (bool, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(location *model.Location) error {
	return r.db.Create(location).Error
}

func (r *locationRepository) FindByID(id uint, includeInactive bool) (*model.Location, error) {
	var location model.Location
	query := r.db.Preload("Creator")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&location, id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) List(filter LocationFilter) ([]model.Location, error) {
	var locations []model.Location

	query := r.db.Model(&model.Location{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	err := query.Preload("Creator").Order("name ASC").Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) Update(location *model.Location) error {
	return r.db.Save(location).Error
}

// SoftDelete flips is_active off. Returns false when no active row matched.
func (r *locationRepository) SoftDelete(id uint) (bool, error) {
	result := r.db.Model(&model.Location{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
