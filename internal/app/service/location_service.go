package service

import (
	"errors"
	"strings"

	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/pkg/logger"
	"gorm.io/gorm"
)

// LocationInput carries the writable location fields.
type LocationInput struct {
	Name        string
	Description string
	Address     string
	Latitude    float64
	Longitude   float64
	Category    string
}

type LocationService interface {
	Create(input LocationInput, createdBy uint) (*model.Location, error)
	GetByID(id uint) (*model.Location, error)
	List(search, category string, includeInactive bool) ([]model.Location, error)
	Update(id uint, input LocationInput) (*model.Location, error)
	Delete(id uint) error
}

type locationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

func (s *locationService) Create(input LocationInput, createdBy uint) (*model.Location, error) {
	if details := validateLocationInput(input); len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	location := &model.Location{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Address:     strings.TrimSpace(input.Address),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Category:    input.Category,
		IsActive:    true,
	}
	if createdBy != 0 {
		location.CreatedBy = &createdBy
	}

	if err := s.locationRepo.Create(location); err != nil {
		logger.Error("Failed to create location", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Location created", map[string]interface{}{
		"location_id": location.ID,
		"name":        location.Name,
	})
	return location, nil
}

func (s *locationService) GetByID(id uint) (*model.Location, error) {
	location, err := s.locationRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return location, nil
}

func (s *locationService) List(search, category string, includeInactive bool) ([]model.Location, error) {
	return s.locationRepo.List(repository.LocationFilter{
		Search:          search,
		Category:        category,
		IncludeInactive: includeInactive,
	})
}

func (s *locationService) Update(id uint, input LocationInput) (*model.Location, error) {
	if details := validateLocationInput(input); len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	location, err := s.locationRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	location.Name = strings.TrimSpace(input.Name)
	location.Description = input.Description
	location.Address = strings.TrimSpace(input.Address)
	location.Latitude = input.Latitude
	location.Longitude = input.Longitude
	location.Category = input.Category

	if err := s.locationRepo.Update(location); err != nil {
		logger.Error("Failed to update location", err, map[string]interface{}{
			"location_id": id,
		})
		return nil, err
	}

	logger.Info("Location updated", map[string]interface{}{
		"location_id": location.ID,
	})
	return location, nil
}

// Delete deactivates the location. Its reviews stay in place but stop being
// reachable through the public listing.
func (s *locationService) Delete(id uint) error {
	matched, err := s.locationRepo.SoftDelete(id)
	if err != nil {
		logger.Error("Failed to delete location", err, map[string]interface{}{
			"location_id": id,
		})
		return err
	}
	if !matched {
		return ErrLocationNotFound
	}

	logger.Info("Location deactivated", map[string]interface{}{
		"location_id": id,
	})
	return nil
}

func validateLocationInput(input LocationInput) map[string]string {
	details := make(map[string]string)
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "name is required"
	}
	if strings.TrimSpace(input.Address) == "" {
		details["address"] = "address is required"
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		details["latitude"] = "latitude must be between -90 and 90"
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		details["longitude"] = "longitude must be between -180 and 180"
	}
	return details
}
