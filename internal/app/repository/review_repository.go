package repository

import (
	"github.com/acessae/acessae-backend/internal/app/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// FindByID loads a review with its criteria and photos.
func (r *ReviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("Criteria").Preload("Photos").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByIDAndLocation loads a review only when it belongs to the location.
func (r *ReviewRepository) FindByIDAndLocation(reviewID, locationID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("Criteria").Preload("Photos").
		Where("id = ? AND location_id = ?", reviewID, locationID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsForLocationAndUser is the pre-check for the one-review-per-pair rule.
// The unique index remains the authoritative enforcement.
func (r *ReviewRepository) ExistsForLocationAndUser(locationID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("location_id = ? AND user_id = ?", locationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByLocation returns a location's reviews with author, criteria and
// photos, newest first.
func (r *ReviewRepository) ListByLocation(locationID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("User").Preload("Criteria").Preload("Photos").
		Where("location_id = ?", locationID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByUser returns a user's reviews with their location, criteria and
// photos, newest first.
func (r *ReviewRepository) ListByUser(userID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("Location").Preload("Criteria").Preload("Photos").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteTx removes a review and its child rows inside one transaction.
// Explicit child deletes keep the cascade portable across drivers.
func (r *ReviewRepository) DeleteTx(reviewID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&model.ReviewCriterion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&model.ReviewPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Review{}, reviewID).Error
	})
}

// ReferencedPhotoPaths returns every photo path currently stored, used by
// the orphan sweeper to tell live files from leftovers.
func (r *ReviewRepository) ReferencedPhotoPaths() ([]string, error) {
	var paths []string
	err := r.db.Model(&model.ReviewPhoto{}).Pluck("photo_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}
