package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/internal/storage"
	"github.com/acessae/acessae-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	maxDescriptionLength = 1000
	maxCriteriaPerReview = 5
	maxPhotosPerReview   = 5
)

// CriterionInput is one rated accessibility dimension submitted by a client.
type CriterionInput struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// PhotoUpload is an attached image held in memory until persisted.
type PhotoUpload struct {
	Filename string
	Data     []byte
}

// ReviewInput is the client-supplied body of a review.
type ReviewInput struct {
	Description string
	Criteria    []CriterionInput
}

// CriterionAverage is the aggregate for one criterion name across all of a
// location's reviews.
type CriterionAverage struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ReviewSummary aggregates a location's reviews. OverallAverage is the
// unweighted mean of the per-criterion averages, so a heavily rated
// criterion does not dominate a sparsely rated one.
type ReviewSummary struct {
	TotalReviews     int                `json:"totalReviews"`
	OverallAverage   float64            `json:"overallAverage"`
	CriteriaAverages []CriterionAverage `json:"criteriaAverages"`
}

// LocationReview is a review as presented on a location page.
type LocationReview struct {
	ID          uint                    `json:"id"`
	LocationID  uint                    `json:"location_id"`
	UserID      uint                    `json:"user_id"`
	UserName    string                  `json:"user_name"`
	Description string                  `json:"description"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Criteria    []model.ReviewCriterion `json:"criteria"`
	Photos      []model.ReviewPhoto     `json:"photos"`
}

// UserReview is a review as presented on the author's profile page.
type UserReview struct {
	ID              uint                    `json:"id"`
	LocationID      uint                    `json:"location_id"`
	LocationName    string                  `json:"location_name"`
	LocationAddress string                  `json:"location_address"`
	Description     string                  `json:"description"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Criteria        []model.ReviewCriterion `json:"criteria"`
	Photos          []model.ReviewPhoto     `json:"photos"`
}

// ReviewService keeps a review plus its criteria and photos consistent: every
// create, replace or destroy runs as one database transaction. Photo files
// are not transactional; writes that a rollback strands are reclaimed by the
// orphan sweeper, and deletes are best-effort.
type ReviewService struct {
	reviewRepo   *repository.ReviewRepository
	locationRepo repository.LocationRepository
	storage      *storage.LocalStorage
	db           *gorm.DB
}

func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	locationRepo repository.LocationRepository,
	store *storage.LocalStorage,
	db *gorm.DB,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		locationRepo: locationRepo,
		storage:      store,
		db:           db,
	}
}

// Create inserts a review with its criteria and photos as one unit. A
// duplicate (location, user) pair yields ErrReviewAlreadyExists: first from
// the pre-check read, and authoritatively from the unique index should two
// requests race past it.
func (s *ReviewService) Create(locationID, userID uint, input ReviewInput, photos []PhotoUpload) (uint, error) {
	if details := validateReviewInput(input, len(photos)); len(details) > 0 {
		return 0, &ValidationError{Details: details}
	}

	if _, err := s.locationRepo.FindByID(locationID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrLocationNotFound
		}
		return 0, err
	}

	exists, err := s.reviewRepo.ExistsForLocationAndUser(locationID, userID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrReviewAlreadyExists
	}

	review := &model.Review{
		LocationID:  locationID,
		UserID:      userID,
		Description: input.Description,
		Criteria:    toCriteria(input.Criteria),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return s.persistPhotos(tx, review.ID, locationID, userID, photos)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrReviewAlreadyExists
		}
		logger.Error("Review creation transaction failed", err, map[string]interface{}{
			"location_id": locationID,
			"user_id":     userID,
		})
		return 0, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":   review.ID,
		"location_id": locationID,
		"user_id":     userID,
		"criteria":    len(input.Criteria),
		"photos":      len(photos),
	})
	return review.ID, nil
}

// Update fully replaces the criteria set, keeps only the photos whose ids
// appear in keepPhotoIDs and appends the new uploads, all in one
// transaction. Physical files of superseded photos are unlinked after the
// commit; a failed unlink leaves an orphan for the sweeper, never an error.
func (s *ReviewService) Update(locationID, reviewID, userID uint, input ReviewInput, keepPhotoIDs []uint, photos []PhotoUpload) error {
	review, err := s.reviewRepo.FindByIDAndLocation(reviewID, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrNotReviewOwner
	}

	keep := make(map[uint]bool, len(keepPhotoIDs))
	for _, id := range keepPhotoIDs {
		keep[id] = true
	}

	var removed []model.ReviewPhoto
	kept := 0
	for _, photo := range review.Photos {
		if keep[photo.ID] {
			kept++
		} else {
			removed = append(removed, photo)
		}
	}

	if details := validateReviewInput(input, kept+len(photos)); len(details) > 0 {
		return &ValidationError{Details: details}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Review{}).Where("id = ?", reviewID).
			Update("description", input.Description).Error; err != nil {
			return err
		}

		// Full replace: the client always resubmits the whole criteria set.
		if err := tx.Where("review_id = ?", reviewID).
			Delete(&model.ReviewCriterion{}).Error; err != nil {
			return err
		}
		criteria := toCriteria(input.Criteria)
		for i := range criteria {
			criteria[i].ReviewID = reviewID
		}
		if err := tx.Create(&criteria).Error; err != nil {
			return err
		}

		for _, photo := range removed {
			if err := tx.Delete(&model.ReviewPhoto{}, photo.ID).Error; err != nil {
				return err
			}
		}

		return s.persistPhotos(tx, reviewID, locationID, userID, photos)
	})
	if err != nil {
		logger.Error("Review update transaction failed", err, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return err
	}

	for _, photo := range removed {
		s.removePhotoFile(photo.PhotoPath, reviewID)
	}

	logger.Info("Review updated", map[string]interface{}{
		"review_id":      reviewID,
		"user_id":        userID,
		"criteria":       len(input.Criteria),
		"photos_removed": len(removed),
		"photos_added":   len(photos),
	})
	return nil
}

// Delete removes a review and its child rows. Photo files are unlinked
// best-effort first; the filesystem is not transactional, so a repeated
// delete tolerates already-missing files.
func (s *ReviewService) Delete(locationID, reviewID, userID uint) error {
	review, err := s.reviewRepo.FindByIDAndLocation(reviewID, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrNotReviewOwner
	}

	for _, photo := range review.Photos {
		s.removePhotoFile(photo.PhotoPath, reviewID)
	}

	if err := s.reviewRepo.DeleteTx(reviewID); err != nil {
		logger.Error("Review deletion failed", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":   reviewID,
		"location_id": locationID,
		"user_id":     userID,
	})
	return nil
}

// ListByLocation returns a location's reviews and their aggregate summary.
func (s *ReviewService) ListByLocation(locationID uint) ([]LocationReview, *ReviewSummary, error) {
	reviews, err := s.reviewRepo.ListByLocation(locationID)
	if err != nil {
		return nil, nil, err
	}

	result := make([]LocationReview, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, LocationReview{
			ID:          review.ID,
			LocationID:  review.LocationID,
			UserID:      review.UserID,
			UserName:    review.User.Name,
			Description: review.Description,
			CreatedAt:   review.CreatedAt,
			UpdatedAt:   review.UpdatedAt,
			Criteria:    review.Criteria,
			Photos:      review.Photos,
		})
	}

	return result, summarize(reviews), nil
}

// ListByUser returns the reviews a user has written, with location context.
func (s *ReviewService) ListByUser(userID uint) ([]UserReview, error) {
	reviews, err := s.reviewRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	result := make([]UserReview, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, UserReview{
			ID:              review.ID,
			LocationID:      review.LocationID,
			LocationName:    review.Location.Name,
			LocationAddress: review.Location.Address,
			Description:     review.Description,
			CreatedAt:       review.CreatedAt,
			UpdatedAt:       review.UpdatedAt,
			Criteria:        review.Criteria,
			Photos:          review.Photos,
		})
	}
	return result, nil
}

// persistPhotos writes each upload to storage and records its row. File
// writes happen inside the transaction scope; rows roll back together, and
// stranded files are the sweeper's problem.
func (s *ReviewService) persistPhotos(tx *gorm.DB, reviewID, locationID, userID uint, photos []PhotoUpload) error {
	now := time.Now()
	for i, photo := range photos {
		if len(photo.Data) == 0 {
			continue
		}
		ext := filepath.Ext(photo.Filename)
		filename := storage.ReviewPhotoFilename(locationID, userID, now, i, ext)
		publicPath, err := s.storage.SaveReviewPhoto(filename, photo.Data)
		if err != nil {
			return fmt.Errorf("failed to persist photo %d: %w", i, err)
		}
		row := &model.ReviewPhoto{
			ReviewID:  reviewID,
			PhotoPath: publicPath,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *ReviewService) removePhotoFile(publicPath string, reviewID uint) {
	if err := s.storage.DeleteReviewPhoto(publicPath); err != nil {
		logger.Warn("Failed to remove photo file", map[string]interface{}{
			"review_id":  reviewID,
			"photo_path": publicPath,
			"error":      err.Error(),
		})
	}
}

func toCriteria(inputs []CriterionInput) []model.ReviewCriterion {
	criteria := make([]model.ReviewCriterion, 0, len(inputs))
	for _, input := range inputs {
		criteria = append(criteria, model.ReviewCriterion{
			Name:   input.Name,
			Rating: input.Rating,
		})
	}
	return criteria
}

// validateReviewInput returns per-field violations, empty when valid.
func validateReviewInput(input ReviewInput, photoCount int) map[string]string {
	details := make(map[string]string)

	if input.Description == "" {
		details["description"] = "description is required"
	} else if len(input.Description) > maxDescriptionLength {
		details["description"] = fmt.Sprintf("description must be at most %d characters", maxDescriptionLength)
	}

	switch {
	case len(input.Criteria) == 0:
		details["criteria"] = "at least one criterion must be rated"
	case len(input.Criteria) > maxCriteriaPerReview:
		details["criteria"] = fmt.Sprintf("at most %d criteria per review", maxCriteriaPerReview)
	default:
		for i, criterion := range input.Criteria {
			if !model.IsValidCriterion(criterion.Name) {
				details[fmt.Sprintf("criteria[%d].name", i)] = "unknown criterion"
			}
			if criterion.Rating < 1 || criterion.Rating > 5 {
				details[fmt.Sprintf("criteria[%d].rating", i)] = "rating must be between 1 and 5"
			}
		}
	}

	if photoCount > maxPhotosPerReview {
		details["photos"] = fmt.Sprintf("at most %d photos per review", maxPhotosPerReview)
	}

	return details
}

// summarize computes per-criterion averages across all reviews, then the
// overall average as the mean of those averages (two-stage on purpose).
func summarize(reviews []model.Review) *ReviewSummary {
	totals := make(map[string]*CriterionAverage)
	for _, review := range reviews {
		for _, criterion := range review.Criteria {
			agg, ok := totals[criterion.Name]
			if !ok {
				agg = &CriterionAverage{Name: criterion.Name}
				totals[criterion.Name] = agg
			}
			agg.Average += float64(criterion.Rating)
			agg.Count++
		}
	}

	// Fixed enum order keeps the output stable between calls.
	averages := make([]CriterionAverage, 0, len(totals))
	sum := 0.0
	for _, name := range model.AccessibilityCriteria {
		agg, ok := totals[name]
		if !ok {
			continue
		}
		agg.Average /= float64(agg.Count)
		averages = append(averages, *agg)
		sum += agg.Average
	}

	overall := 0.0
	if len(averages) > 0 {
		overall = sum / float64(len(averages))
	}

	return &ReviewSummary{
		TotalReviews:     len(reviews),
		OverallAverage:   overall,
		CriteriaAverages: averages,
	}
}
