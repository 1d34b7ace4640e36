package model

import (
	"time"
)

// Accessibility criteria a review may rate. Each carries a 1-5 star rating.
const (
	CriterionAccess   = "Access"
	CriterionRestroom = "Restroom"
	CriterionParking  = "Parking"
	CriterionElevator = "Elevator"
	CriterionSignage  = "Signage"
)

// AccessibilityCriteria is the fixed set of valid criterion names.
var AccessibilityCriteria = []string{
	CriterionAccess,
	CriterionRestroom,
	CriterionParking,
	CriterionElevator,
	CriterionSignage,
}

// IsValidCriterion reports whether name belongs to the fixed criteria set.
func IsValidCriterion(name string) bool {
	for _, c := range AccessibilityCriteria {
		if c == name {
			return true
		}
	}
	return false
}

// Review is one user's accessibility assessment of one location. The
// composite unique index makes the database the authoritative enforcer of
// the one-review-per-(location, user) rule.
type Review struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	LocationID  uint      `gorm:"not null;uniqueIndex:idx_location_user_review" json:"location_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_location_user_review" json:"user_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Location Location          `gorm:"foreignKey:LocationID" json:"-"`
	User     User              `gorm:"foreignKey:UserID" json:"-"`
	Criteria []ReviewCriterion `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"criteria"`
	Photos   []ReviewPhoto     `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"photos"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewCriterion is one rated accessibility dimension within a review.
type ReviewCriterion struct {
	ID       uint   `gorm:"primarykey" json:"-"`
	ReviewID uint   `gorm:"not null;index" json:"-"`
	Name     string `gorm:"column:criteria_name;not null" json:"name"`
	Rating   int    `gorm:"not null" json:"rating"`
}

func (ReviewCriterion) TableName() string {
	return "review_criteria"
}

// ReviewPhoto references a stored photo file by its relative path.
type ReviewPhoto struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ReviewID   uint      `gorm:"not null;index" json:"-"`
	PhotoPath  string    `gorm:"not null" json:"photo_path"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (ReviewPhoto) TableName() string {
	return "review_photos"
}
