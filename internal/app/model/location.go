package model

import (
	"time"
)

// Location is a physical place whose accessibility is being catalogued.
// Deletion is soft: is_active=false hides it from default listings.
type Location struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `gorm:"not null" json:"address"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	Category    string    `json:"category"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedBy   *uint     `gorm:"index" json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Creator *User    `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Reviews []Review `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Location) TableName() string {
	return "locations"
}
