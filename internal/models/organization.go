package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organization struct {
	ID                  string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string         `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=1,max=255"`
	Slug                string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug" validate:"required"`
	GoogleDomain        string         `gorm:"type:varchar(255)" json:"google_domain,omitempty"`
	RequireGoogleDomain bool           `gorm:"default:false" json:"require_google_domain"`
	Settings            JSON           `gorm:"type:jsonb" json:"settings,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Memberships []Membership `gorm:"foreignKey:OrganizationID" json:"memberships,omitempty"`
	Teams       []Team       `gorm:"foreignKey:OrganizationID" json:"teams,omitempty"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (o *Organization) TableName() string {
	return "organizations"
}
