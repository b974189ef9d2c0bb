package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationSettings struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID  string    `gorm:"type:uuid;uniqueIndex;not null" json:"organization_id"`
	AnnualLeaveDays int       `gorm:"default:26" json:"annual_leave_days"`
	CarryOverDays   int       `gorm:"default:5" json:"carry_over_days"`
	RequireApproval bool      `gorm:"default:true" json:"require_approval"`
	Timezone        string    `gorm:"type:varchar(64);default:UTC" json:"timezone"`
	Plan            string    `gorm:"type:varchar(50);default:free" json:"plan"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *OrganizationSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *OrganizationSettings) TableName() string {
	return "organization_settings"
}
