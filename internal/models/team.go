package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID string    `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Team) TableName() string {
	return "teams"
}

type TeamMember struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_team_profile" json:"team_id"`
	ProfileID string    `gorm:"type:uuid;not null;uniqueIndex:idx_team_profile" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`

	Profile *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

func (tm *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if tm.ID == "" {
		tm.ID = uuid.NewString()
	}
	return nil
}

func (tm *TeamMember) TableName() string {
	return "team_members"
}
