package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is scoped to a single (profile, organization) pair. It is never a
// profile-level attribute: the same person can be admin in one organization
// and employee in another at the same time.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Membership ties a profile to an organization with a role. An inactive row
// confers nothing and must be filtered out of every lookup; at most one
// active row per profile may be the default.
type Membership struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_profile_org" json:"profile_id"`
	OrganizationID string    `gorm:"type:uuid;not null;uniqueIndex:idx_profile_org" json:"organization_id"`
	Role           Role      `gorm:"type:varchar(20);not null;default:employee" json:"role"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	IsDefault      bool      `gorm:"default:false" json:"is_default"`
	EmploymentType string    `gorm:"type:varchar(50)" json:"employment_type,omitempty"`
	JoinedVia      string    `gorm:"type:varchar(50)" json:"joined_via,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Profile      *Profile      `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *Membership) TableName() string {
	return "user_organizations"
}
