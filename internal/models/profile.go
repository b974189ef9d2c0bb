package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is an authenticated principal. It exists independently of any
// organization; organization access is expressed only through Membership rows.
type Profile struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string         `gorm:"type:varchar(255)" json:"-"`
	FirstName    string         `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string         `gorm:"type:varchar(100)" json:"last_name"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	Settings     JSON           `gorm:"type:jsonb" json:"settings,omitempty"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Memberships []Membership `gorm:"foreignKey:ProfileID" json:"memberships,omitempty"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Profile) TableName() string {
	return "profiles"
}
