package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusAccepted  InvitationStatus = "accepted"
	InvitationStatusCancelled InvitationStatus = "cancelled"
	InvitationStatusExpired   InvitationStatus = "expired"
)

type Invitation struct {
	ID             string           `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID string           `gorm:"type:uuid;not null;index" json:"organization_id"`
	Email          string           `gorm:"type:varchar(255);not null" json:"email" validate:"required,email"`
	Role           Role             `gorm:"type:varchar(20);not null;default:employee" json:"role"`
	Token          string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	Status         InvitationStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	ExpiresAt      time.Time        `gorm:"not null" json:"expires_at"`
	InvitedByID    string           `gorm:"type:uuid;not null" json:"invited_by_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Token == "" {
		i.Token = uuid.NewString()
	}
	return nil
}

func (i *Invitation) TableName() string {
	return "invitations"
}
