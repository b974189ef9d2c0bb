package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

type LeaveType string

const (
	LeaveTypeVacation LeaveType = "vacation"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeUnpaid   LeaveType = "unpaid"
	LeaveTypeParental LeaveType = "parental"
)

type LeaveRequest struct {
	ID             string      `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID string      `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProfileID      string      `gorm:"type:uuid;not null;index" json:"profile_id"`
	Type           LeaveType   `gorm:"type:varchar(20);not null;default:vacation" json:"type"`
	StartDate      time.Time   `gorm:"not null" json:"start_date"`
	EndDate        time.Time   `gorm:"not null" json:"end_date"`
	Status         LeaveStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Reason         string      `gorm:"type:text" json:"reason,omitempty"`
	ReviewedByID   *string     `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
	ReviewedAt     *time.Time  `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (l *LeaveRequest) TableName() string {
	return "leave_requests"
}
