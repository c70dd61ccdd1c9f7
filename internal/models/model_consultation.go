package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/fatflowers/storetis/pkg/tool"
	"github.com/fatflowers/storetis/pkg/types"
)

// ConsultationRequest asks staff to get in touch with a customer about a service.
type ConsultationRequest struct {
	ID              string                   `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID          string                   `gorm:"column:user_id;type:varchar(36);not null;index:idx_consult_user_service,priority:1" json:"user_id"`
	User            *User                    `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ServiceID       *string                  `gorm:"column:service_id;type:varchar(36);index:idx_consult_user_service,priority:2" json:"service_id"`
	Service         *Service                 `gorm:"constraint:OnDelete:SET NULL" json:"service,omitempty"`
	AssignedStaffID *string                  `gorm:"column:assigned_staff_id;type:varchar(36);index" json:"assigned_staff_id"`
	AssignedStaff   *User                    `gorm:"constraint:OnDelete:SET NULL" json:"assigned_staff,omitempty"`
	Status          types.ConsultationStatus `gorm:"column:status;type:varchar(20);not null;default:'new';index" json:"status"`
	Notes           string                   `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt       time.Time                `gorm:"index" json:"created_at"`
	CompletedAt     *time.Time               `gorm:"column:completed_at" json:"completed_at"`
}

func (ConsultationRequest) TableName() string {
	return "consultation_request"
}

func (c *ConsultationRequest) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = tool.GenerateUUIDV7()
	}
	return nil
}
